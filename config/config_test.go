package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("STORE_DRIVER", "")
	t.Setenv("UPDATE_UNIQUENESS_POLICY", "")
	t.Setenv("MIN_USER_AGE", "")
	t.Setenv("BCRYPT_COST", "")

	cfg := Load()

	assert.Equal(t, StoreMongo, cfg.StoreDriver)
	assert.Equal(t, UniquenessExcludeSelf, cfg.UpdateUniquenessPolicy)
	assert.Equal(t, 13, cfg.MinUserAge)
	assert.Equal(t, 10, cfg.BcryptCost)
	assert.Equal(t, "UserManagementDb", cfg.MongoDatabase)
	assert.Equal(t, 10*time.Second, cfg.MongoTimeout)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("STORE_DRIVER", "Postgres")
	t.Setenv("UPDATE_UNIQUENESS_POLICY", "include_self")
	t.Setenv("MONGO_TIMEOUT", "3s")
	t.Setenv("MAIL_SEND_ENABLED", "false")

	cfg := Load()

	assert.Equal(t, StorePostgres, cfg.StoreDriver)
	assert.Equal(t, UniquenessIncludeSelf, cfg.UpdateUniquenessPolicy)
	assert.Equal(t, 3*time.Second, cfg.MongoTimeout)
	assert.False(t, cfg.MailSendEnabled)
}

func TestLoadFallsBackOnInvalidValues(t *testing.T) {
	t.Setenv("STORE_DRIVER", "cassandra")
	t.Setenv("MIN_USER_AGE", "thirteen")
	t.Setenv("DEBUG_METRICS_ENABLED", "maybe")

	cfg := Load()

	assert.Equal(t, StoreMongo, cfg.StoreDriver)
	assert.Equal(t, 13, cfg.MinUserAge)
	assert.True(t, cfg.DebugMetricsEnabled)
}

func TestListHelpers(t *testing.T) {
	cfg := &Config{
		CORSAllowedOrigins: " http://a.test , ,http://b.test",
		ElasticsearchAddrs: "http://es:9200",
		DBUser:             "u",
		DBPassword:         "p",
		DBHost:             "h",
		DBPort:             "5432",
		DBName:             "db",
		DBSSLMode:          "disable",
	}

	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSOrigins())
	assert.Equal(t, []string{"http://es:9200"}, cfg.ESAddrs())
	assert.Equal(t, "postgres://u:p@h:5432/db?sslmode=disable", cfg.PostgresDSN())
	assert.Empty(t, (&Config{}).ESAddrs())

	cfg.DBPassword = "p@ss/word"
	assert.Equal(t, "postgres://u:p%40ss%2Fword@h:5432/db?sslmode=disable", cfg.PostgresDSN())
}
