package router

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/user-management/config"
	"github.com/oksasatya/user-management/internal/container"
	"github.com/oksasatya/user-management/internal/infrastructure/memory"
	"github.com/oksasatya/user-management/pkg/helpers"
	"github.com/oksasatya/user-management/pkg/validation"
)

func init() {
	gin.SetMode(gin.TestMode)
	validation.Init()
}

func setup(t *testing.T, jwt *helpers.JWTManager, debug bool) *gin.Engine {
	r, _ := setupRegistry(t, jwt, debug)
	return r
}

func setupRegistry(t *testing.T, jwt *helpers.JWTManager, debug bool) (*gin.Engine, *Registry) {
	t.Helper()
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	container.SetConfig(&config.Config{
		StoreDriver:            config.StoreMemory,
		MinUserAge:             13,
		BcryptCost:             4,
		UpdateUniquenessPolicy: config.UniquenessExcludeSelf,
		DebugMetricsEnabled:    debug,
	})
	container.SetLogger(logger)
	container.SetJWT(jwt)
	t.Cleanup(func() { container.SetJWT(nil) })

	r := gin.New()
	reg := NewRegistry(r)
	InitModules(reg)
	reg.RegisterAll()
	return r, reg
}

func call(r *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRoutesWithAdminGuard(t *testing.T) {
	jwt := helpers.NewJWTManager("secret", time.Hour)
	r := setup(t, jwt, false)
	admin, _, err := jwt.GenerateToken("ops", helpers.RoleAdmin)
	require.NoError(t, err)

	w := call(r, http.MethodPost, "/api/users/register", "", map[string]any{
		"username": "jane", "email": "jane@example.com", "firstName": "Jane", "lastName": "Doe",
		"password": "Abcdef1234!",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var env struct {
		Data struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	id := env.Data.ID

	assert.Equal(t, http.StatusOK, call(r, http.MethodGet, "/api/users/active", "", nil).Code)
	assert.Equal(t, http.StatusOK, call(r, http.MethodGet, "/api/users/"+id, "", nil).Code)

	assert.Equal(t, http.StatusUnauthorized, call(r, http.MethodDelete, "/api/users/"+id, "", nil).Code)
	assert.Equal(t, http.StatusUnauthorized, call(r, http.MethodGet, "/api/users/inactive", "", nil).Code)
	assert.Equal(t, http.StatusUnauthorized, call(r, http.MethodPost, "/api/users/"+id+"/activate", "", nil).Code)

	assert.Equal(t, http.StatusNoContent, call(r, http.MethodDelete, "/api/users/"+id, admin, nil).Code)
	assert.Equal(t, http.StatusOK, call(r, http.MethodGet, "/api/users/inactive", admin, nil).Code)
	assert.Equal(t, http.StatusOK, call(r, http.MethodPost, "/api/users/"+id+"/activate", admin, nil).Code)

	assert.Equal(t, http.StatusNotFound, call(r, http.MethodGet, "/api/debug/vars", "", nil).Code)
}

func TestRoutesWithoutGuard(t *testing.T) {
	r := setup(t, nil, true)

	assert.Equal(t, http.StatusOK, call(r, http.MethodGet, "/api/users/inactive", "", nil).Code)
	assert.Equal(t, http.StatusNotFound, call(r, http.MethodDelete, "/api/users/missing", "", nil).Code)

	w := call(r, http.MethodGet, "/api/debug/vars", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"users"`)
}

func TestRegistryNames(t *testing.T) {
	_, reg := setupRegistry(t, nil, true)
	assert.Equal(t, []string{"users", "debug"}, reg.Names())

	_, reg = setupRegistry(t, nil, false)
	assert.Equal(t, []string{"users"}, reg.Names())
}

func TestBuildUserRepositoryAndPolicy(t *testing.T) {
	cfg := &config.Config{StoreDriver: config.StoreMemory, MinUserAge: 18, UpdateUniquenessPolicy: config.UniquenessIncludeSelf}

	assert.IsType(t, &memory.UserRepository{}, BuildUserRepository(cfg))

	p := PolicyFromConfig(cfg)
	assert.Equal(t, 18, p.MinimumAge)
	assert.False(t, p.UpdateExcludeSelf)
	assert.Zero(t, p.BcryptCost)

	cfg.UpdateUniquenessPolicy = config.UniquenessExcludeSelf
	cfg.MinUserAge = 0
	p = PolicyFromConfig(cfg)
	assert.Equal(t, 13, p.MinimumAge)
	assert.True(t, p.UpdateExcludeSelf)
}
