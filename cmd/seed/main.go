package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/joho/godotenv"

	"github.com/oksasatya/user-management/config"
	userapp "github.com/oksasatya/user-management/internal/application"
	"github.com/oksasatya/user-management/internal/container"
	mongoinfra "github.com/oksasatya/user-management/internal/infrastructure/mongodb"
	pginfra "github.com/oksasatya/user-management/internal/infrastructure/postgres"
	"github.com/oksasatya/user-management/internal/router"
	"github.com/oksasatya/user-management/pkg/helpers"
)

// seed registers a demo user through the service so every validator applies,
// then prints an admin bearer token when ADMIN_JWT_SECRET is set.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-seed", cfg.Env)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	switch cfg.StoreDriver {
	case config.StorePostgres:
		if err := pginfra.RunMigrations(cfg.PostgresDSN(), cfg.MigrationsDir, logger); err != nil {
			logger.WithError(err).Fatal("migration failed")
		}
		pool, err := pginfra.NewPool(ctx, pginfra.OptionsFromConfig(cfg))
		if err != nil {
			logger.WithError(err).Fatal("failed to connect to postgres")
		}
		defer pool.Close()
		container.SetPGPool(pool)
	case config.StoreMemory:
		logger.Warn("STORE_DRIVER=memory; the seeded user only lives for this process")
	default:
		client, err := mongoinfra.NewClient(ctx, cfg.MongoURI, cfg.MongoTimeout)
		if err != nil {
			logger.WithError(err).Fatal("failed to connect to mongo")
		}
		defer func() { _ = client.Disconnect(context.Background()) }()
		db := client.Database(cfg.MongoDatabase)
		if err := mongoinfra.NewUserRepository(db.Collection(mongoinfra.UsersCollection)).EnsureIndexes(ctx); err != nil {
			logger.WithError(err).Fatal("failed to ensure mongo indexes")
		}
		container.SetMongoDB(db)
	}

	repo := router.BuildUserRepository(cfg)
	svc := userapp.NewService(repo, logger, router.PolicyFromConfig(cfg), nil, nil)

	displayName := "Demo"
	u, err := svc.Register(ctx, userapp.RegisterInput{
		Username:    "demo",
		Email:       "demo.user@example.com",
		PhoneNumber: "01700000001",
		FirstName:   "Demo",
		LastName:    "User",
		DateOfBirth: ptr(time.Date(1990, time.January, 15, 0, 0, 0, 0, time.UTC)),
		DisplayName: &displayName,
		Password:    "Seed#Pass2024",
	})
	var ve *userapp.ValidationError
	switch {
	case errors.As(err, &ve):
		logger.WithField("reason", ve.Reason).Info("demo user not created")
	case err != nil:
		logger.WithError(err).Fatal("failed to seed user")
	default:
		fmt.Printf("seeded user: id=%s email=%s username=%s\n", u.ID, u.Email, u.Username)
	}

	if cfg.AdminJWTSecret == "" {
		return
	}
	token, exp, err := helpers.NewJWTManager(cfg.AdminJWTSecret, cfg.AdminJWTTTL).GenerateToken("seed", helpers.RoleAdmin)
	if err != nil {
		logger.WithError(err).Fatal("failed to sign admin token")
	}
	fmt.Printf("admin token (expires %s):\n%s\n", exp.Format(time.RFC3339), token)
}

func ptr[T any](v T) *T { return &v }
