package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/user-management/config"
	"github.com/oksasatya/user-management/internal/container"
	mongoinfra "github.com/oksasatya/user-management/internal/infrastructure/mongodb"
	pginfra "github.com/oksasatya/user-management/internal/infrastructure/postgres"
	"github.com/oksasatya/user-management/internal/interface/middleware"
	"github.com/oksasatya/user-management/internal/router"
	"github.com/oksasatya/user-management/pkg/helpers"
	"github.com/oksasatya/user-management/pkg/validation"
)

func main() {
	_ = godotenv.Load() // load .env if present

	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName, cfg.Env)
	gin.SetMode(cfg.GinMode)
	validation.Init()

	ctx := context.Background()
	container.SetConfig(cfg)
	container.SetLogger(logger)

	closeStore := openStore(ctx, cfg, logger)
	defer closeStore()

	closeOptional := openOptional(ctx, cfg, logger)
	defer closeOptional()

	if cfg.AdminJWTSecret != "" {
		container.SetJWT(helpers.NewJWTManager(cfg.AdminJWTSecret, cfg.AdminJWTTTL))
	} else {
		logger.Warn("ADMIN_JWT_SECRET not set; admin routes are unprotected")
	}

	// Gin engine and global middleware
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.RealIP())
	if origins := cfg.CORSOrigins(); len(origins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:  origins,
			AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.HeaderRequestID},
			ExposeHeaders: []string{"Content-Length", middleware.HeaderRequestID},
			MaxAge:        12 * time.Hour,
		}))
	}
	if cfg.HTTPLogEnabled || cfg.Env == "development" {
		r.Use(gin.Logger())
	}
	r.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	// Registry: auto-register modules using container
	reg := router.NewRegistry(r)
	router.InitModules(reg)
	reg.RegisterAll()
	logger.WithField("modules", reg.Names()).Info("routes registered")

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		logger.WithFields(logrus.Fields{"port": cfg.Port, "store": cfg.StoreDriver}).Info("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("listen: %s\n", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctxShutdown); err != nil {
		logger.Fatalf("server forced to shutdown: %v", err)
	}
	logger.Info("server exited properly")
}

// openStore connects the configured user store, prepares its schema and
// registers it in the container. The store is mandatory.
func openStore(ctx context.Context, cfg *config.Config, logger *logrus.Logger) func() {
	switch cfg.StoreDriver {
	case config.StorePostgres:
		pool, err := pginfra.NewPool(ctx, pginfra.OptionsFromConfig(cfg))
		if err != nil {
			logger.WithError(err).Fatal("failed to connect to postgres")
		}
		if err := pginfra.RunMigrations(cfg.PostgresDSN(), cfg.MigrationsDir, logger); err != nil {
			logger.WithError(err).Fatal("migration failed")
		}
		container.SetPGPool(pool)
		return pool.Close

	case config.StoreMemory:
		logger.Warn("STORE_DRIVER=memory; data is lost on restart")
		return func() {}

	default:
		client, err := mongoinfra.NewClient(ctx, cfg.MongoURI, cfg.MongoTimeout)
		if err != nil {
			logger.WithError(err).Fatal("failed to connect to mongo")
		}
		db := client.Database(cfg.MongoDatabase)
		repo := mongoinfra.NewUserRepository(db.Collection(mongoinfra.UsersCollection))
		if err := repo.EnsureIndexes(ctx); err != nil {
			logger.WithError(err).Fatal("failed to ensure mongo indexes")
		}
		container.SetMongoDB(db)
		return func() { _ = client.Disconnect(context.Background()) }
	}
}

// openOptional connects Redis, Elasticsearch and RabbitMQ when configured.
// Unreachable services are logged and left out.
func openOptional(ctx context.Context, cfg *config.Config, logger *logrus.Logger) func() {
	var closers []func()

	if cfg.RedisAddr != "" {
		rdb := helpers.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err := helpers.PingRedis(ctx, rdb, 3*time.Second); err != nil {
			helpers.LogWarnSkipped(logger, "redis", err)
			_ = rdb.Close()
		} else {
			container.SetRedis(rdb)
			closers = append(closers, func() { _ = rdb.Close() })
		}
	}

	if addrs := cfg.ESAddrs(); len(addrs) > 0 {
		es, err := helpers.NewESClient(addrs, cfg.ElasticsearchUser, cfg.ElasticsearchPass)
		if err == nil {
			pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
			err = helpers.PingES(pingCtx, es)
			cancel()
		}
		if err != nil {
			helpers.LogWarnSkipped(logger, "elasticsearch", err)
		} else {
			container.SetES(es)
		}
	}

	if cfg.RabbitMQURL != "" && cfg.MailSendEnabled {
		pub, err := helpers.NewRabbitPublisher(cfg.RabbitMQURL, cfg.RabbitMQEmailQueue)
		if err != nil {
			helpers.LogWarnSkipped(logger, "rabbitmq", err)
		} else {
			container.SetRabbitPub(pub)
			closers = append(closers, pub.Close)
		}
	}

	return func() {
		for _, c := range closers {
			c()
		}
	}
}
