package router

import (
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/user-management/config"
	appuser "github.com/oksasatya/user-management/internal/application"
	"github.com/oksasatya/user-management/internal/container"
	repouser "github.com/oksasatya/user-management/internal/domain/repository"
	"github.com/oksasatya/user-management/internal/infrastructure/memory"
	"github.com/oksasatya/user-management/internal/infrastructure/messaging"
	mongoinfra "github.com/oksasatya/user-management/internal/infrastructure/mongodb"
	pginfra "github.com/oksasatya/user-management/internal/infrastructure/postgres"
	"github.com/oksasatya/user-management/internal/infrastructure/search"
	handlers "github.com/oksasatya/user-management/internal/interface/http"
	"github.com/oksasatya/user-management/internal/router/modules"
	mailtpl "github.com/oksasatya/user-management/pkg/mailer/templates"
)

type UserModuleDeps struct {
	Repo    repouser.UserRepository
	Service *appuser.Service
	Handler *handlers.UserHandler
}

// BuildUserRepository returns the store selected by STORE_DRIVER, backed by
// the connections registered in the container.
func BuildUserRepository(cfg *config.Config) repouser.UserRepository {
	switch cfg.StoreDriver {
	case config.StorePostgres:
		return pginfra.NewUserRepository(container.GetPGPool())
	case config.StoreMemory:
		return memory.NewUserRepository()
	default:
		return mongoinfra.NewUserRepository(container.GetMongoDB().Collection(mongoinfra.UsersCollection))
	}
}

// PolicyFromConfig maps the registration policy keys onto the service policy.
func PolicyFromConfig(cfg *config.Config) appuser.Policy {
	p := appuser.DefaultPolicy()
	if cfg.MinUserAge > 0 {
		p.MinimumAge = cfg.MinUserAge
	}
	p.UpdateExcludeSelf = cfg.UpdateUniquenessPolicy != config.UniquenessIncludeSelf
	p.BcryptCost = cfg.BcryptCost
	return p
}

// BuildUserService wires the service with whichever side effects are available.
func BuildUserService(cfg *config.Config, repo repouser.UserRepository, logger *logrus.Logger) *appuser.Service {
	var indexer appuser.UserIndexer
	if es := container.GetES(); es != nil {
		indexer = search.NewUserIndex(es, cfg.ESUsersIndex)
	}
	var notifier appuser.Notifier
	if pub := container.GetRabbitPub(); pub != nil && cfg.MailSendEnabled {
		notifier = messaging.NewEmailNotifier(pub, mailtpl.Brand{
			CompanyName: cfg.CompanyName,
			AppName:     cfg.AppName,
			SupportURL:  cfg.SupportURL,
		})
	}
	return appuser.NewService(repo, logger, PolicyFromConfig(cfg), indexer, notifier)
}

func buildUserDeps() UserModuleDeps {
	cfg := container.GetConfig()
	repo := BuildUserRepository(cfg)
	service := BuildUserService(cfg, repo, container.GetLogger())
	handler := handlers.NewUserHandler(service, container.GetLogger())

	return UserModuleDeps{
		Repo:    repo,
		Service: service,
		Handler: handler,
	}
}

// InitModules initializes all application modules and registers them with the router registry
// This function should be called once during application startup to wire up all modules
func InitModules(r *Registry) {
	if r.Logger == nil {
		r.Logger = container.GetLogger()
	}
	userDeps := buildUserDeps()
	r.Add(modules.NewUserModule(userDeps.Handler, container.GetJWT(), container.GetRedis()))
	if container.GetConfig().DebugMetricsEnabled {
		r.Add(modules.NewDebugModule(container.GetRedis()))
	}
}
