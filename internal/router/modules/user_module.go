package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	handlers "github.com/oksasatya/user-management/internal/interface/http"
	"github.com/oksasatya/user-management/internal/interface/middleware"
	"github.com/oksasatya/user-management/pkg/helpers"
)

// UserModule wires the user HTTP handlers under /users.
// Public: register, lookup, lists, search, update.
// Admin (when a JWT manager is set): inactive list, activate, delete.
type UserModule struct {
	Handler *handlers.UserHandler
	JWT     *helpers.JWTManager
	Redis   *redis.Client
}

func NewUserModule(h *handlers.UserHandler, jwt *helpers.JWTManager, rdb *redis.Client) *UserModule {
	return &UserModule{Handler: h, JWT: jwt, Redis: rdb}
}

func (m *UserModule) Name() string { return "users" }

func (m *UserModule) Register(rg *gin.RouterGroup) {
	users := rg.Group("/users")
	users.Use(middleware.RateLimit(m.Redis, 300, time.Minute, middleware.KeyByIP(), nil))

	registerLimiter := middleware.RateLimit(m.Redis, 10, time.Minute, middleware.KeyByIPAndPath(), nil)
	admin := middleware.AdminAuth(m.JWT)

	users.POST("/register", registerLimiter, m.Handler.Register)
	users.GET("/active", m.Handler.ListActive)
	users.GET("/inactive", admin, m.Handler.ListInactive)
	users.GET("/search", m.Handler.Search)
	users.GET("/:id", m.Handler.GetByID)
	users.PUT("/:id", m.Handler.Update)
	users.DELETE("/:id", admin, m.Handler.Delete)
	users.POST("/:id/activate", admin, m.Handler.Activate)
}
