package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	handlers "github.com/oksasatya/user-admin/internal/interface/http"
	"github.com/oksasatya/user-admin/internal/interface/middleware"
	"github.com/oksasatya/user-admin/pkg/helpers"
)

// UserModule wires the admin user endpoints under /users:
//
//	GET    /users             list
//	GET    /users/search      search by name or email
//	POST   /users             create (multipart)
//	PUT    /users/:id         update (POST accepted for multipart forms)
//	POST   /users/:id/status  activate or block
//	DELETE /users/:id         delete
//
// JWT is optional; when set every route requires an admin token.
type UserModule struct {
	Handler *handlers.UserHandler
	JWT     *helpers.JWTManager
	Redis   *redis.Client
	Allow   middleware.AllowFunc
}

func NewUserModule(h *handlers.UserHandler, jwt *helpers.JWTManager, rdb *redis.Client, allow middleware.AllowFunc) *UserModule {
	return &UserModule{Handler: h, JWT: jwt, Redis: rdb, Allow: allow}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	users := rg.Group("/users")
	if m.JWT != nil {
		users.Use(middleware.AdminAuth(m.JWT))
	}
	users.Use(middleware.RateLimit(m.Redis, 300, time.Minute, middleware.KeyByIP(), m.Allow))

	// Writes get a tighter per-admin budget.
	writeLimiter := middleware.RateLimit(m.Redis, 60, time.Minute, middleware.KeyByUserID(), m.Allow)
	searchLimiter := middleware.RateLimit(m.Redis, 120, time.Minute, middleware.KeyByIPAndPath(), m.Allow)

	users.GET("", m.Handler.List)
	users.GET("/search", searchLimiter, m.Handler.Search)
	users.POST("", writeLimiter, m.Handler.Create)
	users.PUT("/:id", writeLimiter, m.Handler.Update)
	users.POST("/:id", writeLimiter, m.Handler.Update)
	users.POST("/:id/status", writeLimiter, m.Handler.SetStatus)
	users.DELETE("/:id", writeLimiter, m.Handler.Delete)
}
