package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/foodshare/foodshare-api/internal/container"
	"github.com/foodshare/foodshare-api/internal/domain/repository"
	handlers "github.com/foodshare/foodshare-api/internal/interface/http"
	"github.com/foodshare/foodshare-api/internal/interface/middleware"
	"github.com/foodshare/foodshare-api/pkg/helpers"
)

// AuthModule wires registration, login, and token-introspection routes.
// Public: POST /auth/register, POST /auth/login
// Protected: GET /auth/verify, GET /auth/me
type AuthModule struct {
	Handler *handlers.AuthHandler
	Users   repository.UserRepository
	JWT     *helpers.JWTManager
}

func NewAuthModule(h *handlers.AuthHandler, users repository.UserRepository, jwt *helpers.JWTManager) *AuthModule {
	return &AuthModule{Handler: h, Users: users, JWT: jwt}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	registerLimiter := middleware.RateLimit(container.GetRedis(), 10, time.Minute, middleware.KeyByIPAndPath(), nil)
	loginLimiter := middleware.RateLimit(container.GetRedis(), 10, time.Minute, middleware.KeyByIPAndPath(), nil)

	rg.POST("/auth/register", registerLimiter, m.Handler.Register)
	rg.POST("/auth/login", loginLimiter, m.Handler.Login)

	auth := rg.Group("/auth")
	auth.Use(middleware.Auth(m.Users, m.JWT))
	{
		auth.GET("/verify", m.Handler.Me)
		auth.GET("/me", m.Handler.Me)
	}
}
