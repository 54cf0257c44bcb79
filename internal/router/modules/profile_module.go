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

// ProfileModule wires the authenticated profile surface:
// GET /profile, PUT /profile, GET /profile/listings, GET /profile/stats.
type ProfileModule struct {
	Handler *handlers.ProfileHandler
	Users   repository.UserRepository
	JWT     *helpers.JWTManager
}

func NewProfileModule(h *handlers.ProfileHandler, users repository.UserRepository, jwt *helpers.JWTManager) *ProfileModule {
	return &ProfileModule{Handler: h, Users: users, JWT: jwt}
}

func (m *ProfileModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/profile")
	auth.Use(middleware.Auth(m.Users, m.JWT))
	auth.Use(middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByUser(), nil))
	{
		auth.GET("", m.Handler.Get)
		auth.PUT("", m.Handler.Update)
		auth.GET("/listings", m.Handler.MyListings)
		auth.GET("/stats", m.Handler.Stats)
	}
}
