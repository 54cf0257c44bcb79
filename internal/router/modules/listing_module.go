package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/foodshare/foodshare-api/internal/container"
	"github.com/foodshare/foodshare-api/internal/domain/entity"
	"github.com/foodshare/foodshare-api/internal/domain/repository"
	handlers "github.com/foodshare/foodshare-api/internal/interface/http"
	"github.com/foodshare/foodshare-api/internal/interface/middleware"
	"github.com/foodshare/foodshare-api/pkg/helpers"
)

// ListingModule wires the listing workflow.
// Public: GET /listings, GET /listings/search
// Donor only: POST /listings, POST /listings/:id/photo
// Receiver only: PATCH /listings/:id/claim
type ListingModule struct {
	Handler *handlers.ListingHandler
	Users   repository.UserRepository
	JWT     *helpers.JWTManager
}

func NewListingModule(h *handlers.ListingHandler, users repository.UserRepository, jwt *helpers.JWTManager) *ListingModule {
	return &ListingModule{Handler: h, Users: users, JWT: jwt}
}

func (m *ListingModule) Register(rg *gin.RouterGroup) {
	browseLimiter := middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByIP(), middleware.AllowPrivateIP())

	rg.GET("/listings", browseLimiter, m.Handler.Browse)
	rg.GET("/listings/search", browseLimiter, m.Handler.Search)

	auth := rg.Group("/listings")
	auth.Use(middleware.Auth(m.Users, m.JWT))
	auth.Use(middleware.RateLimit(container.GetRedis(), 60, time.Minute, middleware.KeyByUser(), nil))
	{
		auth.POST("", middleware.RequireRole(entity.RoleDonor), m.Handler.Create)
		auth.POST("/:id/photo", middleware.RequireRole(entity.RoleDonor), m.Handler.UploadPhoto)
		auth.PATCH("/:id/claim", middleware.RequireRole(entity.RoleReceiver), m.Handler.Claim)
	}
}
