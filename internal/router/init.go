package router

import (
	"github.com/foodshare/foodshare-api/internal/application"
	"github.com/foodshare/foodshare-api/internal/container"
	pginfra "github.com/foodshare/foodshare-api/internal/infrastructure/postgres"
	handlers "github.com/foodshare/foodshare-api/internal/interface/http"
	"github.com/foodshare/foodshare-api/internal/router/modules"
)

// InitModules wires repositories, services, and handlers from the container
// singletons and registers every feature module. Called once at startup.
func InitModules(r *Registry) {
	cfg := container.GetConfig()
	logger := container.GetLogger()

	userRepo := pginfra.NewUserRepository(container.GetPGPool())
	listingRepo := pginfra.NewListingRepository(container.GetPGPool())

	authSvc := application.NewAuthService(userRepo, container.GetJWT(), logger)
	listingSvc := application.NewListingService(
		listingRepo,
		userRepo,
		container.GetGCS(),
		cfg.GCSBucket,
		container.GetRabbitPub(),
		container.GetES(),
		cfg.ESListingsIndex,
		logger,
	)

	authHandler := handlers.NewAuthHandler(authSvc, logger)
	listingHandler := handlers.NewListingHandler(listingSvc, logger)
	profileHandler := handlers.NewProfileHandler(authSvc, listingSvc, logger)

	r.Add(modules.NewAuthModule(authHandler, userRepo, container.GetJWT()))
	r.Add(modules.NewListingModule(listingHandler, userRepo, container.GetJWT()))
	r.Add(modules.NewProfileModule(profileHandler, userRepo, container.GetJWT()))
	if cfg.DebugMetricsEnabled {
		r.Add(modules.NewDebugModule())
	}
}
