package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/foodshare/foodshare-api/internal/application"
	"github.com/foodshare/foodshare-api/internal/interface/middleware"
	"github.com/foodshare/foodshare-api/pkg/response"
	"github.com/foodshare/foodshare-api/pkg/validation"
)

type ProfileHandler struct {
	Auth     *application.AuthService
	Listings *application.ListingService
	Logger   *logrus.Logger
}

func NewProfileHandler(auth *application.AuthService, listings *application.ListingService, logger *logrus.Logger) *ProfileHandler {
	return &ProfileHandler{Auth: auth, Listings: listings, Logger: logger}
}

type updateProfileRequest struct {
	Name         string `json:"name"`
	Organization string `json:"organization"`
	Location     string `json:"location"`
	Phone        string `json:"phone"`
}

// Get handles GET /profile.
func (h *ProfileHandler) Get(c *gin.Context) {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		response.Error[any](c, http.StatusUnauthorized, "missing bearer token", nil)
		return
	}
	response.Success(c, http.StatusOK, u, "profile", nil)
}

// Update handles PUT /profile. Only name/organization/location/phone are
// mutable; omitted or empty fields keep their stored values.
func (h *ProfileHandler) Update(c *gin.Context) {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		response.Error[any](c, http.StatusUnauthorized, "missing bearer token", nil)
		return
	}
	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	updated, err := h.Auth.UpdateProfile(c.Request.Context(), u.ID, application.UpdateProfileInput{
		Name:         req.Name,
		Organization: req.Organization,
		Location:     req.Location,
		Phone:        req.Phone,
	})
	if err != nil {
		h.Logger.WithError(err).Error("update profile failed")
		response.Error[any](c, http.StatusInternalServerError, "could not update profile", nil)
		return
	}
	updated.Password = ""
	response.Success(c, http.StatusOK, updated, "profile updated", nil)
}

// MyListings handles GET /profile/listings: owned listings with claimant
// contact for donors, claimed listings with donor contact for receivers.
func (h *ProfileHandler) MyListings(c *gin.Context) {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		response.Error[any](c, http.StatusUnauthorized, "missing bearer token", nil)
		return
	}
	rows, err := h.Listings.ListForUser(c.Request.Context(), u)
	if err != nil {
		h.Logger.WithError(err).Error("list profile listings failed")
		response.Error[any](c, http.StatusInternalServerError, "could not load listings", nil)
		return
	}
	response.Success(c, http.StatusOK, rows, "listings", gin.H{"count": len(rows)})
}

// Stats handles GET /profile/stats.
func (h *ProfileHandler) Stats(c *gin.Context) {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		response.Error[any](c, http.StatusUnauthorized, "missing bearer token", nil)
		return
	}
	st, err := h.Listings.StatsForUser(c.Request.Context(), u)
	if err != nil {
		h.Logger.WithError(err).Error("profile stats failed")
		response.Error[any](c, http.StatusInternalServerError, "could not compute stats", nil)
		return
	}
	response.Success(c, http.StatusOK, st, "stats", nil)
}
