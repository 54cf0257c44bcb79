package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/foodshare/foodshare-api/internal/application"
	"github.com/foodshare/foodshare-api/internal/interface/middleware"
	"github.com/foodshare/foodshare-api/pkg/response"
	"github.com/foodshare/foodshare-api/pkg/validation"
)

type ListingHandler struct {
	Svc    *application.ListingService
	Logger *logrus.Logger
}

func NewListingHandler(svc *application.ListingService, logger *logrus.Logger) *ListingHandler {
	return &ListingHandler{Svc: svc, Logger: logger}
}

type createListingRequest struct {
	FoodType    string `json:"food_type" binding:"required"`
	Quantity    string `json:"quantity" binding:"required"`
	Description string `json:"description"`
	Location    string `json:"location" binding:"required"`
}

// Browse handles GET /listings: every available listing with the donor's
// public fields.
func (h *ListingHandler) Browse(c *gin.Context) {
	rows, err := h.Svc.Browse(c.Request.Context())
	if err != nil {
		h.Logger.WithError(err).Error("browse listings failed")
		response.Error[any](c, http.StatusInternalServerError, "could not load listings", nil)
		return
	}
	response.Success(c, http.StatusOK, rows, "listings", gin.H{"count": len(rows)})
}

// Search handles GET /listings/search?q=.
func (h *ListingHandler) Search(c *gin.Context) {
	q := c.Query("q")
	rows, err := h.Svc.Search(c.Request.Context(), q)
	if err != nil {
		h.Logger.WithError(err).Error("search listings failed")
		response.Error[any](c, http.StatusInternalServerError, "could not search listings", nil)
		return
	}
	response.Success(c, http.StatusOK, rows, "listings", gin.H{"count": len(rows), "q": q})
}

// Create handles POST /listings (donor only, enforced by route middleware).
func (h *ListingHandler) Create(c *gin.Context) {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		response.Error[any](c, http.StatusUnauthorized, "missing bearer token", nil)
		return
	}
	var req createListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	l, err := h.Svc.Create(c.Request.Context(), u, application.CreateListingInput{
		FoodType:    req.FoodType,
		Quantity:    req.Quantity,
		Description: req.Description,
		Location:    req.Location,
	})
	if err != nil {
		h.Logger.WithError(err).Error("create listing failed")
		response.Error[any](c, http.StatusInternalServerError, "could not create listing", nil)
		return
	}
	response.Success(c, http.StatusCreated, l, "listing created", nil)
}

// Claim handles PATCH /listings/:id/claim (receiver only, enforced by route
// middleware). A listing that is no longer available yields 409.
func (h *ListingHandler) Claim(c *gin.Context) {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		response.Error[any](c, http.StatusUnauthorized, "missing bearer token", nil)
		return
	}

	l, err := h.Svc.Claim(c.Request.Context(), u, c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, application.ErrListingNotFound):
			response.Error[any](c, http.StatusNotFound, "listing not found", nil)
		case errors.Is(err, application.ErrListingClaimed):
			response.Error[any](c, http.StatusConflict, "listing already claimed", nil)
		default:
			h.Logger.WithError(err).Error("claim listing failed")
			response.Error[any](c, http.StatusInternalServerError, "could not claim listing", nil)
		}
		return
	}
	response.Success(c, http.StatusOK, l, "listing claimed", nil)
}

// UploadPhoto handles POST /listings/:id/photo (owning donor only).
func (h *ListingHandler) UploadPhoto(c *gin.Context) {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		response.Error[any](c, http.StatusUnauthorized, "missing bearer token", nil)
		return
	}

	fh, err := c.FormFile("photo")
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "photo file is required", nil)
		return
	}
	f, err := fh.Open()
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "could not read photo", nil)
		return
	}
	defer func() { _ = f.Close() }()

	url, err := h.Svc.UploadPhoto(c.Request.Context(), u, c.Param("id"), f,
		fh.Filename, fh.Header.Get("Content-Type"))
	if err != nil {
		switch {
		case errors.Is(err, application.ErrListingNotFound):
			response.Error[any](c, http.StatusNotFound, "listing not found", nil)
		case errors.Is(err, application.ErrNotOwner):
			response.Error[any](c, http.StatusForbidden, "listing belongs to another donor", nil)
		case errors.Is(err, application.ErrNoPhotoStorage):
			response.Error[any](c, http.StatusServiceUnavailable, "photo storage not configured", nil)
		default:
			h.Logger.WithError(err).Error("upload listing photo failed")
			response.Error[any](c, http.StatusInternalServerError, "could not upload photo", nil)
		}
		return
	}
	response.Success(c, http.StatusOK, gin.H{"image_url": url}, "photo uploaded", nil)
}
