package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/foodshare/foodshare-api/internal/application"
	"github.com/foodshare/foodshare-api/internal/domain/entity"
	"github.com/foodshare/foodshare-api/internal/interface/middleware"
	"github.com/foodshare/foodshare-api/pkg/response"
	"github.com/foodshare/foodshare-api/pkg/validation"
)

type AuthHandler struct {
	Svc    *application.AuthService
	Logger *logrus.Logger
}

func NewAuthHandler(svc *application.AuthService, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{Svc: svc, Logger: logger}
}

type registerRequest struct {
	Name         string `json:"name" binding:"required"`
	Email        string `json:"email" binding:"required,email"`
	Password     string `json:"password" binding:"required,pwd"`
	Role         string `json:"role" binding:"required,role"`
	Organization string `json:"organization"`
	Location     string `json:"location"`
	Phone        string `json:"phone"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Register handles POST /auth/register.
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	u, token, exp, err := h.Svc.Register(c.Request.Context(), application.RegisterInput{
		Name:         req.Name,
		Email:        req.Email,
		Password:     req.Password,
		Role:         entity.Role(req.Role),
		Organization: req.Organization,
		Location:     req.Location,
		Phone:        req.Phone,
	})
	if err != nil {
		if errors.Is(err, application.ErrEmailTaken) {
			response.Error[any](c, http.StatusConflict, "user already exists", nil)
			return
		}
		h.Logger.WithError(err).Error("register failed")
		response.Error[any](c, http.StatusInternalServerError, "registration failed", nil)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"token": token, "user": u},
		"registered", gin.H{"token_expires_at": exp})
}

// Login handles POST /auth/login. The failure message never distinguishes an
// unknown email from a wrong password.
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	u, token, exp, err := h.Svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, application.ErrInvalidCredentials) {
			response.Error[any](c, http.StatusUnauthorized, "invalid email or password", nil)
			return
		}
		h.Logger.WithError(err).Error("login failed")
		response.Error[any](c, http.StatusInternalServerError, "login failed", nil)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"token": token, "user": u},
		"login successful", gin.H{"token_expires_at": exp})
}

// Me handles GET /auth/me and GET /auth/verify: both return the identity the
// auth gate resolved for the presented token.
func (h *AuthHandler) Me(c *gin.Context) {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		response.Error[any](c, http.StatusUnauthorized, "missing bearer token", nil)
		return
	}
	response.Success(c, http.StatusOK, u, "authenticated", nil)
}
