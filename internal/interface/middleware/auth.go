package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/foodshare/foodshare-api/internal/domain/entity"
	"github.com/foodshare/foodshare-api/internal/domain/repository"
	"github.com/foodshare/foodshare-api/pkg/helpers"
	"github.com/foodshare/foodshare-api/pkg/response"
)

// ctxUserKey is the single context key the auth gate writes. Handlers read
// it through CurrentUser rather than untyped context lookups.
const ctxUserKey = "authUser"

// CurrentUser returns the authenticated user attached by Auth.
func CurrentUser(c *gin.Context) (*entity.User, bool) {
	v, ok := c.Get(ctxUserKey)
	if !ok {
		return nil, false
	}
	u, ok := v.(*entity.User)
	return u, ok
}

func bearerToken(c *gin.Context) string {
	h := c.GetHeader("Authorization")
	if h == "" {
		return ""
	}
	parts := strings.SplitN(h, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// Auth validates the bearer token and resolves the user record behind it.
// A token whose user no longer exists is treated as an invalid credential,
// not a server error. On success the user (hash cleared) is attached to the
// request context.
func Auth(users repository.UserRepository, jwt *helpers.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			response.Error[any](c, http.StatusUnauthorized, "missing bearer token", nil)
			c.Abort()
			return
		}
		claims, err := jwt.Parse(token)
		if err != nil {
			msg := "invalid or expired token"
			if errors.Is(err, helpers.ErrTokenExpired) {
				msg = "token expired"
			}
			response.Error[any](c, http.StatusUnauthorized, msg, nil)
			c.Abort()
			return
		}

		u, err := users.GetByID(c.Request.Context(), claims.UserID)
		if err != nil || u == nil {
			response.Error[any](c, http.StatusUnauthorized, "invalid or expired token", nil)
			c.Abort()
			return
		}
		u.Password = ""

		c.Set(ctxUserKey, u)
		c.Next()
	}
}

// RequireRole rejects authenticated callers whose role is not in the allowed
// set. It must run after Auth.
func RequireRole(roles ...entity.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		u, ok := CurrentUser(c)
		if !ok {
			response.Error[any](c, http.StatusUnauthorized, "missing bearer token", nil)
			c.Abort()
			return
		}
		for _, r := range roles {
			if u.Role == r {
				c.Next()
				return
			}
		}
		response.Error[any](c, http.StatusForbidden, "forbidden for role "+string(u.Role), nil)
		c.Abort()
	}
}
