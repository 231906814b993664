package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yigit/placementportal/internal/app/models"
	"github.com/yigit/placementportal/internal/pkg/apperrors"
	"github.com/yigit/placementportal/internal/pkg/auth"
)

// Context keys set by JWTAuth
const (
	UserIDKey = "userID"
	RoleKey   = "role"
	UserKey   = "user"
)

// Authorizer resolves callers and checks their privileges
type Authorizer interface {
	Authenticate(ctx context.Context, token string) (*models.User, error)
	AuthorizeAdmin(user *models.User) error
}

// AuthMiddleware for authentication and authorization
type AuthMiddleware struct {
	authz Authorizer
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(authz Authorizer) *AuthMiddleware {
	return &AuthMiddleware{authz: authz}
}

// tokenFromRequest reads the bearer token from the Authorization header. When
// allowQuery is set it falls back to the token query parameter.
func tokenFromRequest(c *gin.Context, allowQuery bool) (string, error) {
	if header := c.GetHeader("Authorization"); header != "" {
		return auth.ExtractBearerToken(strings.Trim(header, `"'`))
	}
	if allowQuery {
		if token := strings.TrimSpace(c.Query("token")); token != "" {
			return token, nil
		}
	}
	return "", apperrors.ErrTokenNotFound
}

// JWTAuth validates the Authorization header and loads the caller on every request
func (m *AuthMiddleware) JWTAuth() gin.HandlerFunc {
	return m.authenticate(false)
}

// SocketAuth is JWTAuth for websocket upgrades. Browsers cannot set headers
// on those, so the token may also come from ?token=.
func (m *AuthMiddleware) SocketAuth() gin.HandlerFunc {
	return m.authenticate(true)
}

func (m *AuthMiddleware) authenticate(allowQuery bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := tokenFromRequest(c, allowQuery)
		if err != nil {
			if errors.Is(err, auth.ErrInvalidFormat) {
				err = apperrors.ErrTokenInvalid
			}
			HandleAPIError(c, err)
			return
		}

		user, err := m.authz.Authenticate(c.Request.Context(), token)
		if err != nil {
			HandleAPIError(c, err)
			return
		}

		c.Set(UserIDKey, user.ID)
		c.Set(RoleKey, string(user.Role))
		c.Set(UserKey, user)
		c.Next()
	}
}

// AdminRequired rejects callers without the admin role. It must run after JWTAuth.
func (m *AuthMiddleware) AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil {
			HandleAPIError(c, apperrors.ErrTokenNotFound)
			return
		}
		if err := m.authz.AuthorizeAdmin(user); err != nil {
			HandleAPIError(c, err)
			return
		}
		c.Next()
	}
}

// CurrentUser returns the caller loaded by JWTAuth, or nil
func CurrentUser(c *gin.Context) *models.User {
	v, ok := c.Get(UserKey)
	if !ok {
		return nil
	}
	user, _ := v.(*models.User)
	return user
}

// CurrentUserID returns the caller's id, or 0 when unauthenticated
func CurrentUserID(c *gin.Context) int64 {
	return c.GetInt64(UserIDKey)
}
