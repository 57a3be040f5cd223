package middleware

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/gin-gonic/gin"
	"github.com/yigit/learnhub/internal/app/models"
	"github.com/yigit/learnhub/internal/pkg/apperrors"
	"github.com/yigit/learnhub/internal/pkg/auth"
	"github.com/yigit/learnhub/internal/pkg/session"
)

var errLoginRequired = apperrors.NewUnauthorizedError("Please login to access this resource")

// SessionReader loads the cached session of a user
type SessionReader interface {
	Get(ctx context.Context, userID int64) (*models.User, error)
}

// AuthMiddleware for authentication and authorization
type AuthMiddleware struct {
	jwtService *auth.JWTService
	sessions   SessionReader
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(jwtService *auth.JWTService, sessions SessionReader) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtService,
		sessions:   sessions,
	}
}

// AccessToken reads the access token from its cookie, then from the Authorization header
func AccessToken(c *gin.Context) string {
	if token, err := c.Cookie(AccessTokenCookie); err == nil && token != "" {
		return token
	}
	if token, err := auth.ExtractBearerToken(c.GetHeader("Authorization")); err == nil {
		return token
	}
	return ""
}

// IsAuthenticated validates the access token and loads the session user into the context
func (m *AuthMiddleware) IsAuthenticated() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := AccessToken(c)
		if token == "" {
			HandleAPIError(c, errLoginRequired)
			return
		}

		claims, err := m.jwtService.ValidateAccessToken(token)
		if err != nil {
			HandleAPIError(c, err)
			return
		}

		user, err := m.sessions.Get(c.Request.Context(), claims.UserID)
		if err != nil {
			if errors.Is(err, session.ErrSessionNotFound) {
				err = errLoginRequired
			}
			HandleAPIError(c, err)
			return
		}

		SetCurrentUser(c, user)
		c.Next()
	}
}

// AuthorizeRoles only lets users with one of roles through. It must run after IsAuthenticated.
func (m *AuthMiddleware) AuthorizeRoles(roles ...models.RoleType) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := GetCurrentUser(c)
		if !ok {
			HandleAPIError(c, errLoginRequired)
			return
		}
		if !slices.Contains(roles, user.Role) {
			HandleAPIError(c, apperrors.NewForbiddenError(
				fmt.Sprintf("Role: %s is not allowed to access this resource", user.Role)))
			return
		}
		c.Next()
	}
}
