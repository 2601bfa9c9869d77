package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/phoexer/openproject/common/logger"
	"github.com/phoexer/openproject/internal/model"
	"github.com/phoexer/openproject/internal/service"
)

type contextKey string

const (
	userContextKey contextKey = "user"

	apiKeyQueryParam = "key"
	apiKeyHeader     = "X-API-Key"
)

// RequireAPIKey resolves the acting user from the ?key= query parameter or
// the X-API-Key header. Webhook URLs carry the key in the query string.
func RequireAPIKey(authService service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.Query(apiKeyQueryParam)
		if key == "" {
			key = c.GetHeader(apiKeyHeader)
		}

		user, err := authService.AuthenticateAPIKey(c.Request.Context(), key)
		if err != nil {
			if errors.Is(err, service.ErrInvalidAPIKey) || errors.Is(err, service.ErrUserLocked) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"status": "unauthorized"})
				return
			}
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"status": "error"})
			return
		}

		ctx := context.WithValue(c.Request.Context(), userContextKey, user)
		ctx = logger.WithLogFields(ctx, logger.LogFields{UserID: logger.Ptr(user.ID)})
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

func GetUser(ctx context.Context) *model.User {
	user, _ := ctx.Value(userContextKey).(*model.User)
	return user
}

// WithUser attaches user to ctx the way RequireAPIKey does.
func WithUser(ctx context.Context, user *model.User) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}
