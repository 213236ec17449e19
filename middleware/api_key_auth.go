package middleware

import (
	"context"
	"errors"
	"net/http"

	apperrors "github.com/feedbackx/feedbackx-backend/errors"
	"github.com/feedbackx/feedbackx-backend/internal/auth"
	"github.com/feedbackx/feedbackx-backend/logger"
	"github.com/feedbackx/feedbackx-backend/types"
	"github.com/gin-gonic/gin"
)

// APIKeyResolver finds the collection owning an API key.
type APIKeyResolver interface {
	ResolveAPIKey(ctx context.Context, apiKey string) (*types.FeedbackCollection, error)
}

// APIKeyAuth authenticates item submissions with a collection API key taken
// from X-API-Key or "Authorization: Bearer fx_...", and stores the collection
// in the context.
func APIKeyAuth(resolver APIKeyResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		apiKey := auth.ExtractAPIKey(c.GetHeader("X-API-Key"), c.GetHeader("Authorization"))

		collection, err := resolver.ResolveAPIKey(c.Request.Context(), apiKey)
		if err != nil {
			// Lookup failures are logged once, by ErrorHandler.
			var appErr *apperrors.AppError
			if errors.As(err, &appErr) && appErr.Type == apperrors.AuthError {
				logger.LogHTTPError(c, err, http.StatusUnauthorized, "API key authentication failed")
			}
			_ = c.Error(err)
			c.Abort()
			return
		}

		c.Set(string(CollectionKey), collection)
		c.Next()
	}
}

// CollectionFromContext returns the collection stored by APIKeyAuth.
func CollectionFromContext(c *gin.Context) (*types.FeedbackCollection, bool) {
	v, ok := c.Get(string(CollectionKey))
	if !ok {
		return nil, false
	}
	collection, ok := v.(*types.FeedbackCollection)
	return collection, ok
}
