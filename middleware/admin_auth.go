package middleware

import (
	"errors"

	apperrors "github.com/feedbackx/feedbackx-backend/errors"
	"github.com/feedbackx/feedbackx-backend/internal/auth"
	"github.com/feedbackx/feedbackx-backend/internal/metrics"
	"github.com/feedbackx/feedbackx-backend/logger"
	"github.com/gin-gonic/gin"
)

// AdminAuth admits requests carrying "Authorization: Bearer <admin secret>".
// Every rejection is a 401 for the caller; the log line names the reason.
func AdminAuth(guard *auth.AdminGuard, m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		log := logger.GetLogger()

		err := guard.Authorize(c.GetHeader("Authorization"))
		if err == nil {
			m.AdminAuthOutcomes.WithLabelValues("authorized").Inc()
			log.Debugw("Admin request authorized",
				"path", c.Request.URL.Path,
				"client_ip", ClientIP(c))
			c.Next()
			return
		}

		reason := auth.ReasonInvalidSecret
		var failure *auth.Failure
		if errors.As(err, &failure) {
			reason = failure.Reason
		}
		m.AdminAuthOutcomes.WithLabelValues(string(reason)).Inc()

		fields := []interface{}{
			"reason", reason,
			"path", c.Request.URL.Path,
			"method", c.Request.Method,
			"client_ip", ClientIP(c),
		}
		if reason == auth.ReasonNotConfigured {
			log.Warnw("Admin endpoint called but ADMIN_SECRET is not configured", fields...)
		} else {
			log.Warnw("Admin authentication failed: "+err.Error(), fields...)
		}

		_ = c.Error(apperrors.Unauthorized(string(reason), "Unauthorized"))
		c.Abort()
	}
}
