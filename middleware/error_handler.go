package middleware

import (
	"fmt"
	"io"
	"net/http"
	"runtime/debug"

	apperrors "github.com/feedbackx/feedbackx-backend/errors"
	"github.com/feedbackx/feedbackx-backend/internal/metrics"
	"github.com/feedbackx/feedbackx-backend/logger"
	"github.com/gin-gonic/gin"
)

// ErrorHandler renders the last error pushed with c.Error as
// {"error", "statusCode", "issues"?}. Unrecognized errors become a generic
// 500 and are logged with the request context; nothing about them reaches the
// caller.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last().Err
		resp, internal := apperrors.Normalize(err)

		if internal {
			metrics.Default().UnexpectedErrors.Inc()
			logger.LogHTTPError(c, err, resp.StatusCode, "Unexpected server error")
		} else {
			fields := append(logger.RequestFields(c), "status_code", resp.StatusCode, "error", err)
			logger.GetLogger().Debugw("Request failed", fields...)
		}

		if c.Writer.Written() {
			return
		}
		c.AbortWithStatusJSON(resp.StatusCode, resp)
	}
}

// Recovery turns a panic into a 500 rendered by ErrorHandler. ErrorHandler
// must be registered before it.
func Recovery() gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(io.Discard, func(c *gin.Context, recovered any) {
		fields := append(logger.RequestFields(c), "panic", recovered, "stack_trace", string(debug.Stack()))
		logger.GetLogger().Errorw("Panic recovered", fields...)

		_ = c.Error(fmt.Errorf("panic: %v", recovered))
		c.Abort()
	})
}

// NoRoute answers unknown paths in the normalized error shape.
func NoRoute(c *gin.Context) {
	_ = c.Error(&apperrors.AppError{Type: apperrors.NotFoundError, HTTPStatus: http.StatusNotFound})
}

// NoMethod answers known paths hit with an unsupported method.
func NoMethod(c *gin.Context) {
	_ = c.Error(&apperrors.AppError{Type: apperrors.BadRequestError, HTTPStatus: http.StatusMethodNotAllowed})
}
