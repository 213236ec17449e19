package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// ClientIP resolves a best-effort client address for audit logs: gin's
// resolved IP, then the first X-Forwarded-For entry, then X-Real-IP, then
// "unknown". Never use it for access decisions.
func ClientIP(c *gin.Context) string {
	if ip := c.ClientIP(); ip != "" {
		return ip
	}
	if forwarded := c.GetHeader("X-Forwarded-For"); forwarded != "" {
		if first := strings.TrimSpace(strings.Split(forwarded, ",")[0]); first != "" {
			return first
		}
	}
	if realIP := strings.TrimSpace(c.GetHeader("X-Real-IP")); realIP != "" {
		return realIP
	}
	return "unknown"
}
