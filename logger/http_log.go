package logger

import (
	"net/http"
	"os"
	"runtime"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

// RequestFields collects the request context attached to every HTTP error
// log line: path, method, params, client IP, request ID and a redacted copy of
// the headers.
func RequestFields(c *gin.Context) []interface{} {
	fields := []interface{}{
		"url", c.Request.URL.String(),
		"path", c.Request.URL.Path,
		"method", c.Request.Method,
		"client_ip", c.ClientIP(),
		"headers", redactHeaders(c.Request.Header),
	}

	if len(c.Params) > 0 {
		params := make(map[string]string, len(c.Params))
		for _, p := range c.Params {
			params[p.Key] = p.Value
		}
		fields = append(fields, "params", params)
	}

	if requestID := c.GetString("request_id"); requestID != "" {
		fields = append(fields, "request_id", requestID)
	}

	return fields
}

// LogHTTPError logs err with request context. 5xx responses are logged at
// error level with a stack trace outside production, everything else at warn.
func LogHTTPError(c *gin.Context, err error, statusCode int, message string) {
	log := GetLogger()

	fields := append(RequestFields(c), "status_code", statusCode, "error", err)

	if statusCode < http.StatusInternalServerError {
		log.Warnw(message, fields...)
		return
	}

	if os.Getenv("ENVIRONMENT") != "production" {
		fields = append(fields, "stack_trace", stackTrace(3))
	}
	log.Errorw(message, fields...)
}

func stackTrace(skip int) string {
	const depth = 32
	var pcs [depth]uintptr
	n := runtime.Callers(skip, pcs[:])
	frames := runtime.CallersFrames(pcs[:n])

	var b strings.Builder
	for {
		frame, more := frames.Next()
		if !strings.HasPrefix(frame.Function, "runtime.") {
			b.WriteString(frame.Function)
			b.WriteString("\n\t")
			b.WriteString(frame.File)
			b.WriteString(":")
			b.WriteString(strconv.Itoa(frame.Line))
			b.WriteString("\n")
		}
		if !more {
			break
		}
	}
	return b.String()
}

// redactHeaders drops credentials before headers reach the log.
func redactHeaders(headers http.Header) map[string]string {
	out := make(map[string]string, len(headers))
	for name, values := range headers {
		lower := strings.ToLower(name)
		if lower == "authorization" || lower == "cookie" ||
			strings.Contains(lower, "token") ||
			strings.Contains(lower, "key") ||
			strings.Contains(lower, "secret") {
			out[name] = "[REDACTED]"
			continue
		}
		if len(values) > 0 {
			out[name] = values[0]
		}
	}
	return out
}
