package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/feedbackx/feedbackx-backend/internal/auth"
	"github.com/feedbackx/feedbackx-backend/internal/metrics"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testAdminSecret = "s3cr3t-admin-token"

func setupAdminRouter(secret string) (*gin.Engine, *metrics.Metrics) {
	m := metrics.New(prometheus.NewRegistry())
	r := gin.New()
	r.Use(ErrorHandler())
	r.GET("/admin", AdminAuth(auth.NewAdminGuard(secret), m), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return r, m
}

func TestAdminAuth(t *testing.T) {
	tests := []struct {
		name           string
		secret         string
		header         string
		expectedStatus int
		expectedReason string
	}{
		{"correct secret", testAdminSecret, "Bearer " + testAdminSecret, http.StatusOK, "authorized"},
		{"scheme is case-insensitive", testAdminSecret, "bearer " + testAdminSecret, http.StatusOK, "authorized"},
		{"surrounding whitespace", testAdminSecret, "  Bearer   " + testAdminSecret + "  ", http.StatusOK, "authorized"},
		{"wrong secret", testAdminSecret, "Bearer s3cr3t-admin-tokeX", http.StatusUnauthorized, string(auth.ReasonInvalidSecret)},
		{"wrong length", testAdminSecret, "Bearer short", http.StatusUnauthorized, string(auth.ReasonInvalidSecret)},
		{"missing header", testAdminSecret, "", http.StatusUnauthorized, string(auth.ReasonMissingHeader)},
		{"basic scheme", testAdminSecret, "Basic " + testAdminSecret, http.StatusUnauthorized, string(auth.ReasonMalformedHeader)},
		{"bare token", testAdminSecret, testAdminSecret, http.StatusUnauthorized, string(auth.ReasonMalformedHeader)},
		{"secret not configured", "", "Bearer anything", http.StatusUnauthorized, string(auth.ReasonNotConfigured)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, m := setupAdminRouter(tt.secret)

			req := httptest.NewRequest(http.MethodGet, "/admin", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Equal(t, float64(1), testutil.ToFloat64(m.AdminAuthOutcomes.WithLabelValues(tt.expectedReason)))

			if tt.expectedStatus == http.StatusUnauthorized {
				var body map[string]interface{}
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
				assert.Equal(t, map[string]interface{}{"error": "Unauthorized", "statusCode": float64(401)}, body)
			}
		})
	}
}
