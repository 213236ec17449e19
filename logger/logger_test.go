package logger

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMaskSensitiveString(t *testing.T) {
	assert.Equal(t, "", MaskSensitiveString("", 2, 2))
	assert.Equal(t, "*****", MaskSensitiveString("short", 2, 2))
	assert.Equal(t, "ab...yz", MaskSensitiveString("abcdefghijklmnopqrstuvwxyz", 2, 2))
}

func TestMaskAPIKey(t *testing.T) {
	key := "fx_0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef"
	masked := MaskAPIKey(key)
	assert.Equal(t, "fx_012...cdef", masked)
	assert.NotContains(t, masked, "89abcdef0123")
}

func TestMaskConnectionString(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"postgres://app:s3cret@db:5432/feedback?sslmode=disable", "postgres://app:***@db:5432/feedback?sslmode=disable"},
		{"host=db user=app password=s3cret dbname=feedback", "host=db user=app password=*** dbname=feedback"},
		{"host=db password=s3cret", "host=db password=***"},
		{"postgres://app@db/feedback", "postgres://app@db/feedback"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, MaskConnectionString(tt.in))
	}
}

func TestRedactHeaders(t *testing.T) {
	h := http.Header{}
	h.Set("Authorization", "Bearer secret")
	h.Set("X-API-Key", "fx_abc")
	h.Set("User-Agent", "curl/8")

	out := redactHeaders(h)
	assert.Equal(t, "[REDACTED]", out["Authorization"])
	assert.Equal(t, "[REDACTED]", out["X-Api-Key"])
	assert.Equal(t, "curl/8", out["User-Agent"])
}
