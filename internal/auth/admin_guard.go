// Package auth holds the credential checks of the API: the admin guard that
// protects management endpoints with a shared secret, and collection API keys.
package auth

import (
	"crypto/subtle"
	"regexp"
	"strings"
)

// FailureReason says why an admin request was rejected. Callers see the same
// 401 for every reason; the reason is for logs.
type FailureReason string

const (
	ReasonNotConfigured   FailureReason = "admin_auth_not_configured"
	ReasonMissingHeader   FailureReason = "missing_authorization_header"
	ReasonMalformedHeader FailureReason = "malformed_authorization_header"
	ReasonInvalidSecret   FailureReason = "invalid_admin_secret"
)

// Failure is returned by AdminGuard.Authorize.
type Failure struct {
	Reason FailureReason
}

func (f *Failure) Error() string {
	switch f.Reason {
	case ReasonNotConfigured:
		return "admin authentication is not configured"
	case ReasonMissingHeader:
		return "missing authorization header"
	case ReasonMalformedHeader:
		return "invalid authorization header format"
	default:
		return "invalid admin secret"
	}
}

var bearerPattern = regexp.MustCompile(`(?i)^\s*bearer\s+(.+)$`)

func parseBearer(header string) (string, bool) {
	m := bearerPattern.FindStringSubmatch(header)
	if m == nil {
		return "", false
	}
	token := strings.TrimSpace(m[1])
	if token == "" {
		return "", false
	}
	return token, true
}

// AdminGuard checks "Authorization: Bearer <secret>" headers against a
// shared admin secret. A guard with an empty secret rejects everything.
type AdminGuard struct {
	secret []byte
}

func NewAdminGuard(secret string) *AdminGuard {
	return &AdminGuard{secret: []byte(secret)}
}

// Configured reports whether a secret was provided.
func (g *AdminGuard) Configured() bool {
	return len(g.secret) > 0
}

// Authorize returns nil when header carries the admin secret, or a *Failure.
func (g *AdminGuard) Authorize(header string) error {
	if !g.Configured() {
		return &Failure{Reason: ReasonNotConfigured}
	}
	if header == "" {
		return &Failure{Reason: ReasonMissingHeader}
	}
	token, ok := parseBearer(header)
	if !ok {
		return &Failure{Reason: ReasonMalformedHeader}
	}
	if !secretsEqual([]byte(token), g.secret) {
		return &Failure{Reason: ReasonInvalidSecret}
	}
	return nil
}

// secretsEqual compares in time independent of where the inputs differ.
// Length is not treated as secret.
func secretsEqual(given, want []byte) bool {
	if len(given) != len(want) {
		return false
	}
	return subtle.ConstantTimeCompare(given, want) == 1
}
