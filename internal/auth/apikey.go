package auth

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"regexp"
	"strings"
)

const (
	// APIKeyPrefix marks collection API keys.
	APIKeyPrefix = "fx_"
	// apiKeyBytes is the entropy of a key before hex encoding.
	apiKeyBytes = 32
	// APIKeyLength is the full length of a key: prefix plus 64 hex characters.
	APIKeyLength = len(APIKeyPrefix) + 2*apiKeyBytes
)

var apiKeyPattern = regexp.MustCompile(`^fx_[a-f0-9]{64}$`)

// GenerateAPIKey returns a new collection API key: "fx_" followed by 32
// random bytes in lowercase hex.
func GenerateAPIKey() (string, error) {
	b := make([]byte, apiKeyBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate api key: %w", err)
	}
	return APIKeyPrefix + hex.EncodeToString(b), nil
}

// IsAPIKey reports whether s has the shape of a collection API key.
func IsAPIKey(s string) bool {
	return apiKeyPattern.MatchString(s)
}

// ExtractAPIKey reads a collection API key from the X-API-Key header or,
// failing that, from an "Authorization: Bearer fx_..." header.
func ExtractAPIKey(apiKeyHeader, authorizationHeader string) string {
	if key := strings.TrimSpace(apiKeyHeader); key != "" {
		return key
	}
	if token, ok := parseBearer(authorizationHeader); ok && strings.HasPrefix(token, APIKeyPrefix) {
		return token
	}
	return ""
}
