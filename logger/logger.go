// Package logger owns the process-wide zap logger. Level comes from LOG_LEVEL,
// the encoder from ENVIRONMENT (production gets JSON, everything else the
// console encoder).
package logger

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	logger *zap.SugaredLogger
	once   sync.Once
)

// IsTest switches the logger to a stdout development config and disables
// Sync on Close. Set it from TestMain before anything logs.
var IsTest bool

func build() {
	level := zapcore.InfoLevel
	if raw := os.Getenv("LOG_LEVEL"); raw != "" {
		if err := level.UnmarshalText([]byte(raw)); err != nil {
			level = zapcore.InfoLevel
		}
	}

	var cfg zap.Config
	switch {
	case IsTest:
		cfg = zap.NewDevelopmentConfig()
		cfg.OutputPaths = []string{"stdout"}
	case os.Getenv("ENVIRONMENT") == "production":
		cfg = zap.NewProductionConfig()
		cfg.OutputPaths = []string{"stdout"}
		cfg.ErrorOutputPaths = []string{"stderr"}
	default:
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(level)

	zl, err := cfg.Build()
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	logger = zl.Sugar()
}

// InitLogger initializes the global logger. Safe to call more than once.
func InitLogger() {
	once.Do(build)
}

// GetLogger returns the shared logger, initializing it on first use.
func GetLogger() *zap.SugaredLogger {
	once.Do(build)
	return logger
}

// SetLogger replaces the shared logger and returns a function restoring the
// previous one. Tests use it with zaptest/observer.
func SetLogger(l *zap.SugaredLogger) (restore func()) {
	once.Do(build)
	previous := logger
	logger = l
	return func() { logger = previous }
}

// Close flushes buffered entries. Call it before the process exits.
func Close() error {
	if logger == nil || IsTest {
		return nil
	}
	if err := logger.Sync(); err != nil {
		fmt.Fprintf(os.Stderr, "Error syncing logger: %v\n", err)
		return err
	}
	return nil
}

// MaskSensitiveString keeps the first prefixLen and last suffixLen characters
// of s and elides the rest. Strings too short to mask safely become asterisks.
func MaskSensitiveString(s string, prefixLen, suffixLen int) string {
	if s == "" {
		return ""
	}
	if len(s) < prefixLen+suffixLen+3 {
		return strings.Repeat("*", len(s))
	}
	return s[:prefixLen] + "..." + s[len(s)-suffixLen:]
}

// MaskAPIKey shows the fx_ prefix and a short tail of a collection API key.
func MaskAPIKey(key string) string {
	return MaskSensitiveString(key, 6, 4)
}

// MaskConnectionString hides the password of a postgres URL or key/value DSN.
// Best effort only.
func MaskConnectionString(connStr string) string {
	masked := connStr

	if idx := strings.Index(masked, "://"); idx != -1 {
		rest := masked[idx+3:]
		if at := strings.Index(rest, "@"); at != -1 {
			userInfo := rest[:at]
			if colon := strings.Index(userInfo, ":"); colon != -1 {
				masked = masked[:idx+3] + userInfo[:colon] + ":***" + rest[at:]
			}
		}
	}

	const kv = "password="
	if i := strings.Index(masked, kv); i != -1 {
		start := i + len(kv)
		end := strings.Index(masked[start:], " ")
		if end == -1 {
			masked = masked[:start] + "***"
		} else {
			masked = masked[:start] + "***" + masked[start+end:]
		}
	}

	return masked
}
