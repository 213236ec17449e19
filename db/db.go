// Package db opens the PostgreSQL pool and applies schema migrations.
package db

import (
	"context"
	"crypto/tls"
	"fmt"
	"math"
	"time"

	"github.com/feedbackx/feedbackx-backend/config"
	"github.com/feedbackx/feedbackx-backend/logger"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PoolConfig builds a pgxpool configuration from cfg. TLS is enforced in
// production and whenever sslmode is "require".
func PoolConfig(cfg *config.DatabaseConfig, env config.Environment) (*pgxpool.Config, error) {
	log := logger.GetLogger()
	connStr := cfg.URL()

	log.Infow("Connecting to database",
		"host", cfg.Host,
		"port", cfg.Port,
		"database", cfg.Name,
		"sslmode", cfg.SSLMode,
		"connection_string", logger.MaskConnectionString(connStr))

	poolConfig, err := pgxpool.ParseConfig(connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}

	if env == config.EnvProduction || cfg.SSLMode == "require" {
		poolConfig.ConnConfig.TLSConfig = &tls.Config{
			ServerName: cfg.Host,
			MinVersion: tls.VersionTLS12,
		}
	}

	poolConfig.MaxConns = int32(math.Min(float64(cfg.MaxConnections), float64(math.MaxInt32)))
	poolConfig.MinConns = int32(math.Min(float64(cfg.MinConnections), float64(math.MaxInt32)))
	poolConfig.MaxConnLifetime = cfg.ConnMaxLifetime()
	poolConfig.HealthCheckPeriod = 30 * time.Second
	poolConfig.ConnConfig.ConnectTimeout = 5 * time.Second

	return poolConfig, nil
}

// Connect opens the pool and verifies it with a ping.
func Connect(ctx context.Context, cfg *config.DatabaseConfig, env config.Environment) (*pgxpool.Pool, error) {
	poolConfig, err := PoolConfig(cfg, env)
	if err != nil {
		return nil, err
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create database pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.GetLogger().Infow("Configured database connection pool",
		"max_conns", poolConfig.MaxConns,
		"min_conns", poolConfig.MinConns,
		"max_conn_lifetime", poolConfig.MaxConnLifetime.String())

	return pool, nil
}
