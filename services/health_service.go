package services

import (
	"context"
	"time"

	"github.com/feedbackx/feedbackx-backend/logger"
	"github.com/feedbackx/feedbackx-backend/types"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const healthCheckTimeout = 2 * time.Second

// Pinger is satisfied by *pgxpool.Pool and pgxmock pools.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthService struct {
	db          Pinger
	redisClient *redis.Client
	version     string
	startTime   time.Time
	log         *zap.SugaredLogger
}

func NewHealthService(db Pinger, redisClient *redis.Client, version string) *HealthService {
	return &HealthService{
		db:          db,
		redisClient: redisClient,
		version:     version,
		startTime:   time.Now(),
		log:         logger.GetLogger(),
	}
}

// CheckHealth pings the database and Redis. The database is required; a
// Redis outage only degrades the service since rate limiting fails open and
// events are best effort.
func (h *HealthService) CheckHealth(ctx context.Context) types.HealthReport {
	components := map[string]types.ComponentHealth{
		types.ComponentDatabase: h.checkDatabase(ctx),
		types.ComponentRedis:    h.checkRedis(ctx),
	}
	return types.NewHealthReport(components, h.version, time.Now(), time.Since(h.startTime))
}

func (h *HealthService) checkDatabase(ctx context.Context) types.ComponentHealth {
	ctx, cancel := context.WithTimeout(ctx, healthCheckTimeout)
	defer cancel()

	start := time.Now()
	err := h.db.Ping(ctx)
	component := types.ComponentHealth{
		Status:    types.HealthStatusUp,
		Required:  true,
		LatencyMS: time.Since(start).Milliseconds(),
	}
	if err != nil {
		h.log.Errorw("Database health check failed", "error", err)
		component.Status = types.HealthStatusDown
		component.Details = "Database connection failed"
	}
	return component
}

func (h *HealthService) checkRedis(ctx context.Context) types.ComponentHealth {
	if h.redisClient == nil {
		return types.ComponentHealth{Status: types.HealthStatusDown, Details: "Redis not configured"}
	}

	ctx, cancel := context.WithTimeout(ctx, healthCheckTimeout)
	defer cancel()

	start := time.Now()
	err := h.redisClient.Ping(ctx).Err()
	component := types.ComponentHealth{
		Status:    types.HealthStatusUp,
		LatencyMS: time.Since(start).Milliseconds(),
	}
	if err != nil {
		h.log.Errorw("Redis health check failed", "error", err)
		component.Status = types.HealthStatusDown
		component.Details = "Redis connection failed"
	}
	return component
}
