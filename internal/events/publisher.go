package events

import (
	"context"
	"fmt"
	"time"

	"github.com/feedbackx/feedbackx-backend/internal/metrics"
	"github.com/feedbackx/feedbackx-backend/logger"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Publisher delivers events to subscribers.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// NoopPublisher drops every event.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, Event) error { return nil }

const defaultPublishTimeout = 2 * time.Second

// RedisPublisher publishes events on Redis pub/sub, one channel per collection.
type RedisPublisher struct {
	rdb     redis.Cmdable
	log     *zap.SugaredLogger
	metrics *metrics.Metrics
	timeout time.Duration
}

func NewRedisPublisher(rdb redis.Cmdable, m *metrics.Metrics) *RedisPublisher {
	return &RedisPublisher{
		rdb:     rdb,
		log:     logger.GetLogger().Named("events"),
		metrics: m,
		timeout: defaultPublishTimeout,
	}
}

func (p *RedisPublisher) Publish(ctx context.Context, event Event) error {
	if err := event.Validate(); err != nil {
		p.metrics.EventsPublished.WithLabelValues(string(event.Type), "invalid").Inc()
		return fmt.Errorf("invalid event: %w", err)
	}

	data, err := event.MarshalBinary()
	if err != nil {
		p.metrics.EventsPublished.WithLabelValues(string(event.Type), "error").Inc()
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	receivers, err := p.rdb.Publish(ctx, Channel(event.CollectionID), data).Result()
	if err != nil {
		p.metrics.EventsPublished.WithLabelValues(string(event.Type), "error").Inc()
		return fmt.Errorf("failed to publish event: %w", err)
	}

	p.metrics.EventsPublished.WithLabelValues(string(event.Type), "published").Inc()
	p.log.Debugw("Event published",
		"event_id", event.ID,
		"type", event.Type,
		"collection_id", event.CollectionID,
		"receivers", receivers)
	return nil
}

// Emit builds and publishes an event without failing the caller. Delivery is
// best effort: errors are logged and dropped.
func Emit(ctx context.Context, p Publisher, eventType EventType, collectionID string, payload any) {
	event, err := NewEvent(eventType, collectionID, payload)
	if err == nil {
		err = p.Publish(ctx, event)
	}
	if err != nil {
		logger.GetLogger().Warnw("Failed to emit event",
			"type", eventType,
			"collection_id", collectionID,
			"error", err)
	}
}
