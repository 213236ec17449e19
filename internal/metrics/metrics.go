// Package metrics exposes the service's Prometheus collectors.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics groups the counters recorded by services and middleware.
type Metrics struct {
	CollectionsCreated  prometheus.Counter
	CollectionConflicts *prometheus.CounterVec
	ItemsSubmitted      *prometheus.CounterVec
	ItemsRejected       *prometheus.CounterVec
	AdminAuthOutcomes   *prometheus.CounterVec
	RateLimitedRequests prometheus.Counter
	UnexpectedErrors    prometheus.Counter
	EventsPublished     *prometheus.CounterVec
}

var (
	defaultOnce sync.Once
	defaultSet  *Metrics
)

// New registers a fresh set of collectors with reg. Tests pass their own
// registry; production code uses Default.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		CollectionsCreated: f.NewCounter(prometheus.CounterOpts{
			Name: "feedback_collections_created_total",
			Help: "Feedback collections created",
		}),
		CollectionConflicts: f.NewCounterVec(prometheus.CounterOpts{
			Name: "feedback_collection_conflicts_total",
			Help: "Create or update attempts rejected because a name or key was taken",
		}, []string{"field"}),
		ItemsSubmitted: f.NewCounterVec(prometheus.CounterOpts{
			Name: "feedback_items_submitted_total",
			Help: "Feedback items stored, by scale type",
		}, []string{"scale"}),
		ItemsRejected: f.NewCounterVec(prometheus.CounterOpts{
			Name: "feedback_items_rejected_total",
			Help: "Feedback items rejected, by reason",
		}, []string{"reason"}),
		AdminAuthOutcomes: f.NewCounterVec(prometheus.CounterOpts{
			Name: "admin_auth_attempts_total",
			Help: "Admin guard decisions, by outcome",
		}, []string{"outcome"}),
		RateLimitedRequests: f.NewCounter(prometheus.CounterOpts{
			Name: "rate_limited_requests_total",
			Help: "Requests rejected by the rate limiter",
		}),
		UnexpectedErrors: f.NewCounter(prometheus.CounterOpts{
			Name: "http_unexpected_errors_total",
			Help: "Requests answered with a generic 500",
		}),
		EventsPublished: f.NewCounterVec(prometheus.CounterOpts{
			Name: "feedback_events_total",
			Help: "Domain events handed to the publisher, by type and outcome",
		}, []string{"type", "outcome"}),
	}
}

// Default returns the process-wide metrics registered with the default
// Prometheus registerer, creating them on first use.
func Default() *Metrics {
	defaultOnce.Do(func() {
		defaultSet = New(prometheus.DefaultRegisterer)
	})
	return defaultSet
}
