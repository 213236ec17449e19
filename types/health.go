package types

import "time"

type HealthStatus string

const (
	HealthStatusUp       HealthStatus = "UP"
	HealthStatusDown     HealthStatus = "DOWN"
	HealthStatusDegraded HealthStatus = "DEGRADED"
)

// Dependencies reported by the health endpoints.
const (
	ComponentDatabase = "database"
	ComponentRedis    = "redis"
)

// ComponentHealth is the state of one dependency. A required dependency that
// is not up takes the whole service down; any other only degrades it.
type ComponentHealth struct {
	Status    HealthStatus `json:"status"`
	Required  bool         `json:"required"`
	LatencyMS int64        `json:"latencyMs"`
	Details   string       `json:"details,omitempty"`
}

// HealthReport is the body of the /health endpoints.
type HealthReport struct {
	Status        HealthStatus               `json:"status"`
	Components    map[string]ComponentHealth `json:"components"`
	Version       string                     `json:"version"`
	CheckedAt     time.Time                  `json:"checkedAt"`
	UptimeSeconds int64                      `json:"uptimeSeconds"`
}

// NewHealthReport derives the overall status from components.
func NewHealthReport(components map[string]ComponentHealth, version string, checkedAt time.Time, uptime time.Duration) HealthReport {
	status := HealthStatusUp
	for _, c := range components {
		if c.Status == HealthStatusUp {
			continue
		}
		if c.Required {
			status = HealthStatusDown
			break
		}
		status = HealthStatusDegraded
	}
	return HealthReport{
		Status:        status,
		Components:    components,
		Version:       version,
		CheckedAt:     checkedAt.UTC(),
		UptimeSeconds: int64(uptime / time.Second),
	}
}

// Ready reports whether the service can take traffic.
func (r HealthReport) Ready() bool {
	return r.Status != HealthStatusDown
}
