package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewHealthReport(t *testing.T) {
	up := ComponentHealth{Status: HealthStatusUp, Required: true}
	downRequired := ComponentHealth{Status: HealthStatusDown, Required: true}
	downOptional := ComponentHealth{Status: HealthStatusDown}

	tests := []struct {
		name       string
		components map[string]ComponentHealth
		want       HealthStatus
	}{
		{"all up", map[string]ComponentHealth{ComponentDatabase: up, ComponentRedis: {Status: HealthStatusUp}}, HealthStatusUp},
		{"optional down", map[string]ComponentHealth{ComponentDatabase: up, ComponentRedis: downOptional}, HealthStatusDegraded},
		{"required down", map[string]ComponentHealth{ComponentDatabase: downRequired, ComponentRedis: {Status: HealthStatusUp}}, HealthStatusDown},
		{"both down", map[string]ComponentHealth{ComponentDatabase: downRequired, ComponentRedis: downOptional}, HealthStatusDown},
		{"no components", nil, HealthStatusUp},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report := NewHealthReport(tt.components, "1.0.0", time.Now(), 90*time.Second+400*time.Millisecond)
			assert.Equal(t, tt.want, report.Status)
			assert.Equal(t, tt.want != HealthStatusDown, report.Ready())
			assert.Equal(t, int64(90), report.UptimeSeconds)
		})
	}
}
