package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/feedbackx/feedbackx-backend/types"
	"github.com/go-redis/redismock/v9"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewHealthService(t *testing.T) {
	mockDB, err := pgxmock.NewPool(pgxmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer mockDB.Close()

	service := NewHealthService(mockDB, nil, "1.0.0")

	assert.Equal(t, "1.0.0", service.version)
	assert.NotNil(t, service.log)
	assert.True(t, time.Since(service.startTime) < time.Second)
}

func TestHealthService_CheckHealth(t *testing.T) {
	tests := []struct {
		name           string
		setupMocks     func(pgxmock.PgxPoolIface, redismock.ClientMock)
		expectedStatus types.HealthStatus
		expectedComps  map[string]types.HealthStatus
	}{
		{
			name: "All services healthy",
			setupMocks: func(dbMock pgxmock.PgxPoolIface, redisMock redismock.ClientMock) {
				dbMock.ExpectPing()
				redisMock.ExpectPing().SetVal("PONG")
			},
			expectedStatus: types.HealthStatusUp,
			expectedComps: map[string]types.HealthStatus{
				"database": types.HealthStatusUp,
				"redis":    types.HealthStatusUp,
			},
		},
		{
			name: "Database down, Redis up",
			setupMocks: func(dbMock pgxmock.PgxPoolIface, redisMock redismock.ClientMock) {
				dbMock.ExpectPing().WillReturnError(errors.New("connection refused"))
				redisMock.ExpectPing().SetVal("PONG")
			},
			expectedStatus: types.HealthStatusDown,
			expectedComps: map[string]types.HealthStatus{
				"database": types.HealthStatusDown,
				"redis":    types.HealthStatusUp,
			},
		},
		{
			name: "Database up, Redis down",
			setupMocks: func(dbMock pgxmock.PgxPoolIface, redisMock redismock.ClientMock) {
				dbMock.ExpectPing()
				redisMock.ExpectPing().SetErr(errors.New("redis connection refused"))
			},
			expectedStatus: types.HealthStatusDegraded,
			expectedComps: map[string]types.HealthStatus{
				"database": types.HealthStatusUp,
				"redis":    types.HealthStatusDown,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockDB, err := pgxmock.NewPool(pgxmock.MonitorPingsOption(true))
			require.NoError(t, err)
			defer mockDB.Close()

			redisClient, redisMock := redismock.NewClientMock()
			tt.setupMocks(mockDB, redisMock)

			service := NewHealthService(mockDB, redisClient, "1.2.3")
			health := service.CheckHealth(context.Background())

			assert.Equal(t, tt.expectedStatus, health.Status)
			assert.Equal(t, "1.2.3", health.Version)
			assert.False(t, health.CheckedAt.IsZero())
			for comp, status := range tt.expectedComps {
				assert.Equal(t, status, health.Components[comp].Status, comp)
			}
			assert.True(t, health.Components[types.ComponentDatabase].Required)
			assert.False(t, health.Components[types.ComponentRedis].Required)

			assert.NoError(t, mockDB.ExpectationsWereMet())
			assert.NoError(t, redisMock.ExpectationsWereMet())
		})
	}
}

func TestHealthService_RedisNotConfigured(t *testing.T) {
	mockDB, err := pgxmock.NewPool(pgxmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer mockDB.Close()
	mockDB.ExpectPing()

	health := NewHealthService(mockDB, nil, "1.2.3").CheckHealth(context.Background())

	assert.Equal(t, types.HealthStatusDegraded, health.Status)
	assert.True(t, health.Ready())
	assert.Equal(t, "Redis not configured", health.Components[types.ComponentRedis].Details)
	assert.NoError(t, mockDB.ExpectationsWereMet())
}
