package router

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/feedbackx/feedbackx-backend/config"
	"github.com/feedbackx/feedbackx-backend/handlers"
	"github.com/feedbackx/feedbackx-backend/internal/auth"
	"github.com/feedbackx/feedbackx-backend/internal/events"
	"github.com/feedbackx/feedbackx-backend/internal/metrics"
	"github.com/feedbackx/feedbackx-backend/internal/store"
	"github.com/feedbackx/feedbackx-backend/logger"
	"github.com/feedbackx/feedbackx-backend/services"
	"github.com/feedbackx/feedbackx-backend/types"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const adminSecret = "router-test-admin-secret"

func TestMain(m *testing.M) {
	logger.IsTest = true
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

// routerStore is what the services need from storage.
type routerStore interface {
	store.CollectionStore
	store.FeedbackItemStore
}

func setupTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	return setupRouterWithStore(t, &memStore{})
}

func setupRouterWithStore(t *testing.T, st routerStore) *gin.Engine {
	t.Helper()
	m := metrics.New(prometheus.NewRegistry())
	collectionService := services.NewCollectionService(st, events.NoopPublisher{}, m)
	itemService := services.NewItemService(st, collectionService, events.NoopPublisher{}, m)

	cfg := &config.Config{
		Server: config.ServerConfig{
			Environment:    config.EnvDevelopment,
			AllowedOrigins: []string{"*"},
		},
		RateLimit: config.RateLimitConfig{ItemsPerWindow: 10, WindowSeconds: 60},
	}

	return SetupRouter(Dependencies{
		Config:            cfg,
		AdminGuard:        auth.NewAdminGuard(adminSecret),
		APIKeyResolver:    collectionService,
		Metrics:           m,
		CollectionHandler: handlers.NewCollectionHandler(collectionService),
		ItemHandler:       handlers.NewItemHandler(itemService),
		HealthHandler:     handlers.NewHealthHandler(staticHealth{}),
	})
}

type staticHealth struct{}

func (staticHealth) CheckHealth(context.Context) types.HealthReport {
	return types.HealthReport{Status: types.HealthStatusUp}
}

type request struct {
	method  string
	path    string
	body    string
	headers map[string]string
}

func do(r http.Handler, req request) (*httptest.ResponseRecorder, map[string]interface{}) {
	httpReq := httptest.NewRequest(req.method, req.path, bytes.NewBufferString(req.body))
	httpReq.Header.Set("Content-Type", "application/json")
	for k, v := range req.headers {
		httpReq.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httpReq)

	var body map[string]interface{}
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	return w, body
}

func admin() map[string]string {
	return map[string]string{"Authorization": "Bearer " + adminSecret}
}

const createBody = `{"name":"Checkout","key":"checkout","scale":{"type":"numeric","min":1,"max":5}}`

func TestCreateCollection_DuplicateIsRejected(t *testing.T) {
	r := setupTestRouter(t)

	w, body := do(r, request{method: http.MethodPost, path: "/feedbacks", body: createBody})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Regexp(t, `^fx_[a-f0-9]{64}$`, body["apiKey"])
	assert.Equal(t, "Checkout", body["name"])

	w, _ = do(r, request{method: http.MethodPost, path: "/feedbacks", body: createBody})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{
		"error": "Bad Request",
		"statusCode": 400,
		"issues": {
			"name": ["A feedback collection with this name already exists"],
			"key": ["A feedback collection with this key already exists"]
		}
	}`, w.Body.String())
}

func TestCreateCollection_CollidesWithTwoCollections(t *testing.T) {
	r := setupTestRouter(t)

	w, _ := do(r, request{method: http.MethodPost, path: "/feedbacks",
		body: `{"name":"First","key":"first","scale":{"type":"enum","values":["a"]}}`})
	require.Equal(t, http.StatusCreated, w.Code)
	w, _ = do(r, request{method: http.MethodPost, path: "/feedbacks",
		body: `{"name":"Second","key":"second","scale":{"type":"enum","values":["a"]}}`})
	require.Equal(t, http.StatusCreated, w.Code)

	w, body := do(r, request{method: http.MethodPost, path: "/feedbacks",
		body: `{"name":"First","key":"second","scale":{"type":"enum","values":["a"]}}`})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	issues := body["issues"].(map[string]interface{})
	assert.Contains(t, issues, "name")
	assert.Contains(t, issues, "key")
}

func TestAdminRoutesRequireSecret(t *testing.T) {
	r := setupTestRouter(t)

	for _, headers := range []map[string]string{
		nil,
		{"Authorization": "Bearer wrong"},
		{"Authorization": "Basic " + adminSecret},
	} {
		w, _ := do(r, request{method: http.MethodGet, path: "/feedbacks", headers: headers})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.JSONEq(t, `{"error":"Unauthorized","statusCode":401}`, w.Body.String())
	}

	w, body := do(r, request{method: http.MethodGet, path: "/feedbacks", headers: admin()})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(0), body["pagination"].(map[string]interface{})["total"])
}

func TestFeedbackLifecycle(t *testing.T) {
	r := setupTestRouter(t)

	w, created := do(r, request{method: http.MethodPost, path: "/feedbacks", body: createBody})
	require.Equal(t, http.StatusCreated, w.Code)
	id := created["id"].(string)
	apiKey := created["apiKey"].(string)

	w, _ = do(r, request{method: http.MethodPost, path: "/items", body: `{"score":4}`})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, _ = do(r, request{method: http.MethodPost, path: "/items", body: `{"score":4}`,
		headers: map[string]string{"X-API-Key": apiKey}})
	assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w, body := do(r, request{method: http.MethodPost, path: "/items", body: `{"score":7}`,
		headers: map[string]string{"Authorization": "Bearer " + apiKey}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, []interface{}{"must be between 1 and 5"}, body["issues"].(map[string]interface{})["score"])

	w, body = do(r, request{method: http.MethodGet, path: "/feedbacks/" + id + "/items", headers: admin()})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), body["pagination"].(map[string]interface{})["total"])

	w, body = do(r, request{method: http.MethodGet, path: "/feedbacks/" + id, headers: admin()})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, body, "apiKey")

	w, _ = do(r, request{method: http.MethodDelete, path: "/feedbacks/" + id, headers: admin()})
	assert.Equal(t, http.StatusNoContent, w.Code)

	w, _ = do(r, request{method: http.MethodGet, path: "/feedbacks/" + id, headers: admin()})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = do(r, request{method: http.MethodPost, path: "/items", body: `{"score":4}`,
		headers: map[string]string{"X-API-Key": apiKey}})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestOperationalRoutes(t *testing.T) {
	r := setupTestRouter(t)

	w, _ := do(r, request{method: http.MethodGet, path: "/health/liveness"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))

	w, _ = do(r, request{method: http.MethodGet, path: "/metrics"})
	assert.Equal(t, http.StatusOK, w.Code)

	w, body := do(r, request{method: http.MethodGet, path: "/nope"})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, float64(404), body["statusCode"])
}
