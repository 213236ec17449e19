package router

import (
	"github.com/feedbackx/feedbackx-backend/config"
	"github.com/feedbackx/feedbackx-backend/handlers"
	"github.com/feedbackx/feedbackx-backend/internal/auth"
	"github.com/feedbackx/feedbackx-backend/internal/metrics"
	"github.com/feedbackx/feedbackx-backend/middleware"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Dependencies struct holds all dependencies required for setting up routes.
type Dependencies struct {
	Config            *config.Config
	AdminGuard        *auth.AdminGuard
	APIKeyResolver    middleware.APIKeyResolver
	RedisClient       *redis.Client
	Metrics           *metrics.Metrics
	CollectionHandler *handlers.CollectionHandler
	ItemHandler       *handlers.ItemHandler
	HealthHandler     *handlers.HealthHandler
	Logger            *zap.SugaredLogger
}

// SetupRouter configures and returns the Gin engine with all routes defined.
func SetupRouter(deps Dependencies) *gin.Engine {
	handlers.RegisterValidators()

	r := gin.New()
	r.HandleMethodNotAllowed = true
	if err := r.SetTrustedProxies(deps.Config.Server.TrustedProxies); err != nil && deps.Logger != nil {
		deps.Logger.Warnw("Invalid trusted proxies, ignoring forwarded headers", "error", err)
	}

	// ErrorHandler must wrap Recovery so recovered panics are rendered.
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.Recovery())
	r.Use(middleware.SecurityHeadersMiddleware(deps.Config))
	r.Use(middleware.CORSMiddleware(&deps.Config.Server))

	r.NoRoute(middleware.NoRoute)
	r.NoMethod(middleware.NoMethod)

	r.GET("/health", deps.HealthHandler.DetailedHealth)
	r.GET("/health/liveness", deps.HealthHandler.LivenessCheck)
	r.GET("/health/readiness", deps.HealthHandler.ReadinessCheck)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	adminAuth := middleware.AdminAuth(deps.AdminGuard, deps.Metrics)

	feedbacks := r.Group("/feedbacks")
	{
		feedbacks.POST("", deps.CollectionHandler.CreateCollectionHandler)
		feedbacks.GET("", adminAuth, deps.CollectionHandler.ListCollectionsHandler)
		feedbacks.GET("/:id", adminAuth, deps.CollectionHandler.GetCollectionHandler)
		feedbacks.PATCH("/:id", adminAuth, deps.CollectionHandler.UpdateCollectionHandler)
		feedbacks.DELETE("/:id", adminAuth, deps.CollectionHandler.DeleteCollectionHandler)
		feedbacks.GET("/:id/items", adminAuth, deps.ItemHandler.ListItemsHandler)
	}

	items := r.Group("/items")
	items.Use(middleware.APIKeyAuth(deps.APIKeyResolver))
	if deps.RedisClient != nil {
		items.Use(middleware.CollectionRateLimiter(
			deps.RedisClient,
			deps.Config.RateLimit.ItemsPerWindow,
			deps.Config.RateLimit.Window(),
			deps.Metrics,
		))
	}
	{
		items.POST("", deps.ItemHandler.SubmitItemHandler)
	}

	return r
}
