package dependency

import (
	"context"
	"time"

	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/hilthontt/visper-admin/infrastructure/cache"
	"github.com/hilthontt/visper-admin/infrastructure/metrics"
	"github.com/hilthontt/visper-admin/infrastructure/persistence/database"
	"github.com/hilthontt/visper-admin/presentation/controllers/activitylog"
	"github.com/hilthontt/visper-admin/presentation/controllers/settings"
	"github.com/hilthontt/visper-admin/presentation/middlewares"
	"github.com/hilthontt/visper-admin/presentation/routes"
)

func (c *Container) initControllers() {
	c.SettingsController = settings.NewSettingsController(c.SettingsUC, c.Config)
	c.ActivityLogController = activitylog.NewActivityLogController(c.ActivityLogUC)

	c.Logger.Info("Controllers initialized successfully")
}

func (c *Container) SetupRouter() *gin.Engine {
	switch c.Config.Server.RunMode {
	case "release", "production":
		gin.SetMode(gin.ReleaseMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.DebugMode)
	}

	binding.Validator = new(middlewares.DefaultValidator)

	router := gin.Default()

	router.Use(sentrygin.New(sentrygin.Options{
		Repanic:         true,
		WaitForDelivery: false,
		Timeout:         5 * time.Second,
	}))

	if c.Config.IsProduction() {
		router.Use(middlewares.ForceHttps(c.Config))
	}

	router.Use(middlewares.GinLogger(c.Logger))
	router.Use(middlewares.CorsMiddleware(c.Config))

	router.GET("/health", c.healthCheckHandler)

	c.registerObservabilityRoutes(router)

	c.registerAPIRoutes(router)

	c.Logger.Info("Router configured successfully")

	return router
}

func (c *Container) registerAPIRoutes(router *gin.Engine) {
	redisClient := c.rateLimiterClient()

	v1 := router.Group("/api/v1")
	{
		v1.Use(middlewares.RateLimiterMiddleware(redisClient, c.Logger, middlewares.ModerateRateLimiterConfig()))
		v1.Use(middlewares.HttpMetricsMiddleware(c.MetricsManager))
		v1.Use(middlewares.AdminAuthMiddleware(c.Config, c.Logger))

		strictLimiter := middlewares.RateLimiterMiddleware(redisClient, c.Logger, middlewares.StrictRateLimiterConfig())

		routes.SettingsRoutes(v1, c.SettingsController, strictLimiter)
		routes.ActivityLogRoutes(v1, c.ActivityLogController)
	}
}

// rateLimiterClient hands the middleware a nil client when redis is
// disabled, which switches it to per-process limiting.
func (c *Container) rateLimiterClient() *redis.Client {
	if !c.Config.Redis.Enabled {
		return nil
	}
	return cache.GetRedis()
}

func (c *Container) healthCheckHandler(ctx *gin.Context) {
	ctx.JSON(200, gin.H{
		"status": "healthy",
		"time":   time.Now().Format(time.RFC3339),
	})
}

func (c *Container) registerObservabilityRoutes(router *gin.Engine) {
	metricsGroup := router.Group("/observability")
	{
		metrics.GetHandler(metricsGroup, c.MetricsManager)
	}
}

func (c *Container) Shutdown() error {
	c.Logger.Info("Shutting down dependencies...")

	if c.LogRetentionJob != nil {
		c.LogRetentionJob.Stop()
	}

	// Cancel the consumer context
	if c.cancel != nil {
		c.cancel()
	}

	if c.RabbitMQ != nil {
		c.RabbitMQ.Close()
	}

	if c.TracerProvider != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := c.TracerProvider.Shutdown(ctx); err != nil {
			c.Logger.Error("failed to shutdown tracer provider", zap.Error(err))
		}
	}

	if c.Config.Redis.Enabled {
		cache.CloseRedis()
	}

	if err := c.Logger.Log.Sync(); err != nil {
		c.Logger.Error("failed to sync logger", zap.Error(err))
	}

	c.Logger.Info("Dependencies shut down successfully")

	database.CloseDb()

	return nil
}
