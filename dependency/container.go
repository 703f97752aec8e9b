package dependency

import (
	"context"
	"fmt"

	"github.com/getsentry/sentry-go"
	"go.opentelemetry.io/otel/sdk/trace"

	activityLogUseCase "github.com/hilthontt/visper-admin/application/usecases/activitylog"
	settingsUseCase "github.com/hilthontt/visper-admin/application/usecases/settings"
	"github.com/hilthontt/visper-admin/domain/repository"
	"github.com/hilthontt/visper-admin/infrastructure/cache"
	"github.com/hilthontt/visper-admin/infrastructure/config"
	"github.com/hilthontt/visper-admin/infrastructure/events"
	"github.com/hilthontt/visper-admin/infrastructure/jobs"
	"github.com/hilthontt/visper-admin/infrastructure/logger"
	"github.com/hilthontt/visper-admin/infrastructure/messaging"
	"github.com/hilthontt/visper-admin/infrastructure/metrics"
	"github.com/hilthontt/visper-admin/infrastructure/profiler"
	"github.com/hilthontt/visper-admin/presentation/controllers/activitylog"
	"github.com/hilthontt/visper-admin/presentation/controllers/settings"
)

type Container struct {
	Config *config.Config
	Logger *logger.Logger

	TracerProvider *trace.TracerProvider
	MetricsManager metrics.Manager

	SettingsRepo    repository.SystemSettingsRepository
	ActivityLogRepo repository.RoomActivityLogRepository

	SettingsUC    settingsUseCase.SettingsUseCase
	ActivityLogUC activityLogUseCase.ActivityLogUseCase

	SettingsController    settings.SettingsController
	ActivityLogController activitylog.ActivityLogController

	RabbitMQ     *messaging.RabbitMQ
	RoomConsumer *events.RoomConsumer

	LogRetentionJob *jobs.LogRetentionJob
	Profiler        *profiler.AdaptiveProfiler

	ctx    context.Context
	cancel context.CancelFunc
}

func NewContainer() (*Container, error) {
	c := &Container{}

	c.Config = config.GetConfig()

	loggerInstance, err := logger.NewLogger(c.Config)
	if err != nil {
		return nil, fmt.Errorf("error initializing logger: %w", err)
	}
	c.Logger = loggerInstance

	c.Logger.Info("Initializing Visper admin dependencies")

	c.ctx, c.cancel = context.WithCancel(context.Background())

	if err := c.initSentry(); err != nil {
		return nil, fmt.Errorf("error initializing sentry: %w", err)
	}

	if c.Config.Redis.Enabled {
		if err := cache.InitRedis(c.Config); err != nil {
			return nil, fmt.Errorf("error initializing cache: %w", err)
		}
	}

	if err := c.initInfrastructure(); err != nil {
		return nil, fmt.Errorf("error initializing infrastructure: %w", err)
	}

	c.initRepositories()

	c.initUseCases()

	if err := c.initMessaging(); err != nil {
		return nil, fmt.Errorf("error initializing messaging: %w", err)
	}

	c.initBackgroundJobs(c.ctx)

	c.initControllers()

	c.Logger.Info("All dependencies initialized successfully")

	return c, nil
}

func (c *Container) initSentry() error {
	if c.Config.Sentry.Dsn == "" {
		c.Logger.Info("Sentry DSN not configured, error reporting disabled")
		return nil
	}

	return sentry.Init(sentry.ClientOptions{
		Dsn:            c.Config.Sentry.Dsn,
		Debug:          c.Config.Sentry.Debug,
		SendDefaultPII: c.Config.Sentry.SendDefaultPII,
		Environment:    c.Config.Server.RunMode,
	})
}
