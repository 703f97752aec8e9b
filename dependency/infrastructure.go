package dependency

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/hilthontt/visper-admin/infrastructure/jobs"
	"github.com/hilthontt/visper-admin/infrastructure/metrics"
	"github.com/hilthontt/visper-admin/infrastructure/metrics/exporters"
	"github.com/hilthontt/visper-admin/infrastructure/persistence/database"
	"github.com/hilthontt/visper-admin/infrastructure/persistence/migration"
	"github.com/hilthontt/visper-admin/infrastructure/profiler"
)

func (c *Container) initInfrastructure() error {
	tracerProvider, err := exporters.InitJaegerExporter(c.Config)
	if err != nil {
		c.Logger.Error("failed to initialize Jaeger exporter", zap.Error(err))
		// Use noop tracer provider as fallback
		c.Logger.Warn("Using noop tracer provider as fallback")
	} else {
		c.TracerProvider = tracerProvider
		c.Logger.Info("Jaeger exporter initialized successfully",
			zap.String("endpoint", c.Config.Jaeger.Endpoint),
			zap.String("service", c.Config.Jaeger.ServiceName),
		)

		go exporters.SendTelemetryTrace(c.Config)
	}

	meter := exporters.Prometheus(c.Config.Jaeger.ServiceName, c.Config.Jaeger.ServiceVersion)
	if meter == nil {
		return fmt.Errorf("failed to initialize Prometheus exporter")
	}

	c.MetricsManager = metrics.NewMetricsManager(meter, c.Logger)

	c.MetricsManager.NewGauge("app_go_routines", "Number of goroutines")
	c.MetricsManager.NewGauge("app_sys_memory_alloc", "Bytes allocated and in use")
	c.MetricsManager.NewGauge("app_sys_total_alloc", "Total bytes allocated")
	c.MetricsManager.NewGauge("app_go_numGC", "Number of completed GC cycles")
	c.MetricsManager.NewGauge("app_go_sys", "Total bytes of memory obtained from OS")

	// Register application metrics
	c.MetricsManager.NewCounter("http_requests_total", "Total number of HTTP requests")
	c.MetricsManager.NewCounter("http_requests_errors_total", "Total number of HTTP 5xx responses")
	c.MetricsManager.NewHistogram("http_request_duration_seconds", "HTTP request duration in seconds",
		0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0)
	c.MetricsManager.NewCounter("room_events_consumed_total", "Total number of room events consumed from the broker")
	c.MetricsManager.NewCounter("activity_log_purged_total", "Total number of purged activity log entries")

	c.Logger.Info("Metrics initialized successfully")

	if err := database.InitDb(c.Config, c.Logger.Log); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}

	migration.Up1()

	c.Logger.Info("Database initialized successfully")

	c.initProfiler()

	return nil
}

func (c *Container) initProfiler() {
	if !c.Config.Profiler.Enabled {
		return
	}

	c.Profiler = profiler.NewAdaptiveProfiler(c.Config.Profiler.Dir, c.Logger)
	c.Profiler.Start(c.ctx)

	c.Logger.Info("Adaptive profiler started", zap.String("dir", c.Config.Profiler.Dir))
}

func (c *Container) initBackgroundJobs(ctx context.Context) {
	if !c.Config.Retention.Enabled {
		c.Logger.Info("Log retention job disabled")
		return
	}

	c.LogRetentionJob = jobs.NewLogRetentionJob(
		c.ActivityLogUC,
		c.Logger,
		c.MetricsManager,
		c.Config.Retention.Interval,
		c.Config.Retention.MaxAge,
	)

	go func() {
		time.Sleep(2 * time.Second) // Wait for all dependencies to initialize
		c.Logger.Info("Starting background jobs...")
		c.LogRetentionJob.Start(ctx)
	}()

	c.Logger.Info("Background jobs initialized and started successfully")
}
