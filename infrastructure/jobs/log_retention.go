package jobs

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/hilthontt/visper-admin/application/usecases/activitylog"
	"github.com/hilthontt/visper-admin/infrastructure/logger"
	"github.com/hilthontt/visper-admin/infrastructure/metrics"
)

// LogRetentionJob periodically purges activity log entries older than
// the configured retention window.
type LogRetentionJob struct {
	activityLogUseCase activitylog.ActivityLogUseCase
	logger             *logger.Logger
	metricsManager     metrics.Manager
	interval           time.Duration
	maxAge             time.Duration
	stopChan           chan struct{}
}

func NewLogRetentionJob(
	activityLogUseCase activitylog.ActivityLogUseCase,
	logger *logger.Logger,
	metricsManager metrics.Manager,
	interval time.Duration,
	maxAge time.Duration,
) *LogRetentionJob {
	return &LogRetentionJob{
		activityLogUseCase: activityLogUseCase,
		logger:             logger,
		metricsManager:     metricsManager,
		interval:           interval,
		maxAge:             maxAge,
		stopChan:           make(chan struct{}),
	}
}

func (j *LogRetentionJob) Start(ctx context.Context) {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	j.logger.Info("Log retention job started",
		zap.Duration("interval", j.interval),
		zap.Duration("maxAge", j.maxAge),
	)

	j.runPurge(ctx)

	for {
		select {
		case <-ticker.C:
			j.runPurge(ctx)
		case <-j.stopChan:
			j.logger.Info("Log retention job stopped")
			return
		case <-ctx.Done():
			j.logger.Info("Log retention job context cancelled")
			return
		}
	}
}

func (j *LogRetentionJob) Stop() {
	close(j.stopChan)
}

func (j *LogRetentionJob) runPurge(ctx context.Context) {
	startTime := time.Now()

	deleted, err := j.activityLogUseCase.PurgeOlderThan(ctx, j.maxAge)
	if err != nil {
		j.logger.Error("Log retention job failed",
			zap.Error(err),
			zap.Duration("duration", time.Since(startTime)),
		)
		return
	}

	if j.metricsManager != nil {
		j.metricsManager.AddCounter("activity_log_purged_total", deleted)
	}

	j.logger.Info("Log retention job completed",
		zap.Int64("deleted", deleted),
		zap.Duration("duration", time.Since(startTime)),
	)
}
