package repository

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/hilthontt/visper-admin/domain/filter"
	"github.com/hilthontt/visper-admin/domain/model"
	"github.com/hilthontt/visper-admin/domain/repository"
	"github.com/hilthontt/visper-admin/infrastructure/config"
	"github.com/hilthontt/visper-admin/infrastructure/persistence/database"
)

type postgresRoomActivityLogRepository struct {
	database     *gorm.DB
	tracer       trace.Tracer
	queryTimeout time.Duration
}

func NewRoomActivityLogRepository(cfg *config.Config, tracer trace.Tracer) repository.RoomActivityLogRepository {
	return &postgresRoomActivityLogRepository{
		database:     database.GetDb(),
		tracer:       tracer,
		queryTimeout: cfg.Postgres.QueryTimeout,
	}
}

func (r *postgresRoomActivityLogRepository) Insert(ctx context.Context, entry *model.RoomActivityLog) error {
	ctx, span := r.tracer.Start(ctx, "roomActivityLogRepository.Insert")
	defer span.End()

	ctx, cancel := context.WithTimeout(ctx, r.queryTimeout)
	defer cancel()

	// The store owns the timestamp; whatever the caller put there is
	// discarded.
	entry.Timestamp = time.Now().UTC()

	span.SetAttributes(
		attribute.String("event.id", entry.EventID),
		attribute.String("room.id", entry.RoomID),
		attribute.String("event.action", entry.Action.String()),
	)

	err := r.database.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "event_id"}},
			DoNothing: true,
		}).
		Create(entry).
		Error

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to insert activity log entry")
		return err
	}

	return nil
}

func (r *postgresRoomActivityLogRepository) List(ctx context.Context, f filter.ActivityLogFilter) ([]model.RoomActivityLog, error) {
	ctx, span := r.tracer.Start(ctx, "roomActivityLogRepository.List")
	defer span.End()

	ctx, cancel := context.WithTimeout(ctx, r.queryTimeout)
	defer cancel()

	query := r.database.WithContext(ctx).Model(&model.RoomActivityLog{})

	if f.HasRoomID() {
		query = query.Where("room_id = ?", f.RoomID)
		span.SetAttributes(attribute.String("filter.room_id", f.RoomID))
	}
	if f.HasAction() {
		query = query.Where("action = ?", f.Action)
		span.SetAttributes(attribute.String("filter.action", f.Action.String()))
	}
	if f.HasSinceID() {
		query = query.Where("id < ?", f.SinceID)
		span.SetAttributes(attribute.Int64("filter.since_id", f.SinceID))
	}

	var entries []model.RoomActivityLog
	err := query.
		Order("timestamp DESC, id DESC").
		Limit(f.EffectiveLimit()).
		Find(&entries).
		Error

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to list activity log entries")
		return nil, err
	}

	span.SetAttributes(attribute.Int("result.count", len(entries)))

	return entries, nil
}

func (r *postgresRoomActivityLogRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	ctx, span := r.tracer.Start(ctx, "roomActivityLogRepository.DeleteOlderThan")
	defer span.End()

	ctx, cancel := context.WithTimeout(ctx, r.queryTimeout)
	defer cancel()

	span.SetAttributes(attribute.String("cutoff", cutoff.UTC().Format(time.RFC3339)))

	result := r.database.WithContext(ctx).
		Where("timestamp < ?", cutoff).
		Delete(&model.RoomActivityLog{})

	if result.Error != nil {
		span.RecordError(result.Error)
		span.SetStatus(codes.Error, "failed to delete old activity log entries")
		return 0, result.Error
	}

	span.SetAttributes(attribute.Int64("deleted.count", result.RowsAffected))

	return result.RowsAffected, nil
}

func (r *postgresRoomActivityLogRepository) CountAll(ctx context.Context) (int64, error) {
	ctx, span := r.tracer.Start(ctx, "roomActivityLogRepository.CountAll")
	defer span.End()

	ctx, cancel := context.WithTimeout(ctx, r.queryTimeout)
	defer cancel()

	var count int64
	err := r.database.WithContext(ctx).
		Model(&model.RoomActivityLog{}).
		Count(&count).
		Error

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to count activity log entries")
		return 0, err
	}

	return count, nil
}
