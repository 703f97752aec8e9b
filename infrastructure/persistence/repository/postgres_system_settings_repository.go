package repository

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/hilthontt/visper-admin/domain/apperrors"
	"github.com/hilthontt/visper-admin/domain/model"
	"github.com/hilthontt/visper-admin/domain/repository"
	"github.com/hilthontt/visper-admin/infrastructure/config"
	"github.com/hilthontt/visper-admin/infrastructure/persistence/database"
)

type postgresSystemSettingsRepository struct {
	database     *gorm.DB
	tracer       trace.Tracer
	queryTimeout time.Duration
}

func NewSystemSettingsRepository(cfg *config.Config, tracer trace.Tracer) repository.SystemSettingsRepository {
	return &postgresSystemSettingsRepository{
		database:     database.GetDb(),
		tracer:       tracer,
		queryTimeout: cfg.Postgres.QueryTimeout,
	}
}

func (r *postgresSystemSettingsRepository) Get(ctx context.Context) (*model.SystemSettings, error) {
	ctx, span := r.tracer.Start(ctx, "systemSettingsRepository.Get")
	defer span.End()

	ctx, cancel := context.WithTimeout(ctx, r.queryTimeout)
	defer cancel()

	var settings model.SystemSettings
	err := r.database.WithContext(ctx).
		Where("id = ?", model.SettingsRowID).
		First(&settings).
		Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			span.SetAttributes(attribute.Bool("settings.found", false))
			return nil, apperrors.ErrRecordNotFound
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to read settings row")
		return nil, err
	}

	span.SetAttributes(
		attribute.Bool("settings.found", true),
		attribute.Bool("settings.is_active", settings.IsActive),
	)

	return &settings, nil
}

func (r *postgresSystemSettingsRepository) InsertIfAbsent(ctx context.Context, defaults model.SystemSettings) error {
	ctx, span := r.tracer.Start(ctx, "systemSettingsRepository.InsertIfAbsent")
	defer span.End()

	ctx, cancel := context.WithTimeout(ctx, r.queryTimeout)
	defer cancel()

	defaults.ID = model.SettingsRowID
	now := time.Now().UTC()
	defaults.CreatedAt = now
	defaults.UpdatedAt = now

	// Conflict losers are fine: the surviving row is observed by the
	// caller's re-read.
	err := r.database.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoNothing: true,
		}).
		Create(&defaults).
		Error

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to insert settings defaults")
		return err
	}

	return nil
}

func (r *postgresSystemSettingsRepository) UpsertPasswordHash(ctx context.Context, row model.SystemSettings) error {
	ctx, span := r.tracer.Start(ctx, "systemSettingsRepository.UpsertPasswordHash")
	defer span.End()

	ctx, cancel := context.WithTimeout(ctx, r.queryTimeout)
	defer cancel()

	row.ID = model.SettingsRowID
	now := time.Now().UTC()
	row.CreatedAt = now
	row.UpdatedAt = now

	err := r.database.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"access_password_hash": row.AccessPasswordHash,
				"updated_at":           now,
			}),
		}).
		Create(&row).
		Error

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to upsert password hash")
		return err
	}

	return nil
}

func (r *postgresSystemSettingsRepository) UpsertActive(ctx context.Context, row model.SystemSettings) error {
	ctx, span := r.tracer.Start(ctx, "systemSettingsRepository.UpsertActive")
	defer span.End()

	ctx, cancel := context.WithTimeout(ctx, r.queryTimeout)
	defer cancel()

	row.ID = model.SettingsRowID
	now := time.Now().UTC()
	row.CreatedAt = now
	row.UpdatedAt = now

	err := r.database.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"is_active":  row.IsActive,
				"updated_at": now,
			}),
		}).
		Create(&row).
		Error

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to upsert active flag")
		return err
	}

	span.SetAttributes(attribute.Bool("settings.is_active", row.IsActive))

	return nil
}
