package activitylog

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hilthontt/visper-admin/domain/apperrors"
	"github.com/hilthontt/visper-admin/domain/filter"
	"github.com/hilthontt/visper-admin/domain/model"
	"github.com/hilthontt/visper-admin/domain/repository"
	"github.com/hilthontt/visper-admin/infrastructure/logger"
	"github.com/hilthontt/visper-admin/infrastructure/security"
)

const maxRoomIDLength = 36

// RecordParams describes one room event to append. UserAgent is the
// raw header value; only its hash ever reaches storage.
type RecordParams struct {
	EventID          string
	RoomID           string
	Action           model.ActivityAction
	ParticipantCount int
	IPAddress        string
	UserAgent        string
}

type ActivityLogUseCase interface {
	Record(ctx context.Context, params RecordParams) (*model.RoomActivityLog, error)
	List(ctx context.Context, f filter.ActivityLogFilter) ([]model.RoomActivityLog, error)
	PurgeOlderThan(ctx context.Context, maxAge time.Duration) (int64, error)
}

type activityLogUseCase struct {
	repository repository.RoomActivityLogRepository
	logger     *logger.Logger
}

func NewActivityLogUseCase(
	repository repository.RoomActivityLogRepository,
	logger *logger.Logger,
) ActivityLogUseCase {
	return &activityLogUseCase{
		repository: repository,
		logger:     logger,
	}
}

// Record appends one immutable entry. Storage errors surface
// immediately: retrying an append could duplicate audit rows, losing
// one is preferable to counting it twice.
func (uc *activityLogUseCase) Record(ctx context.Context, params RecordParams) (*model.RoomActivityLog, error) {
	if params.RoomID == "" {
		return nil, apperrors.NewValidationError("room_id", apperrors.ReasonEmpty)
	}
	if len(params.RoomID) > maxRoomIDLength {
		return nil, fmt.Errorf("room id exceeds %d characters", maxRoomIDLength)
	}
	if !params.Action.Valid() {
		return nil, fmt.Errorf("unknown action %q, expected one of %v", params.Action, model.ValidActions())
	}

	eventID := params.EventID
	if eventID == "" {
		eventID = uuid.NewString()
	}

	participants := params.ParticipantCount
	if participants < 0 {
		participants = 0
	}

	entry := model.RoomActivityLog{
		EventID:          eventID,
		RoomID:           params.RoomID,
		Action:           params.Action,
		ParticipantCount: participants,
	}

	if params.IPAddress != "" {
		entry.IPAddress = sql.NullString{String: params.IPAddress, Valid: true}
	}
	if hash := security.HashUserAgent(params.UserAgent); hash != "" {
		entry.UserAgentHash = sql.NullString{String: hash, Valid: true}
	}

	if err := uc.repository.Insert(ctx, &entry); err != nil {
		uc.logger.Error("failed to append activity log entry",
			zap.Error(err),
			zap.String("roomID", params.RoomID),
			zap.String("action", params.Action.String()),
		)
		return nil, apperrors.NewStorageError("activity_log.append", err)
	}

	uc.logger.Debug("activity log entry appended",
		zap.String("roomID", entry.RoomID),
		zap.String("action", entry.Action.String()),
		zap.Int("participantCount", entry.ParticipantCount),
	)

	return &entry, nil
}

func (uc *activityLogUseCase) List(ctx context.Context, f filter.ActivityLogFilter) ([]model.RoomActivityLog, error) {
	if f.HasAction() && !f.Action.Valid() {
		return nil, fmt.Errorf("unknown action %q, expected one of %v", f.Action, model.ValidActions())
	}

	entries, err := uc.repository.List(ctx, f)
	if err != nil {
		uc.logger.Error("failed to list activity log entries", zap.Error(err))
		return nil, apperrors.NewStorageError("activity_log.list", err)
	}

	return entries, nil
}

// PurgeOlderThan removes entries older than now minus maxAge and
// reports how many went away. Running it twice is harmless: the second
// pass finds nothing.
func (uc *activityLogUseCase) PurgeOlderThan(ctx context.Context, maxAge time.Duration) (int64, error) {
	if maxAge <= 0 {
		return 0, fmt.Errorf("retention age must be positive, got %s", maxAge)
	}

	cutoff := time.Now().UTC().Add(-maxAge)

	deleted, err := uc.repository.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		uc.logger.Error("failed to purge old activity log entries",
			zap.Error(err),
			zap.Time("cutoff", cutoff),
		)
		return 0, apperrors.NewStorageError("activity_log.purge", err)
	}

	if deleted > 0 {
		uc.logger.Info("purged old activity log entries",
			zap.Int64("deleted", deleted),
			zap.Time("cutoff", cutoff),
		)
	}

	return deleted, nil
}
