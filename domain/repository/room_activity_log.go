package repository

import (
	"context"
	"time"

	"github.com/hilthontt/visper-admin/domain/filter"
	"github.com/hilthontt/visper-admin/domain/model"
)

// RoomActivityLogRepository stores room lifecycle events. The log is
// append-only: no operation updates an existing row.
type RoomActivityLogRepository interface {
	// Insert appends one entry. Entries sharing an event id with an
	// existing row are silently skipped.
	Insert(ctx context.Context, entry *model.RoomActivityLog) error

	// List returns entries matching the filter, newest first.
	List(ctx context.Context, f filter.ActivityLogFilter) ([]model.RoomActivityLog, error)

	// DeleteOlderThan removes every entry with a timestamp strictly
	// before the cutoff and returns how many rows went away.
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)

	CountAll(ctx context.Context) (int64, error)
}
