package repository

import (
	"context"

	"github.com/hilthontt/visper-admin/domain/model"
)

// SystemSettingsRepository persists the single settings row. All writes
// are atomic upserts keyed on the fixed row identity, so concurrent
// writers serialize on the primary key constraint instead of racing a
// read-modify-write cycle.
type SystemSettingsRepository interface {
	Get(ctx context.Context) (*model.SystemSettings, error)

	// InsertIfAbsent creates the row with the given defaults unless it
	// already exists. Losing a creation race is not an error; callers
	// re-read to observe the surviving row.
	InsertIfAbsent(ctx context.Context, defaults model.SystemSettings) error

	// UpsertPasswordHash writes row.AccessPasswordHash. When the row
	// already exists only the hash and updated_at change; otherwise the
	// full row is inserted, so the hash column is never left empty.
	UpsertPasswordHash(ctx context.Context, row model.SystemSettings) error

	// UpsertActive writes row.IsActive the same way, leaving the stored
	// password hash untouched on the update path.
	UpsertActive(ctx context.Context, row model.SystemSettings) error
}
