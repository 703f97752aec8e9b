package filter

import (
	"github.com/hilthontt/visper-admin/domain/model"
)

const (
	DefaultActivityLogLimit = 100
	MaxActivityLogLimit     = 500
)

// ActivityLogFilter narrows an activity log listing. Zero values mean
// "no constraint". SinceID supports restartable pagination: only rows
// older than the given row id are returned.
type ActivityLogFilter struct {
	RoomID  string
	Action  model.ActivityAction
	SinceID int64
	Limit   int
}

func (f ActivityLogFilter) HasRoomID() bool {
	return f.RoomID != ""
}

func (f ActivityLogFilter) HasAction() bool {
	return f.Action != ""
}

func (f ActivityLogFilter) HasSinceID() bool {
	return f.SinceID > 0
}

// EffectiveLimit clamps the requested page size into the allowed range.
func (f ActivityLogFilter) EffectiveLimit() int {
	if f.Limit <= 0 {
		return DefaultActivityLogLimit
	}
	if f.Limit > MaxActivityLogLimit {
		return MaxActivityLogLimit
	}
	return f.Limit
}
