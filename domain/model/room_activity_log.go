package model

import (
	"database/sql"
	"time"

	mapset "github.com/deckarep/golang-set/v2"
)

type ActivityAction string

const (
	ActionCreated ActivityAction = "created"
	ActionJoined  ActivityAction = "joined"
	ActionLeft    ActivityAction = "left"
	ActionExpired ActivityAction = "expired"
	ActionDeleted ActivityAction = "deleted"
)

var validActions = mapset.NewSet(
	ActionCreated,
	ActionJoined,
	ActionLeft,
	ActionExpired,
	ActionDeleted,
)

func (a ActivityAction) Valid() bool {
	return validActions.Contains(a)
}

func (a ActivityAction) String() string {
	return string(a)
}

// ValidActions returns the accepted action values, for error messages
// and request validation.
func ValidActions() []ActivityAction {
	return validActions.ToSlice()
}

// RoomActivityLog is an append-only record of a room lifecycle event.
// Rows are never updated after insertion.
type RoomActivityLog struct {
	ID int64 `gorm:"primaryKey"`

	// Event identity, used to deduplicate redelivered messages.
	EventID string `gorm:"type:VARCHAR(36);not null;uniqueIndex"`

	RoomID string         `gorm:"type:VARCHAR(36);not null;index:idx_room_activity_room_ts,priority:1"`
	Action ActivityAction `gorm:"type:VARCHAR(16);not null;index:idx_room_activity_action_ts,priority:1"`

	// Timestamp is assigned by the store at insertion time, never by callers.
	Timestamp time.Time `gorm:"type:TIMESTAMP with time zone;not null;index:idx_room_activity_room_ts,priority:2,sort:desc;index:idx_room_activity_action_ts,priority:2,sort:desc"`

	ParticipantCount int `gorm:"not null;default:0"`

	// Request metadata - the raw user agent is hashed upstream, only the
	// SHA-256 hex digest is ever stored.
	IPAddress     sql.NullString `gorm:"type:VARCHAR(45);null"`
	UserAgentHash sql.NullString `gorm:"type:VARCHAR(64);null"`
}

func (RoomActivityLog) TableName() string {
	return "room_activity_logs"
}
