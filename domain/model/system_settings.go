package model

import (
	"time"
)

// SettingsRowID is the fixed primary key of the single settings row.
// Every read and write targets this identity.
const SettingsRowID = 1

// DefaultAccessPassword seeds the settings row when none exists yet.
// It is stored hashed and is expected to be rotated immediately.
const DefaultAccessPassword = "admin123"

type SystemSettings struct {
	ID int `gorm:"primaryKey"`

	AccessPasswordHash string `gorm:"type:VARCHAR(255);not null"`
	IsActive           bool   `gorm:"not null;default:true"`

	CreatedAt time.Time `gorm:"type:TIMESTAMP with time zone;not null"`
	UpdatedAt time.Time `gorm:"type:TIMESTAMP with time zone;not null"`
}

func (SystemSettings) TableName() string {
	return "system_settings"
}

// PasswordSet reports whether a non-empty hash is stored.
func (s SystemSettings) PasswordSet() bool {
	return s.AccessPasswordHash != ""
}
