// Package domain contains persistence models for the remote log store.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// LogKind is the category of a submitted log record.
type LogKind string

const (
	LogKindActivity LogKind = "ACTIVITY"
	LogKindOvertime LogKind = "OVERTIME"
)

// ServerLog is a delivered log row. The unique constraint on ClientID is
// the idempotency guarantee: a client may retry an insert any number of
// times and at most one row exists.
type ServerLog struct {
	ID            snowflake.ID   `gorm:"primaryKey" json:"id"`
	UserID        string         `gorm:"type:text;not null;index" json:"user_id"`
	ClientID      string         `gorm:"type:text;not null;uniqueIndex" json:"client_uuid"`
	Kind          LogKind        `gorm:"type:text;not null" json:"kind"`
	RoleGroupID   *int64         `gorm:"index" json:"role_group_id,omitempty"`
	PointsAwarded float64        `gorm:"not null" json:"points_awarded"`
	Payload       datatypes.JSON `gorm:"type:jsonb" json:"payload,omitempty"`
	CreatedAt     time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (ServerLog) TableName() string { return "logs" }

// Principal is the authenticated identity a submission is attributed to.
type Principal struct {
	ID string
}

// Profile carries per-technician settings mirrored on the remote store.
type Profile struct {
	ID          string `gorm:"primaryKey;type:text"`
	Name        string `gorm:"type:text"`
	RoleGroupID *int64
}

func (Profile) TableName() string { return "profiles" }

// RoleGroup maps a technician role to its base period goal.
type RoleGroup struct {
	ID   int64   `gorm:"primaryKey"`
	Name string  `gorm:"type:text;not null;uniqueIndex"`
	Goal float64 `gorm:"not null"`
}

func (RoleGroup) TableName() string { return "role_groups" }
