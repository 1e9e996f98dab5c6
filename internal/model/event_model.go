package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Event rows are append-only. The composite unique index backs the
// gapless per-session sequence invariant at the store level.
type Event struct {
	Id        uuid.UUID          `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SessionId uuid.UUID          `gorm:"type:uuid;not null;uniqueIndex:idx_events_session_seq,priority:1;index"`
	Sequence  int64              `gorm:"not null;uniqueIndex:idx_events_session_seq,priority:2"`
	Kind      string             `gorm:"type:text;not null"`
	Payload   datatypes.JSONMap  `gorm:"type:jsonb"`
	CreatedAt time.Time          `gorm:"autoCreateTime"`
}

func (Event) TableName() string {
	return "events"
}
