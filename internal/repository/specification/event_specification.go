package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BySessionID filters events belonging to one session.
type BySessionID struct {
	SessionID uuid.UUID
}

func (s BySessionID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("session_id = ?", s.SessionID)
}

// FromSequence selects events with sequence >= From. Combined with
// OrderBy{Field: "sequence"} it implements the restartable readRange.
type FromSequence struct {
	From int64
}

func (s FromSequence) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("sequence >= ?", s.From)
}

// ByKind filters events by kind.
type ByKind struct {
	Kind string
}

func (s ByKind) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("kind = ?", s.Kind)
}
