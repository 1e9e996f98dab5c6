package entity

import (
	"time"

	"github.com/google/uuid"

	"design-team-be/internal/constant"
)

type Session struct {
	Id                uuid.UUID
	UserId            uuid.UUID
	AppName           string
	Status            string
	CurrentStageIndex int
	CreatedAt         time.Time
	UpdatedAt         *time.Time
}

// Closed reports whether the session reached a terminal status. Closed
// sessions accept no further events.
func (s *Session) Closed() bool {
	return s.Status == constant.SessionStatusCompleted || s.Status == constant.SessionStatusAborted
}
