package model

import (
	"time"

	"github.com/google/uuid"
)

type Session struct {
	Id                uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId            uuid.UUID `gorm:"type:uuid;not null;index"` // Owner; enforces per-user isolation
	AppName           string    `gorm:"type:text;not null;index"`
	Status            string    `gorm:"type:text;not null;index"`
	CurrentStageIndex int       `gorm:"not null;default:0"`
	CreatedAt         time.Time `gorm:"autoCreateTime;index"`
	UpdatedAt         time.Time `gorm:"autoUpdateTime"`
}

func (Session) TableName() string {
	return "sessions"
}
