package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type UserState struct {
	UserId    uuid.UUID         `gorm:"type:uuid;primaryKey"`
	State     datatypes.JSONMap `gorm:"type:jsonb"`
	UpdatedAt time.Time         `gorm:"autoUpdateTime"`
}

func (UserState) TableName() string {
	return "user_states"
}
