package model

import (
	"time"

	"gorm.io/datatypes"
)

type AppState struct {
	AppName   string            `gorm:"type:text;primaryKey"`
	State     datatypes.JSONMap `gorm:"type:jsonb"`
	UpdatedAt time.Time         `gorm:"autoUpdateTime"`
}

func (AppState) TableName() string {
	return "app_states"
}
