package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateSessionRequest struct {
	UserId  uuid.UUID
	AppName string `json:"app_name"`
	Pitch   string `json:"pitch" validate:"required"`
}

type CreateSessionResponse struct {
	Id                uuid.UUID `json:"id"`
	AppName           string    `json:"app_name"`
	Status            string    `json:"status"`
	CurrentStageIndex int       `json:"current_stage_index"`
}

type SessionListResponse struct {
	Id                uuid.UUID  `json:"id"`
	AppName           string     `json:"app_name"`
	Status            string     `json:"status"`
	CurrentStageIndex int        `json:"current_stage_index"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         *time.Time `json:"updated_at"`
}

type ResumeSessionResponse struct {
	Id                uuid.UUID  `json:"id"`
	AppName           string     `json:"app_name"`
	Status            string     `json:"status"`
	CurrentStageIndex int        `json:"current_stage_index"`
	Phase             string     `json:"phase"`
	StageRole         string     `json:"stage_role,omitempty"`
	StageName         string     `json:"stage_name,omitempty"`
	PendingFeedback   string     `json:"pending_feedback,omitempty"`
	EventCount        int64      `json:"event_count"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         *time.Time `json:"updated_at"`
}

type PauseSessionResponse struct {
	Id     uuid.UUID `json:"id"`
	Status string    `json:"status"`
}

type CloseSessionRequest struct {
	Id      uuid.UUID
	Outcome string `json:"outcome" validate:"required,oneof=completed aborted"`
}

type CloseSessionResponse struct {
	Id     uuid.UUID `json:"id"`
	Status string    `json:"status"`
}

type EventResponse struct {
	Id        uuid.UUID              `json:"id"`
	Sequence  int64                  `json:"sequence"`
	Kind      string                 `json:"kind"`
	Payload   map[string]interface{} `json:"payload"`
	CreatedAt time.Time              `json:"created_at"`
}

type SessionHistoryRequest struct {
	Id      uuid.UUID
	FromSeq int64 `query:"from_seq"`
}
