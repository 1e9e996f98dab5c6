package dto

import (
	"github.com/google/uuid"
)

type RunStageResponse struct {
	SessionId    uuid.UUID `json:"session_id"`
	StageIndex   int       `json:"stage_index"`
	StageRole    string    `json:"stage_role"`
	Content      string    `json:"content"`
	Phase        string    `json:"phase"`
	AutoAdvanced bool      `json:"auto_advanced"`
}

type SignalRequest struct {
	SessionId uuid.UUID
	Decision  string `json:"decision" validate:"required,oneof=continue revise"`
	Feedback  string `json:"feedback"`
}

type SignalResponse struct {
	SessionId         uuid.UUID `json:"session_id"`
	Decision          string    `json:"decision"`
	Phase             string    `json:"phase"`
	CurrentStageIndex int       `json:"current_stage_index"`
}

type StatusResponse struct {
	SessionId         uuid.UUID `json:"session_id"`
	Status            string    `json:"status"`
	Phase             string    `json:"phase"`
	CurrentStageIndex int       `json:"current_stage_index"`
	StageRole         string    `json:"stage_role,omitempty"`
	StageName         string    `json:"stage_name,omitempty"`
	PendingFeedback   string    `json:"pending_feedback,omitempty"`
	TotalStages       int       `json:"total_stages"`
}

type DocumentSectionResponse struct {
	Path    string `json:"path"`
	Content string `json:"content"`
}

type DocumentResponse struct {
	SessionId uuid.UUID                 `json:"session_id"`
	Complete  bool                      `json:"complete"`
	Sections  []DocumentSectionResponse `json:"sections"`
	Rendered  string                    `json:"rendered"`
}
