package dto

import "github.com/google/uuid"

type InfoResponse struct {
	Sessions   int64 `json:"sessions"`
	Events     int64 `json:"events"`
	AppStates  int64 `json:"app_states"`
	UserStates int64 `json:"user_states"`
}

type DeleteSessionResponse struct {
	Id            uuid.UUID `json:"id"`
	EventsDeleted int64     `json:"events_deleted"`
}

type DeleteUserDataResponse struct {
	UserId          uuid.UUID `json:"user_id"`
	SessionsDeleted int64     `json:"sessions_deleted"`
	EventsDeleted   int64     `json:"events_deleted"`
}

type CleanupRequest struct {
	OlderThanDays int `json:"older_than_days" validate:"required,min=1"`
}

type CleanupResponse struct {
	SessionsDeleted int64 `json:"sessions_deleted"`
	EventsDeleted   int64 `json:"events_deleted"`
}
