package mapper

import (
	"time"

	"design-team-be/internal/entity"
	"design-team-be/internal/model"
)

type SessionMapper struct{}

func NewSessionMapper() *SessionMapper {
	return &SessionMapper{}
}

func (m *SessionMapper) ToEntity(s *model.Session) *entity.Session {
	if s == nil {
		return nil
	}

	var updatedAt *time.Time
	if !s.UpdatedAt.IsZero() {
		t := s.UpdatedAt
		updatedAt = &t
	}

	return &entity.Session{
		Id:                s.Id,
		UserId:            s.UserId,
		AppName:           s.AppName,
		Status:            s.Status,
		CurrentStageIndex: s.CurrentStageIndex,
		CreatedAt:         s.CreatedAt,
		UpdatedAt:         updatedAt,
	}
}

func (m *SessionMapper) ToModel(s *entity.Session) *model.Session {
	if s == nil {
		return nil
	}

	var updatedAt time.Time
	if s.UpdatedAt != nil {
		updatedAt = *s.UpdatedAt
	}

	return &model.Session{
		Id:                s.Id,
		UserId:            s.UserId,
		AppName:           s.AppName,
		Status:            s.Status,
		CurrentStageIndex: s.CurrentStageIndex,
		CreatedAt:         s.CreatedAt,
		UpdatedAt:         updatedAt,
	}
}
