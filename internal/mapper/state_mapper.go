package mapper

import (
	"time"

	"design-team-be/internal/entity"
	"design-team-be/internal/model"

	"gorm.io/datatypes"
)

type StateMapper struct{}

func NewStateMapper() *StateMapper {
	return &StateMapper{}
}

func (m *StateMapper) AppStateToEntity(s *model.AppState) *entity.AppState {
	if s == nil {
		return nil
	}
	var updatedAt *time.Time
	if !s.UpdatedAt.IsZero() {
		t := s.UpdatedAt
		updatedAt = &t
	}
	return &entity.AppState{
		AppName:   s.AppName,
		State:     map[string]interface{}(s.State),
		UpdatedAt: updatedAt,
	}
}

func (m *StateMapper) AppStateToModel(s *entity.AppState) *model.AppState {
	if s == nil {
		return nil
	}
	return &model.AppState{
		AppName: s.AppName,
		State:   datatypes.JSONMap(s.State),
	}
}

func (m *StateMapper) UserStateToEntity(s *model.UserState) *entity.UserState {
	if s == nil {
		return nil
	}
	var updatedAt *time.Time
	if !s.UpdatedAt.IsZero() {
		t := s.UpdatedAt
		updatedAt = &t
	}
	return &entity.UserState{
		UserId:    s.UserId,
		State:     map[string]interface{}(s.State),
		UpdatedAt: updatedAt,
	}
}

func (m *StateMapper) UserStateToModel(s *entity.UserState) *model.UserState {
	if s == nil {
		return nil
	}
	return &model.UserState{
		UserId: s.UserId,
		State:  datatypes.JSONMap(s.State),
	}
}
