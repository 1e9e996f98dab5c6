package mapper

import (
	"design-team-be/internal/entity"
	"design-team-be/internal/model"

	"gorm.io/datatypes"
)

type EventMapper struct{}

func NewEventMapper() *EventMapper {
	return &EventMapper{}
}

func (m *EventMapper) ToEntity(e *model.Event) *entity.Event {
	if e == nil {
		return nil
	}
	return &entity.Event{
		Id:        e.Id,
		SessionId: e.SessionId,
		Sequence:  e.Sequence,
		Kind:      e.Kind,
		Payload:   map[string]interface{}(e.Payload),
		CreatedAt: e.CreatedAt,
	}
}

func (m *EventMapper) ToModel(e *entity.Event) *model.Event {
	if e == nil {
		return nil
	}
	return &model.Event{
		Id:        e.Id,
		SessionId: e.SessionId,
		Sequence:  e.Sequence,
		Kind:      e.Kind,
		Payload:   datatypes.JSONMap(e.Payload),
		CreatedAt: e.CreatedAt,
	}
}

func (m *EventMapper) ToEntities(models []*model.Event) []*entity.Event {
	entities := make([]*entity.Event, len(models))
	for i, e := range models {
		entities[i] = m.ToEntity(e)
	}
	return entities
}
