package memory

import (
	"context"
	"fmt"
	"sort"

	"design-team-be/internal/entity"
	"design-team-be/internal/repository/specification"

	"github.com/google/uuid"
)

type EventRepository struct {
	store *Store
}

func NewEventRepository(store *Store) *EventRepository {
	return &EventRepository{store: store}
}

func (r *EventRepository) NextSequence(ctx context.Context, sessionId uuid.UUID) (int64, error) {
	r.store.eventsMu.Lock()
	defer r.store.eventsMu.Unlock()
	return int64(len(r.store.events[sessionId])) + 1, nil
}

func (r *EventRepository) Append(ctx context.Context, event *entity.Event) error {
	r.store.eventsMu.Lock()
	defer r.store.eventsMu.Unlock()

	expected := int64(len(r.store.events[event.SessionId])) + 1
	if event.Sequence != expected {
		// Mirrors the database unique index on (session_id, sequence).
		return fmt.Errorf("duplicate or out-of-order sequence %d for session %s (want %d)",
			event.Sequence, event.SessionId, expected)
	}
	if event.Id == uuid.Nil {
		event.Id = uuid.New()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = now()
	}
	r.store.events[event.SessionId] = append(r.store.events[event.SessionId], cloneEvent(event))
	return nil
}

func (r *EventRepository) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Event, error) {
	r.store.eventsMu.Lock()
	defer r.store.eventsMu.Unlock()

	var sessionId *uuid.UUID
	fromSeq := int64(0)
	kind := ""
	for _, spec := range specs {
		switch v := spec.(type) {
		case specification.BySessionID:
			id := v.SessionID
			sessionId = &id
		case specification.FromSequence:
			fromSeq = v.From
		case specification.ByKind:
			kind = v.Kind
		}
	}

	var result []*entity.Event
	appendMatching := func(events []*entity.Event) {
		for _, e := range events {
			if e.Sequence < fromSeq {
				continue
			}
			if kind != "" && e.Kind != kind {
				continue
			}
			result = append(result, cloneEvent(e))
		}
	}
	if sessionId != nil {
		appendMatching(r.store.events[*sessionId])
	} else {
		for _, events := range r.store.events {
			appendMatching(events)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].SessionId != result[j].SessionId {
			return result[i].SessionId.String() < result[j].SessionId.String()
		}
		return result[i].Sequence < result[j].Sequence
	})
	return result, nil
}

func (r *EventRepository) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	all, err := r.FindAll(ctx, specs...)
	if err != nil {
		return 0, err
	}
	return int64(len(all)), nil
}

func (r *EventRepository) DeleteAllBySessionIdUnscoped(ctx context.Context, sessionId uuid.UUID) error {
	r.store.eventsMu.Lock()
	defer r.store.eventsMu.Unlock()
	delete(r.store.events, sessionId)
	return nil
}
