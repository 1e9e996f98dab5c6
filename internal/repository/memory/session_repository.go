package memory

import (
	"context"
	"fmt"
	"sort"

	"design-team-be/internal/entity"
	"design-team-be/internal/repository/specification"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

type SessionRepository struct {
	store *Store
}

func NewSessionRepository(store *Store) *SessionRepository {
	return &SessionRepository{store: store}
}

func (r *SessionRepository) Create(ctx context.Context, session *entity.Session) error {
	if session.Id == uuid.Nil {
		session.Id = uuid.New()
	}
	if session.CreatedAt.IsZero() {
		session.CreatedAt = now()
	}
	if _, exists := r.store.sessions.Get(session.Id.String()); exists {
		return fmt.Errorf("session %s already exists", session.Id)
	}
	r.store.sessions.Set(session.Id.String(), cloneSession(session), cache.NoExpiration)
	return nil
}

func (r *SessionRepository) Update(ctx context.Context, session *entity.Session) error {
	if _, exists := r.store.sessions.Get(session.Id.String()); !exists {
		return fmt.Errorf("session %s does not exist", session.Id)
	}
	if session.UpdatedAt == nil {
		t := now()
		session.UpdatedAt = &t
	}
	r.store.sessions.Set(session.Id.String(), cloneSession(session), cache.NoExpiration)
	return nil
}

func (r *SessionRepository) DeleteUnscoped(ctx context.Context, id uuid.UUID) error {
	r.store.sessions.Delete(id.String())
	return nil
}

func (r *SessionRepository) DeleteAllByUserIdUnscoped(ctx context.Context, userId uuid.UUID) error {
	for key, item := range r.store.sessions.Items() {
		if s, ok := item.Object.(*entity.Session); ok && s.UserId == userId {
			r.store.sessions.Delete(key)
		}
	}
	return nil
}

func (r *SessionRepository) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Session, error) {
	all, err := r.FindAll(ctx, specs...)
	if err != nil {
		return nil, err
	}
	if len(all) == 0 {
		return nil, nil
	}
	return all[0], nil
}

func (r *SessionRepository) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Session, error) {
	var result []*entity.Session
	for _, item := range r.store.sessions.Items() {
		s, ok := item.Object.(*entity.Session)
		if !ok {
			continue
		}
		if matchSession(s, specs) {
			result = append(result, cloneSession(s))
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	for _, spec := range specs {
		if order, ok := spec.(specification.OrderBy); ok && order.Desc {
			for i, j := 0, len(result)-1; i < j; i, j = i+1, j-1 {
				result[i], result[j] = result[j], result[i]
			}
		}
	}
	return result, nil
}

func (r *SessionRepository) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	all, err := r.FindAll(ctx, specs...)
	if err != nil {
		return 0, err
	}
	return int64(len(all)), nil
}
