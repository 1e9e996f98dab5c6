package memory

import (
	"context"

	"design-team-be/internal/entity"

	"github.com/google/uuid"
)

type AppStateRepository struct {
	store *Store
}

func NewAppStateRepository(store *Store) *AppStateRepository {
	return &AppStateRepository{store: store}
}

func (r *AppStateRepository) Find(ctx context.Context, appName string) (*entity.AppState, error) {
	r.store.statesMu.Lock()
	defer r.store.statesMu.Unlock()
	s, ok := r.store.appStates[appName]
	if !ok {
		return nil, nil
	}
	return &entity.AppState{AppName: s.AppName, State: cloneStateMap(s.State), UpdatedAt: s.UpdatedAt}, nil
}

func (r *AppStateRepository) Upsert(ctx context.Context, state *entity.AppState) error {
	r.store.statesMu.Lock()
	defer r.store.statesMu.Unlock()
	t := now()
	r.store.appStates[state.AppName] = &entity.AppState{
		AppName:   state.AppName,
		State:     cloneStateMap(state.State),
		UpdatedAt: &t,
	}
	return nil
}

func (r *AppStateRepository) Count(ctx context.Context) (int64, error) {
	r.store.statesMu.Lock()
	defer r.store.statesMu.Unlock()
	return int64(len(r.store.appStates)), nil
}

type UserStateRepository struct {
	store *Store
}

func NewUserStateRepository(store *Store) *UserStateRepository {
	return &UserStateRepository{store: store}
}

func (r *UserStateRepository) Find(ctx context.Context, userId uuid.UUID) (*entity.UserState, error) {
	r.store.statesMu.Lock()
	defer r.store.statesMu.Unlock()
	s, ok := r.store.userStates[userId]
	if !ok {
		return nil, nil
	}
	return &entity.UserState{UserId: s.UserId, State: cloneStateMap(s.State), UpdatedAt: s.UpdatedAt}, nil
}

func (r *UserStateRepository) Upsert(ctx context.Context, state *entity.UserState) error {
	r.store.statesMu.Lock()
	defer r.store.statesMu.Unlock()
	t := now()
	r.store.userStates[state.UserId] = &entity.UserState{
		UserId:    state.UserId,
		State:     cloneStateMap(state.State),
		UpdatedAt: &t,
	}
	return nil
}

func (r *UserStateRepository) DeleteUnscoped(ctx context.Context, userId uuid.UUID) error {
	r.store.statesMu.Lock()
	defer r.store.statesMu.Unlock()
	delete(r.store.userStates, userId)
	return nil
}

func (r *UserStateRepository) Count(ctx context.Context) (int64, error) {
	r.store.statesMu.Lock()
	defer r.store.statesMu.Unlock()
	return int64(len(r.store.userStates)), nil
}
