package memory

import (
	"context"
	"sync"
	"time"

	"design-team-be/internal/entity"
	"design-team-be/internal/repository/contract"
	"design-team-be/internal/repository/specification"
	"design-team-be/internal/repository/unitofwork"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

// Store backs the in-memory repositories used by tests and cmd/simulation.
// Sessions live in a go-cache instance (no expiration); events and state
// maps live behind fine-grained mutexes. One tx mutex serializes units of
// work so sequence assignment stays linearizable without a database.
type Store struct {
	sessions *cache.Cache

	eventsMu sync.Mutex
	events   map[uuid.UUID][]*entity.Event

	statesMu   sync.Mutex
	appStates  map[string]*entity.AppState
	userStates map[uuid.UUID]*entity.UserState

	txMu sync.Mutex
}

func NewStore() *Store {
	return &Store{
		sessions:   cache.New(cache.NoExpiration, 0),
		events:     make(map[uuid.UUID][]*entity.Event),
		appStates:  make(map[string]*entity.AppState),
		userStates: make(map[uuid.UUID]*entity.UserState),
	}
}

// NewRepositoryFactory returns a unitofwork.RepositoryFactory over the store.
func NewRepositoryFactory(store *Store) unitofwork.RepositoryFactory {
	return &factory{store: store}
}

type factory struct {
	store *Store
}

func (f *factory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return &unitOfWork{store: f.store}
}

// unitOfWork serializes transactional sections on the store's tx mutex.
// There is no rollback of effects; tests only roll back after failures
// that made no writes.
type unitOfWork struct {
	store *Store
	inTx  bool
}

func (u *unitOfWork) Begin(ctx context.Context) error {
	u.store.txMu.Lock()
	u.inTx = true
	return nil
}

func (u *unitOfWork) Commit() error {
	if u.inTx {
		u.inTx = false
		u.store.txMu.Unlock()
	}
	return nil
}

func (u *unitOfWork) Rollback() error {
	return u.Commit()
}

func (u *unitOfWork) SessionRepository() contract.SessionRepository {
	return &SessionRepository{store: u.store}
}

func (u *unitOfWork) EventRepository() contract.EventRepository {
	return &EventRepository{store: u.store}
}

func (u *unitOfWork) AppStateRepository() contract.AppStateRepository {
	return &AppStateRepository{store: u.store}
}

func (u *unitOfWork) UserStateRepository() contract.UserStateRepository {
	return &UserStateRepository{store: u.store}
}

// matchSession interprets the query specifications the services use.
func matchSession(s *entity.Session, specs []specification.Specification) bool {
	for _, spec := range specs {
		switch v := spec.(type) {
		case specification.ByID:
			if s.Id != v.ID {
				return false
			}
		case specification.ByUserID:
			if s.UserId != v.UserID {
				return false
			}
		case specification.ByAppName:
			if s.AppName != v.AppName {
				return false
			}
		case specification.ByStatus:
			if s.Status != v.Status {
				return false
			}
		case specification.UpdatedBefore:
			updated := s.CreatedAt
			if s.UpdatedAt != nil {
				updated = *s.UpdatedAt
			}
			if !updated.Before(v.Cutoff) {
				return false
			}
		case specification.OrderBy, specification.LockForUpdate:
			// Ordering handled by the caller; locking handled by txMu.
		}
	}
	return true
}

func cloneSession(s *entity.Session) *entity.Session {
	if s == nil {
		return nil
	}
	copied := *s
	if s.UpdatedAt != nil {
		t := *s.UpdatedAt
		copied.UpdatedAt = &t
	}
	return &copied
}

func cloneEvent(e *entity.Event) *entity.Event {
	if e == nil {
		return nil
	}
	copied := *e
	copied.Payload = make(map[string]interface{}, len(e.Payload))
	for k, v := range e.Payload {
		copied.Payload[k] = v
	}
	return &copied
}

func cloneStateMap(m map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func now() time.Time {
	return time.Now()
}
