package unitofwork

import (
	"context"

	"design-team-be/internal/repository/contract"
)

// UnitOfWork scopes repository access and an optional transaction. Event
// appends run Begin/Commit so sequence assignment and the session touch
// land atomically.
type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	SessionRepository() contract.SessionRepository
	EventRepository() contract.EventRepository
	AppStateRepository() contract.AppStateRepository
	UserStateRepository() contract.UserStateRepository
}
