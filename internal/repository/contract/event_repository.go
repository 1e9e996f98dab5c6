package contract

import (
	"context"

	"design-team-be/internal/entity"
	"design-team-be/internal/repository/specification"

	"github.com/google/uuid"
)

type EventRepository interface {
	// NextSequence returns MAX(sequence)+1 for the session. The caller
	// must hold the session row lock (LockForUpdate inside a unit of
	// work) so the value cannot be observed twice.
	NextSequence(ctx context.Context, sessionId uuid.UUID) (int64, error)
	// Append inserts an immutable event. Existing events are never
	// updated or removed outside administrative whole-session deletion.
	Append(ctx context.Context, event *entity.Event) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Event, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	// DeleteAllBySessionIdUnscoped removes a whole session's log.
	// Partial deletion is disallowed: it would break the gapless
	// sequence invariant.
	DeleteAllBySessionIdUnscoped(ctx context.Context, sessionId uuid.UUID) error
}
