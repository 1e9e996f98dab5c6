package contract

import (
	"context"

	"design-team-be/internal/entity"

	"github.com/google/uuid"
)

type UserStateRepository interface {
	// Find returns nil (not an error) when the user has no stored state.
	Find(ctx context.Context, userId uuid.UUID) (*entity.UserState, error)
	// Upsert writes the whole state map, last-writer-wins.
	Upsert(ctx context.Context, state *entity.UserState) error
	DeleteUnscoped(ctx context.Context, userId uuid.UUID) error
	Count(ctx context.Context) (int64, error)
}
