package contract

import (
	"context"

	"design-team-be/internal/entity"
)

type AppStateRepository interface {
	// Find returns nil (not an error) when the app was never configured.
	Find(ctx context.Context, appName string) (*entity.AppState, error)
	// Upsert writes the whole state map, last-writer-wins.
	Upsert(ctx context.Context, state *entity.AppState) error
	Count(ctx context.Context) (int64, error)
}
