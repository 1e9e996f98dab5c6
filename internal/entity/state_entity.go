package entity

import (
	"time"

	"github.com/google/uuid"
)

// AppState is coarse, app-wide configuration shared across every session
// of the same application. Writes are last-writer-wins at key granularity.
type AppState struct {
	AppName   string
	State     map[string]interface{}
	UpdatedAt *time.Time
}

// UserState carries one user's cross-session preferences. Readable and
// writable only through sessions owned by that user.
type UserState struct {
	UserId    uuid.UUID
	State     map[string]interface{}
	UpdatedAt *time.Time
}
