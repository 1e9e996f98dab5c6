package events

import (
	"time"

	"github.com/google/uuid"
)

// Event is the contract for anything published on the in-process bus.
type Event interface {
	EventType() string
	Payload() map[string]interface{}
	Timestamp() time.Time
}

// SessionEvent is the wire form of one appended workflow event. The stream
// hub routes these to websocket clients by session id.
type SessionEvent struct {
	SessionId  uuid.UUID              `json:"session_id"`
	Sequence   int64                  `json:"sequence"`
	Kind       string                 `json:"kind"`
	Data       map[string]interface{} `json:"payload"`
	OccurredAt time.Time              `json:"occurred_at"`
}

func (e SessionEvent) EventType() string {
	return e.Kind
}

func (e SessionEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e SessionEvent) Timestamp() time.Time {
	return e.OccurredAt
}
