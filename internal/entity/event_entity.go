package entity

import (
	"time"

	"github.com/google/uuid"

	"design-team-be/internal/constant"
)

// Event is one immutable record on a session's append-only log. Sequence
// numbers are assigned by the store and are gapless per session.
type Event struct {
	Id        uuid.UUID
	SessionId uuid.UUID
	Sequence  int64
	Kind      string
	Payload   map[string]interface{}
	CreatedAt time.Time
}

// StageIndex reads the stage index off the payload. JSON round-trips
// numbers as float64, so both int and float64 are accepted.
func (e *Event) StageIndex() int {
	switch v := e.Payload[constant.PayloadKeyStageIndex].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return -1
	}
}

func (e *Event) payloadString(key string) string {
	if v, ok := e.Payload[key].(string); ok {
		return v
	}
	return ""
}

func (e *Event) Content() string {
	return e.payloadString(constant.PayloadKeyContent)
}

func (e *Event) Feedback() string {
	return e.payloadString(constant.PayloadKeyFeedback)
}

func (e *Event) Decision() string {
	return e.payloadString(constant.PayloadKeyDecision)
}

func (e *Event) Role() string {
	return e.payloadString(constant.PayloadKeyRole)
}
