package contributor

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// Scripted is a deterministic Provider for tests and the offline
// simulation. Output is a function of the invocation plus a per-stage
// attempt counter, so revision loops produce distinguishable drafts.
type Scripted struct {
	mu       sync.Mutex
	attempts map[int]int
	failNext map[int]error

	// Compose overrides the default draft text when set.
	Compose func(inv *Invocation, attempt int) string
}

var _ Provider = (*Scripted)(nil)

func NewScripted() *Scripted {
	return &Scripted{
		attempts: make(map[int]int),
		failNext: make(map[int]error),
	}
}

// FailOnce makes the next call for the given stage return err, then the
// stage recovers.
func (s *Scripted) FailOnce(stageIndex int, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failNext[stageIndex] = err
}

func (s *Scripted) Contribute(ctx context.Context, inv *Invocation) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err, ok := s.failNext[inv.StageIndex]; ok {
		delete(s.failNext, inv.StageIndex)
		return "", err
	}

	s.attempts[inv.StageIndex]++
	attempt := s.attempts[inv.StageIndex]

	if s.Compose != nil {
		return s.Compose(inv, attempt), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s draft (attempt %d) for pitch: %s", inv.Role, attempt, strings.TrimSpace(inv.Pitch))
	if inv.Feedback != "" {
		fmt.Fprintf(&b, "\nRevised per feedback: %s", inv.Feedback)
	}
	return b.String(), nil
}
