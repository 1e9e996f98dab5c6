// Package contributor defines the boundary between the stage sequencer and
// whatever produces stage content. The engine only sees the Provider
// interface; the LLM-backed and scripted implementations live alongside it.
package contributor

import "context"

// Section is one committed document section handed to a later stage as
// upstream context.
type Section struct {
	Path    string
	Content string
}

// Invocation carries everything a contributor is allowed to see for one
// stage run. It is assembled from the session's event log, never from
// contributor-side state; contributors must stay stateless across calls.
type Invocation struct {
	StageIndex  int
	Role        string
	StageName   string
	Instruction string

	// Pitch is the document premise recorded at session creation.
	Pitch string
	// PriorSections are the committed sections of earlier stages, in plan
	// order.
	PriorSections []Section
	// PreviousDraft is this stage's own latest output when revising,
	// empty on the first run.
	PreviousDraft string
	// Feedback is the latest revision feedback for this stage, empty
	// unless a revision was requested.
	Feedback string

	// AppState carries the shared settings of the session's application.
	// Read-only; contributors cannot write state.
	AppState map[string]interface{}
	// UserState carries the owning user's preferences.
	UserState map[string]interface{}
}

// Provider produces the content for one stage run. Errors are surfaced
// unchanged to the caller; the engine records nothing on failure.
type Provider interface {
	Contribute(ctx context.Context, inv *Invocation) (string, error)
}
