package pipeline

// Phase is the externally visible position of a session inside the stage
// state machine. ContributorRunning is transient (the run call is
// synchronous) and therefore never persisted or reported.
type Phase string

const (
	// PhaseAwaitingInput: the current stage is ready to be run.
	PhaseAwaitingInput Phase = "awaiting_input"
	// PhaseAwaitingGate: the current stage produced an output and waits
	// for an external continue / revise signal.
	PhaseAwaitingGate Phase = "awaiting_gate"
	// PhaseFinalized: the terminal stage committed; the document is complete.
	PhaseFinalized Phase = "finalized"
	// PhaseAborted: the session was closed with outcome aborted.
	PhaseAborted Phase = "aborted"
)
