package constant

const (
	// Session lifecycle statuses.
	SessionStatusActive    = "active"
	SessionStatusPaused    = "paused"
	SessionStatusCompleted = "completed"
	SessionStatusAborted   = "aborted"

	// Event kinds recorded on the per-session log.
	EventKindStageInput      = "stage_input"
	EventKindStageOutput     = "stage_output"
	EventKindGateDecision    = "gate_decision"
	EventKindRevisionRequest = "revision_request"

	// Gate decisions carried on gate_decision / signal payloads.
	GateDecisionContinue = "continue"
	GateDecisionRevision = "revise"

	// Gate decision modes: "manual" when an operator sent the signal,
	// "auto" when the stage policy is auto_advance.
	GateModeManual = "manual"
	GateModeAuto   = "auto"

	// Close outcomes.
	OutcomeCompleted = "completed"
	OutcomeAborted   = "aborted"

	// Event payload keys.
	PayloadKeyStageIndex = "stage_index"
	PayloadKeyRole       = "role"
	PayloadKeyContent    = "content"
	PayloadKeyFeedback   = "feedback"
	PayloadKeyDecision   = "decision"
	PayloadKeyMode       = "mode"
	PayloadKeyAuthor     = "author"
	PayloadKeySections   = "prior_sections"

	// Authors recorded on stage_input events: the director supplies the
	// pitch, the sequencer assembles every per-run context bundle.
	AuthorDirector  = "director"
	AuthorSequencer = "sequencer"

	// Defaults.
	DefaultAppName     = "game_design_team_app"
	WorkflowEventTopic = "WORKFLOW_EVENTS"
)
