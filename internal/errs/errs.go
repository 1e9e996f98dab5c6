package errs

import (
	"errors"
	"fmt"
)

// Domain error taxonomy. Services return these (possibly wrapped); the
// serverutils error middleware maps them to HTTP statuses.
var (
	ErrSessionNotFound  = errors.New("session not found")
	ErrForbidden        = errors.New("session does not belong to the requesting user")
	ErrSessionClosed    = errors.New("session is closed")
	ErrSessionPaused    = errors.New("session is paused")
	ErrStoreUnavailable = errors.New("state store unavailable")

	// ErrGatePending is returned when a stage run is requested while the
	// current stage output still awaits an external gate decision.
	ErrGatePending = errors.New("gate decision pending for current stage")

	// ErrNoGatePending is returned when a gate signal arrives but the
	// current stage has no uncommitted output.
	ErrNoGatePending = errors.New("no gate decision pending")

	ErrPipelineFinished = errors.New("pipeline already finished")

	// ErrStaleRun is returned when the session advanced between reading
	// its position and committing a produced output. The produced content
	// is discarded; the caller may retry against the new position.
	ErrStaleRun = errors.New("session advanced during stage run")
)

// ContributorError wraps an external contributor failure with the stage it
// occurred on. The session is left exactly where it was; retry is the
// caller's call.
type ContributorError struct {
	StageIndex int
	Role       string
	Err        error
}

func (e *ContributorError) Error() string {
	return fmt.Sprintf("contributor %s failed at stage %d: %v", e.Role, e.StageIndex, e.Err)
}

func (e *ContributorError) Unwrap() error {
	return e.Err
}

func NewContributorError(stageIndex int, role string, err error) *ContributorError {
	return &ContributorError{StageIndex: stageIndex, Role: role, Err: err}
}

// IsContributorError reports whether err is (or wraps) a ContributorError.
func IsContributorError(err error) bool {
	var ce *ContributorError
	return errors.As(err, &ce)
}
