package capture

import (
	"errors"
	"fmt"
)

// Phase identifies the stage of a run an error belongs to, so the
// operator can tell which collaborator failed.
type Phase string

// Run phases.
const (
	PhaseAuth       Phase = "auth"
	PhaseNavigation Phase = "navigation"
	PhaseExtraction Phase = "extraction"
	PhaseAssembly   Phase = "assembly"
)

// Sentinel errors for session-scoped failures.
var (
	// ErrNoPages indicates the viewer never yielded a single page within
	// the run budget.
	ErrNoPages = errors.New("no pages captured")
	// ErrCanceled indicates an external stop signal ended the run between
	// state-machine steps.
	ErrCanceled = errors.New("capture canceled")
)

// RunError wraps a fatal, session-scoped failure with the phase it
// occurred in. Transient position-scoped failures (render stalls, single
// extraction errors) are absorbed by the driver and never surface as a
// RunError.
type RunError struct {
	Phase Phase
	Err   error
}

func (e *RunError) Error() string {
	return fmt.Sprintf("%s: %v", e.Phase, e.Err)
}

func (e *RunError) Unwrap() error {
	return e.Err
}

// NewRunError builds a RunError for the given phase.
func NewRunError(phase Phase, err error) *RunError {
	return &RunError{Phase: phase, Err: err}
}

// PhaseOf returns the phase of err if it is a RunError, or "" otherwise.
func PhaseOf(err error) Phase {
	var re *RunError
	if errors.As(err, &re) {
		return re.Phase
	}
	return ""
}
