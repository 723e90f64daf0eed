package domain

import (
	"errors"
	"fmt"
)

// Common domain errors surfaced by interview state transitions and
// scoring operations.
var (
	// ErrInvalidTransition indicates a lifecycle transition that is not
	// permitted from the interview's current status, such as starting an
	// interview that is not scheduled.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrAlreadyTerminal indicates an attempt to mutate an interview that
	// has already completed or been cancelled.
	ErrAlreadyTerminal = errors.New("interview already terminal")

	// ErrScoringFrozen indicates an attempt to fold an evaluation into a
	// completed interview's scoring state.
	ErrScoringFrozen = errors.New("continuous scoring is frozen")
)

// TransitionError describes a rejected lifecycle transition. It carries
// enough context for callers to distinguish retry-safe conditions from
// terminal ones via errors.Is on the wrapped sentinel.
type TransitionError struct {
	// ID is the interview involved in the rejected transition.
	ID string

	// From is the interview's status at the time of the attempt.
	From InterviewStatus

	// To is the status the caller attempted to transition into.
	To InterviewStatus

	// Err is the underlying sentinel error.
	Err error
}

// Error implements the error interface for TransitionError.
func (e *TransitionError) Error() string {
	return fmt.Sprintf("interview %s: cannot transition %s -> %s: %v", e.ID, e.From, e.To, e.Err)
}

// Unwrap returns the underlying sentinel error.
func (e *TransitionError) Unwrap() error { return e.Err }
