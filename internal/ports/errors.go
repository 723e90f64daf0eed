package ports

import (
	"errors"
	"fmt"
)

// Common infrastructure errors surfaced by collaborator implementations.
var (
	// ErrInterviewNotFound indicates that no interview exists for the
	// requested id. Surfaced to the caller as-is; not retry-safe.
	ErrInterviewNotFound = errors.New("interview not found")

	// ErrEvaluationUnavailable indicates that the evaluation collaborator
	// failed. The engine recovers locally by substituting a neutral
	// default evaluation; the turn still proceeds.
	ErrEvaluationUnavailable = errors.New("evaluation unavailable")

	// ErrServiceUnavailable indicates that an external service is down.
	ErrServiceUnavailable = errors.New("service unavailable")

	// ErrRateLimited indicates that an external service rate limited the
	// request.
	ErrRateLimited = errors.New("rate limited")
)

// RepositoryError describes a failed record repository operation. The
// engine never persists a half-updated record: a failed save leaves the
// stored record untouched.
type RepositoryError struct {
	// Op is the repository operation that failed ("load", "save").
	Op string

	// ID is the interview id involved.
	ID string

	// Err is the underlying error.
	Err error
}

// Error implements the error interface for RepositoryError.
func (e *RepositoryError) Error() string {
	return fmt.Sprintf("repository %s %s: %v", e.Op, e.ID, e.Err)
}

// Unwrap returns the underlying error.
func (e *RepositoryError) Unwrap() error { return e.Err }

// NewRepositoryError creates a RepositoryError with the given details.
func NewRepositoryError(op, id string, err error) *RepositoryError {
	return &RepositoryError{Op: op, ID: id, Err: err}
}
