package download

import "errors"

var (
	// ErrTaskNotFound is returned for an id the registry does not hold
	ErrTaskNotFound = errors.New("task not found")
	// ErrTaskTerminal is returned when a finished or aborted task is modified
	ErrTaskTerminal = errors.New("task already finished or aborted")
	// ErrInvalidTransition is returned when an operation does not apply to the current status
	ErrInvalidTransition = errors.New("invalid status transition")
	// ErrServiceStopped is returned when the event loop is no longer running
	ErrServiceStopped = errors.New("download service stopped")
)
