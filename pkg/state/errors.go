package state

import "errors"

// Store error kinds. Reads of absent keys are not errors; they yield
// the default state. Callers decide whether a corrupt value is worth
// more than a log line.
var (
	// ErrReadFailed wraps store-level read failures (connection, timeout).
	ErrReadFailed = errors.New("state read failed")

	// ErrCorrupt wraps unmarshal failures of a stored value. Accessors
	// return the default state alongside this error so the operation
	// can proceed degraded.
	ErrCorrupt = errors.New("stored state is corrupt")

	// ErrWriteFailed wraps store-level write failures.
	ErrWriteFailed = errors.New("state write failed")
)
