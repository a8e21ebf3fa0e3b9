package store

import "errors"

// ErrNotFound is returned when an id does not resolve to a live record.
var ErrNotFound = errors.New("not found")

// ValidationError marks malformed or inconsistent input, such as pairing
// two reports of the same kind or referencing an unknown item.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// InvalidStateError marks a forbidden state-machine transition, such as
// confirming a match that is no longer pending.
type InvalidStateError struct {
	Reason string
}

func (e *InvalidStateError) Error() string {
	return e.Reason
}
