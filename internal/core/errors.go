package core

import (
	"errors"
	"fmt"
)

// ErrNotFound signals a point lookup or keyed mutation that matched no row.
// It is always distinguishable from a storage failure via errors.Is.
var ErrNotFound = errors.New("transaction not found")

// ValidationError reports a bad field value on a Transaction. Callers can
// recover by correcting the input.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// PersistenceError wraps a storage-layer failure (connection loss,
// constraint violation). It is retryable and must never be swallowed.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// InvalidRangeError reports a date range whose start falls after its end.
type InvalidRangeError struct {
	Start string
	End   string
}

func (e *InvalidRangeError) Error() string {
	return fmt.Sprintf("invalid date range: start %s is after end %s", e.Start, e.End)
}
