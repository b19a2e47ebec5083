// Package apperr defines the error taxonomy shared by the policy engine,
// stores and HTTP handlers. Every error here is a client error; nothing in
// this package is retryable.
package apperr

import (
	"errors"
	"fmt"
)

var (
	// ErrPermissionDenied is returned when the policy engine denies an
	// operation. It is deliberately opaque: callers cannot tell whether the
	// target row exists or access was refused.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrNotFound is returned by store lookups for missing rows. The policy
	// engine folds it into ErrPermissionDenied; only read paths that run
	// after an allow decision may surface it.
	ErrNotFound = errors.New("not found")
)

// ConstraintViolation reports a data-integrity failure: a missing required
// field, an out-of-range enum, a non-positive amount, an immutable-field
// change, or a dangling reference.
type ConstraintViolation struct {
	Field  string
	Reason string
}

func (e *ConstraintViolation) Error() string {
	return fmt.Sprintf("constraint violation on %s: %s", e.Field, e.Reason)
}

// Violation builds a ConstraintViolation for the given field.
func Violation(field, reason string) error {
	return &ConstraintViolation{Field: field, Reason: reason}
}

// AsViolation unwraps err into a ConstraintViolation, or returns nil.
func AsViolation(err error) *ConstraintViolation {
	var cv *ConstraintViolation
	if errors.As(err, &cv) {
		return cv
	}
	return nil
}
