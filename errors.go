package jgnash

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned by operations that require an entity to exist.
var ErrNotFound = errors.New("not found")

// ValidationError reports malformed input to a constructor or setter. The
// operation that returned it has had no effect.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func newValidationError(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// BackendFault wraps an underlying storage failure. The triggering operation
// was rejected in full and no partial commit is visible.
type BackendFault struct {
	Backend string
	Op      string
	Err     error
}

func (e *BackendFault) Error() string {
	return fmt.Sprintf("%s backend: %s: %v", e.Backend, e.Op, e.Err)
}

func (e *BackendFault) Unwrap() error { return e.Err }

// NewBackendFault wraps err as a fault of the named backend operation.
func NewBackendFault(backend, op string, err error) error {
	return &BackendFault{Backend: backend, Op: op, Err: err}
}
