package task

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when no task has the requested identity.
	ErrNotFound = errors.New("task not found")
	// ErrValidation is wrapped by every ValidationError.
	ErrValidation = errors.New("validation failed")
	// ErrTransport marks failures talking to the backing store.
	ErrTransport = errors.New("transport failure")
)

// ValidationError describes a single rejected field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

func invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// NotFoundError returns ErrNotFound annotated with the missing identity.
func NotFoundError(id int64) error {
	return fmt.Errorf("task %d: %w", id, ErrNotFound)
}

// TransportError wraps err so that errors.Is(err, ErrTransport) holds.
func TransportError(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrTransport, err)
}
