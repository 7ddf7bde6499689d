package shared

import (
	"errors"
	"fmt"
)

// Validation error

type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// InvariantViolation reports state that valid operations can never produce,
// such as a task progress above its target or a negative stock counter.
// It is a programming error and must never be swallowed.
type InvariantViolation struct {
	Entity string
	Detail string
}

func (e *InvariantViolation) Error() string {
	return fmt.Sprintf("invariant violated on %s: %s", e.Entity, e.Detail)
}

func NewInvariantViolation(entity, format string, args ...interface{}) *InvariantViolation {
	return &InvariantViolation{Entity: entity, Detail: fmt.Sprintf(format, args...)}
}

// IsInvariantViolation reports whether err (or anything it wraps) is an InvariantViolation
func IsInvariantViolation(err error) bool {
	var v *InvariantViolation
	return errors.As(err, &v)
}
