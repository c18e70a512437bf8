// Package apperrors defines the error taxonomy shared by the reservation
// and order engines. Handlers map these types to HTTP status codes.
package apperrors

import "fmt"

// ValidationError reports malformed or missing input, detected before any
// storage access.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// NotFoundError reports an absent referenced entity.
type NotFoundError struct {
	Entity string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("%s not found", e.Entity)
}

// ConflictError reports a double booking or concurrent write collision.
// Message is user facing so callers can prompt re-selection.
type ConflictError struct {
	Message string
}

func (e ConflictError) Error() string {
	return e.Message
}

// StateError reports an operation not permitted in the current status,
// such as editing a past reservation or ordering a sold-out dish.
type StateError struct {
	Reason string
}

func (e StateError) Error() string {
	return e.Reason
}

// Validation builds a ValidationError for a field.
func Validation(field, format string, args ...interface{}) error {
	return ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// NotFound builds a NotFoundError for an entity name.
func NotFound(entity string) error {
	return NotFoundError{Entity: entity}
}

// Conflict builds a ConflictError with a user-facing message.
func Conflict(format string, args ...interface{}) error {
	return ConflictError{Message: fmt.Sprintf(format, args...)}
}

// State builds a StateError with the rejected transition's reason.
func State(format string, args ...interface{}) error {
	return StateError{Reason: fmt.Sprintf(format, args...)}
}
