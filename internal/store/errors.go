package store

import (
	"errors"
	"fmt"
)

// Error Handling Guidelines:
// - Stores: wrap driver errors with fmt.Errorf("context: %w", err) and map
//   the few conditions callers act on to the values below.
// - Services: translate store errors into apperrors for the handlers.

var (
	// ErrNotFound indicates that a requested resource was not found.
	ErrNotFound = errors.New("resource not found")
)

// UniqueViolation is returned when an insert or update hits a unique
// constraint. Field names the request field the constraint guards, or is
// empty when the constraint is not one the store knows about.
type UniqueViolation struct {
	Field      string
	Constraint string
	Err        error
}

func (e *UniqueViolation) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("unique constraint %q violated", e.Constraint)
	}
	return fmt.Sprintf("%s already in use (constraint %q)", e.Field, e.Constraint)
}

func (e *UniqueViolation) Unwrap() error {
	return e.Err
}
