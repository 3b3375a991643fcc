package domain

import (
	"errors"
	"fmt"
)

// Common domain errors surfaced by the deduplication and scoring passes.
var (
	// ErrInvalidConfiguration indicates that engine configuration is
	// invalid or incomplete. Configuration errors are reported before any
	// listing is processed.
	ErrInvalidConfiguration = errors.New("invalid configuration")

	// ErrUnknownCriterion indicates a criterion name in configuration that
	// no registered criterion implements.
	ErrUnknownCriterion = errors.New("unknown criterion")

	// ErrEmptyValue indicates that a required value is empty or nil.
	ErrEmptyValue = errors.New("empty value")
)

// ValidationError aggregates one or more validation failures for a single
// entity, so callers see every problem at once instead of fixing them one
// at a time.
type ValidationError struct {
	// Entity is the name of the entity that failed validation.
	Entity string

	// Errors contains the list of validation error messages.
	Errors []string
}

// Error implements the error interface for ValidationError.
func (e *ValidationError) Error() string {
	if len(e.Errors) == 1 {
		return fmt.Sprintf("validation error for %s: %s", e.Entity, e.Errors[0])
	}
	return fmt.Sprintf("validation errors for %s: %v", e.Entity, e.Errors)
}

// AddError adds a new error message to the validation error.
func (e *ValidationError) AddError(msg string) { e.Errors = append(e.Errors, msg) }

// HasErrors returns true if there are any validation errors.
func (e *ValidationError) HasErrors() bool { return len(e.Errors) > 0 }

// NewValidationError creates a new ValidationError for the given entity.
func NewValidationError(entity string) *ValidationError {
	return &ValidationError{
		Entity: entity,
		Errors: make([]string, 0),
	}
}
