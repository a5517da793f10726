package domain

import (
	"errors"
	"fmt"
)

// Common domain errors returned by scoring operations.
var (
	// ErrUnknownItemKind indicates an operation referenced an item kind the
	// engine does not judge.
	ErrUnknownItemKind = errors.New("unknown item kind")

	// ErrScoreOutOfRange indicates a category value outside the accepted
	// [MinCategoryScore, MaxCategoryScore] range.
	ErrScoreOutOfRange = errors.New("category score out of range")

	// ErrMissingCategory indicates a submission omitted a category required
	// by the item kind's rubric.
	ErrMissingCategory = errors.New("missing required category")

	// ErrUnknownCategory indicates a submission carried a category not in
	// the item kind's rubric.
	ErrUnknownCategory = errors.New("unknown category")

	// ErrUnknownJudge indicates a submission from a judge outside the
	// competition's roster.
	ErrUnknownJudge = errors.New("judge not on competition roster")

	// ErrInvalidConfiguration indicates engine configuration is invalid or
	// incomplete.
	ErrInvalidConfiguration = errors.New("invalid configuration")
)

// ValidationError represents a rejected score submission or query.
// It can carry multiple validation failures and is always returned before
// any store mutation takes place.
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

// Addf formats and adds a new error message to the validation error.
func (e *ValidationError) Addf(format string, args ...any) {
	e.Errors = append(e.Errors, fmt.Sprintf(format, args...))
}

// HasErrors returns true if there are any validation errors.
func (e *ValidationError) HasErrors() bool { return len(e.Errors) > 0 }

// NewValidationError creates a new ValidationError for the given entity.
func NewValidationError(entity string) *ValidationError {
	return &ValidationError{
		Entity: entity,
		Errors: make([]string, 0),
	}
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
