// ABOUTME: Validation error type shared by models and storage.
// ABOUTME: Raised before any I/O when required input is missing or invalid.
package models

import (
	"errors"
	"fmt"
)

// ErrValidation matches every *ValidationError via errors.Is.
var ErrValidation = errors.New("validation failed")

// ValidationError describes a single rejected input field.
type ValidationError struct {
	Field   string
	Message string
}

// NewValidationError builds a ValidationError for field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// Is lets errors.Is(err, ErrValidation) succeed.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}
