package domain

import (
	"errors"
	"fmt"
)

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidID is returned when an ID is malformed or invalid.
	ErrInvalidID = errors.New("invalid ID")

	// ErrUsernameTaken is returned when a registration is attempted with a
	// username that already belongs to an existing account. It is raised by
	// the registration use case before any account is created.
	ErrUsernameTaken = errors.New("username already exists")
)

// UsernameTakenError wraps ErrUsernameTaken with the username that caused
// the conflict so the boundary layer can surface a field-scoped message.
type UsernameTakenError struct {
	Username string
}

// Error implements the error interface.
func (e *UsernameTakenError) Error() string {
	return fmt.Sprintf("username %q already exists", e.Username)
}

// Unwrap returns ErrUsernameTaken to support errors.Is checks.
func (e *UsernameTakenError) Unwrap() error {
	return ErrUsernameTaken
}

// NewUsernameTakenError creates a UsernameTakenError for the given username.
func NewUsernameTakenError(username string) *UsernameTakenError {
	return &UsernameTakenError{Username: username}
}

// ValidationError represents a field-scoped validation failure. It carries
// the field name so callers can attach the message to the offending input.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s %s", e.Field, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// NewValidationError creates a ValidationError for the given field.
// If err is nil, the error wraps ErrValidation so errors.Is(err, ErrValidation)
// holds for every validation failure.
func NewValidationError(field, message string, err error) *ValidationError {
	if err == nil {
		err = ErrValidation
	}
	return &ValidationError{
		Field:   field,
		Message: message,
		Err:     err,
	}
}
