package core

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidCredentials means the supplied email/password matched no account.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrValidation is matched by every *ValidationError.
	ErrValidation = errors.New("validation failed")

	ErrNotFound = errors.New("not found")

	// ErrMalformedSession means persisted session state could not be trusted.
	ErrMalformedSession = errors.New("malformed session state")

	ErrUnauthenticated = errors.New("authentication required")
	ErrForbidden       = errors.New("admin role required")
)

// ValidationError lists the fields that failed validation.
type ValidationError struct {
	Fields []string
}

func NewValidationError(fields ...string) *ValidationError {
	return &ValidationError{Fields: fields}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: required fields missing: %s", ErrValidation, strings.Join(e.Fields, ", "))
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}
