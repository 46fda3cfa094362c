package domain

import (
	"errors"
	"fmt"
)

// Error taxonomy shared by services and the HTTP layer.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrForbidden          = errors.New("forbidden")
	ErrValidation         = errors.New("validation failed")
	ErrInvalidState       = errors.New("invalid state")
	ErrNotFound           = errors.New("not found")
	ErrDuplicate          = errors.New("already exists")
)

// ValidationError describes malformed entity input. It matches ErrValidation.
type ValidationError struct {
	Field  string // Offending field
	Reason string // Human readable, non-sensitive reason
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// Is lets errors.Is(err, ErrValidation) match any *ValidationError.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}
