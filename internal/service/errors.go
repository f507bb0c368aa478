package service

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when no table matches (id, owner). A table owned
	// by another user is reported the same way.
	ErrNotFound           = errors.New("table not found")
	ErrUserExists         = errors.New("user with this email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// ValidationError reports a missing or malformed input field
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func validationErr(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}
