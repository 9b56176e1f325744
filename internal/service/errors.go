// Package service implements the sandbox Remote Expense API on top of the
// split engine and a storage.Store.
package service

import (
	"errors"
	"fmt"
)

var (
	// ErrForbidden is returned when the caller is not a member of the group.
	ErrForbidden = errors.New("you are not a member of this group")

	// ErrUnauthenticated is returned when no user is attached to the call.
	ErrUnauthenticated = errors.New("authentication required")
)

// FieldError rejects one request field with a human-readable message.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func fieldError(field, format string, args ...any) error {
	return &FieldError{Field: field, Message: fmt.Sprintf(format, args...)}
}
