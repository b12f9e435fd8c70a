package dingbot

import (
	"errors"
	"fmt"
)

// ErrMissingCredentials is returned when the access token or the secret is empty.
var ErrMissingCredentials = errors.New("dingbot: access token and secret must both be set")

// ErrInvalidMessage is the sentinel wrapped by every ValidationError.
var ErrInvalidMessage = errors.New("dingbot: invalid message")

// ValidationError reports a message rejected before any network activity.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s %s", ErrInvalidMessage, e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidMessage
}

// IsValidationError checks if err was caused by a rejected message.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidMessage)
}

func invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}
