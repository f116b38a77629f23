package model

import (
	"errors"
	"fmt"
)

// ErrDraftNotFound is returned when an operation targets a draft ID
// that does not exist (or no longer exists).
var ErrDraftNotFound = errors.New("draft not found")

// ErrNotLoggedIn is returned when a command requires a session and
// none is stored.
var ErrNotLoggedIn = errors.New("not logged in")

// ValidationError reports a bad input value scoped to a single field.
// It is returned before any I/O is attempted.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// StoreError wraps a failure from the local persistent store.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string { return fmt.Sprintf("store %s: %v", e.Op, e.Err) }
func (e *StoreError) Unwrap() error { return e.Err }

// AuthError means the server rejected the session token (HTTP 401).
// Callers must treat it as a signal to re-authenticate, never as a
// generic failure.
type AuthError struct {
	Endpoint string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("session rejected by %s, log in again", e.Endpoint)
}

// PublishError is any other non-2xx response from the API. A draft
// whose publish failed with this error is always preserved.
type PublishError struct {
	Endpoint   string
	StatusCode int
}

func (e *PublishError) Error() string {
	return fmt.Sprintf("%s: unexpected status %d", e.Endpoint, e.StatusCode)
}

// IsAuth reports whether err is (or wraps) an AuthError.
func IsAuth(err error) bool {
	var ae *AuthError
	return errors.As(err, &ae)
}
