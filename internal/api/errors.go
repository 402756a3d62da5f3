package api

import (
	"errors"
	"fmt"
	"net/http"
)

// Error is a non-2xx response from the backend. Detail carries the
// server's human-readable message when the body had one.
type Error struct {
	Status int
	Detail string
}

func (e *Error) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("backend returned %d: %s", e.Status, e.Detail)
	}
	return fmt.Sprintf("backend returned %d", e.Status)
}

// ErrUnreachable indicates the backend could not be reached at the
// transport level (connection refused, DNS failure, timeout).
type ErrUnreachable struct {
	Err error
}

func (e *ErrUnreachable) Error() string {
	return fmt.Sprintf("backend unreachable: %v", e.Err)
}

func (e *ErrUnreachable) Unwrap() error { return e.Err }

// ErrInvalidResponse indicates a 2xx response whose body does not match
// the expected shape.
type ErrInvalidResponse struct {
	Err error
}

func (e *ErrInvalidResponse) Error() string {
	return fmt.Sprintf("invalid backend response: %v", e.Err)
}

func (e *ErrInvalidResponse) Unwrap() error { return e.Err }

// IsUnauthorized reports whether err is a 401 from the backend.
func IsUnauthorized(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized
}

// Message returns a user-facing message for err: the backend's detail
// when present, otherwise the fallback.
func Message(err error, fallback string) string {
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Detail != "" {
		return apiErr.Detail
	}
	return fallback
}
