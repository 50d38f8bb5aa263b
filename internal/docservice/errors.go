package docservice

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// APIError is a server response with a non-success status code.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error (status %d): %s", e.Status, e.Message)
}

// ValidationError is a request rejected for content or shape reasons.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s", e.Message)
}

// NetworkError is a request that could not reach the server.
type NetworkError struct {
	Message string
	Err     error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error: %s", e.Message)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// FormatError maps any failure value to its user-facing string. It accepts
// `any` so recovered panic values format the same way as errors.
func FormatError(v any) string {
	err, ok := v.(error)
	if !ok || err == nil {
		return "An unexpected error occurred"
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return fmt.Sprintf("%s (Status: %d)", apiErr.Message, apiErr.Status)
	}

	var valErr *ValidationError
	if errors.As(err, &valErr) {
		return fmt.Sprintf("Validation Error: %s", valErr.Message)
	}

	var netErr *NetworkError
	if errors.As(err, &netErr) {
		return fmt.Sprintf("Network Error: %s", netErr.Message)
	}

	return err.Error()
}

// IsNetworkError reports whether err indicates the server was unreachable.
func IsNetworkError(err error) bool {
	var netErr *NetworkError
	return errors.As(err, &netErr)
}

// IsCancellation reports whether err represents a user-initiated abort.
// Cancelled uploads settle silently and must never surface as errors.
func IsCancellation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "cancel") || strings.Contains(msg, "abort")
}
