package docservice

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatError(t *testing.T) {
	cases := []struct {
		name string
		in   any
		want string
	}{
		{"api error", &APIError{Status: 400, Message: "Bad request"}, "Bad request (Status: 400)"},
		{"validation error", &ValidationError{Message: "file too large"}, "Validation Error: file too large"},
		{"network error", &NetworkError{Message: "connection refused"}, "Network Error: connection refused"},
		{"plain error", errors.New("something broke"), "something broke"},
		{"wrapped api error", fmt.Errorf("upload: %w", &APIError{Status: 503, Message: "unavailable"}), "unavailable (Status: 503)"},
		{"nil", nil, "An unexpected error occurred"},
		{"plain string", "not an error", "An unexpected error occurred"},
		{"integer", 42, "An unexpected error occurred"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, FormatError(tc.in))
		})
	}
}

func TestIsCancellation(t *testing.T) {
	assert.True(t, IsCancellation(context.Canceled))
	assert.True(t, IsCancellation(fmt.Errorf("request: %w", context.Canceled)))
	assert.True(t, IsCancellation(errors.New("upload was cancelled by user")))
	assert.True(t, IsCancellation(errors.New("operation aborted")))
	assert.False(t, IsCancellation(nil))
	assert.False(t, IsCancellation(errors.New("connection refused")))
}

func TestIsNetworkError(t *testing.T) {
	assert.True(t, IsNetworkError(&NetworkError{Message: "down"}))
	assert.True(t, IsNetworkError(fmt.Errorf("fetch: %w", &NetworkError{Message: "down"})))
	assert.False(t, IsNetworkError(&APIError{Status: 500, Message: "boom"}))
}
