package reader

import (
	"errors"
	"testing"
	"time"
)

func TestErrorMessages(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{
			name:     "auth error",
			err:      &AuthError{StatusCode: 401},
			expected: "reader auth error (status 401): token rejected",
		},
		{
			name:     "client error",
			err:      &ClientError{StatusCode: 400, Body: `{"detail": "bad request"}`},
			expected: `reader client error (status 400): {"detail": "bad request"}`,
		},
		{
			name:     "server error",
			err:      &ServerError{StatusCode: 503, Body: "unavailable"},
			expected: "reader server error (status 503): unavailable",
		},
		{
			name:     "rate limit error",
			err:      &RateLimitError{RetryAfter: 30 * time.Second},
			expected: "reader rate limited: retry after 30s",
		},
		{
			name:     "transport error",
			err:      &TransportError{Err: errors.New("connection refused")},
			expected: "reader transport error: connection refused",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestTransportError_Unwrap(t *testing.T) {
	wrappedErr := errors.New("dial tcp: timeout")
	transportErr := &TransportError{Err: wrappedErr}

	if unwrapped := transportErr.Unwrap(); unwrapped != wrappedErr {
		t.Errorf("Unwrap() = %v, want %v", unwrapped, wrappedErr)
	}

	if !errors.Is(transportErr, wrappedErr) {
		t.Error("errors.Is should work with wrapped error")
	}
}

func TestClassOf(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected ErrorClass
	}{
		{"auth", &AuthError{StatusCode: 403}, ErrorClassAuth},
		{"client", &ClientError{StatusCode: 404}, ErrorClassClient},
		{"server", &ServerError{StatusCode: 500}, ErrorClassServer},
		{"rate limit", &RateLimitError{RetryAfter: time.Minute}, ErrorClassRateLimit},
		{"transport", &TransportError{Err: errors.New("eof")}, ErrorClassTransport},
		{"unknown", errors.New("plain"), ErrorClass("")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := classOf(tt.err); got != tt.expected {
				t.Errorf("classOf() = %q, want %q", got, tt.expected)
			}
		})
	}
}
