package reader

import (
	"fmt"
	"time"
)

// ErrorClass represents a classification of request failures.
type ErrorClass string

const (
	// ErrorClassAuth represents 401/403 credential failures.
	ErrorClassAuth ErrorClass = "auth"

	// ErrorClassClient represents other 4xx client errors.
	ErrorClassClient ErrorClass = "client"

	// ErrorClassServer represents 5xx server errors.
	ErrorClassServer ErrorClass = "server"

	// ErrorClassRateLimit represents 429 throttle responses.
	ErrorClassRateLimit ErrorClass = "rate_limit"

	// ErrorClassTransport represents network/timeout errors.
	ErrorClassTransport ErrorClass = "transport"
)

// AuthError signals a bad or expired credential (HTTP 401 or 403).
type AuthError struct {
	StatusCode int
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("reader auth error (status %d): token rejected", e.StatusCode)
}

// ClientError signals a malformed request (4xx other than 401/403/429).
// Body carries the raw response text for diagnostics.
type ClientError struct {
	StatusCode int
	Body       string
}

func (e *ClientError) Error() string {
	return fmt.Sprintf("reader client error (status %d): %s", e.StatusCode, e.Body)
}

// ServerError signals a server-side fault (5xx). The library never retries
// these; callers may.
type ServerError struct {
	StatusCode int
	Body       string
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("reader server error (status %d): %s", e.StatusCode, e.Body)
}

// RateLimitError signals a 429 throttle response. RetryAfter is the
// server-supplied wait, already floored to the client's configured minimum
// when the header is absent or non-positive.
type RateLimitError struct {
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("reader rate limited: retry after %s", e.RetryAfter)
}

// TransportError wraps a connectivity failure (connection refused, timeout,
// DNS). Never retried automatically.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("reader transport error: %v", e.Err)
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *TransportError) Unwrap() error {
	return e.Err
}

// classOf maps an error from the executor to its class for metrics.
func classOf(err error) ErrorClass {
	switch err.(type) {
	case *AuthError:
		return ErrorClassAuth
	case *ClientError:
		return ErrorClassClient
	case *ServerError:
		return ErrorClassServer
	case *RateLimitError:
		return ErrorClassRateLimit
	case *TransportError:
		return ErrorClassTransport
	default:
		return ""
	}
}
