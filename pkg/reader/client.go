// Package reader provides an unofficial client for the Readwise Reader API
// with typed errors, cursor pagination, and throttle-aware retries.
package reader

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	// DefaultBaseURL is the production Reader API root.
	DefaultBaseURL = "https://readwise.io/api/v3"

	// TokenEnvVar is the environment variable consulted when Config.Token
	// is empty.
	TokenEnvVar = "READWISE_TOKEN"

	// DefaultThrottleFloor is the wait applied when a 429 response carries
	// no usable Retry-After header.
	DefaultThrottleFloor = 60 * time.Second

	defaultTimeout = 30 * time.Second
)

// Client is the Reader API client. It holds no mutable state across calls
// and is safe for concurrent use.
type Client struct {
	httpClient         *http.Client
	baseURL            string
	token              string
	userAgent          string
	throttleFloor      time.Duration
	maxThrottleRetries int
	logger             zerolog.Logger
}

// Config holds the client configuration.
type Config struct {
	// Token is the Reader access token. Falls back to the READWISE_TOKEN
	// environment variable when empty.
	Token string

	// BaseURL overrides the API root (used in tests).
	BaseURL string

	// UserAgent header sent on every request.
	UserAgent string

	// Timeout for a single HTTP round trip.
	Timeout time.Duration

	// HTTPClient overrides the transport (used in tests).
	HTTPClient *http.Client

	// ThrottleFloor is the minimum wait after a 429 when the server omits
	// or sends a non-positive Retry-After.
	ThrottleFloor time.Duration

	// MaxThrottleRetries bounds 429 retries per request when retry is
	// enabled. Zero keeps the historical unbounded behavior.
	MaxThrottleRetries int
}

// DefaultConfig returns a safe default configuration.
func DefaultConfig(token string) Config {
	return Config{
		Token:         token,
		BaseURL:       DefaultBaseURL,
		UserAgent:     "go-reader/1.0",
		Timeout:       defaultTimeout,
		ThrottleFloor: DefaultThrottleFloor,
	}
}

// New creates a new Reader client.
func New(cfg Config) (*Client, error) {
	token := cfg.Token
	if token == "" {
		token = os.Getenv(TokenEnvVar)
	}
	if token == "" {
		return nil, fmt.Errorf("token is required (set Config.Token or %s)", TokenEnvVar)
	}

	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = "go-reader/1.0"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.ThrottleFloor <= 0 {
		cfg.ThrottleFloor = DefaultThrottleFloor
	}
	if cfg.MaxThrottleRetries < 0 {
		return nil, fmt.Errorf("max_throttle_retries must be >= 0 (got %d)", cfg.MaxThrottleRetries)
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	logger := log.With().Str("component", "reader-client").Logger()

	return &Client{
		httpClient:         httpClient,
		baseURL:            cfg.BaseURL,
		token:              token,
		userAgent:          cfg.UserAgent,
		throttleFloor:      cfg.ThrottleFloor,
		maxThrottleRetries: cfg.MaxThrottleRetries,
		logger:             logger,
	}, nil
}

// do performs exactly one HTTP round trip and translates the response into
// either the raw body or a typed failure. It never sleeps and never retries;
// throttle policy belongs to the callers.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any) ([]byte, int, error) {
	startTime := time.Now()
	defer func() {
		readerRequestDuration.WithLabelValues(path).Observe(time.Since(startTime).Seconds())
	}()

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, 0, fmt.Errorf("encode request body: %w", err)
		}
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reqBody)
	if err != nil {
		return nil, 0, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Token "+c.token)
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.logger.Debug().
		Str("endpoint", path).
		Str("method", method).
		Msg("Executing Reader request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error().Err(err).Str("endpoint", path).Msg("HTTP request failed")
		readerRequestsTotal.WithLabelValues(path, "transport_error").Inc()
		readerErrorsTotal.WithLabelValues(string(ErrorClassTransport)).Inc()
		return nil, 0, &TransportError{Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		readerRequestsTotal.WithLabelValues(path, "transport_error").Inc()
		readerErrorsTotal.WithLabelValues(string(ErrorClassTransport)).Inc()
		return nil, resp.StatusCode, &TransportError{Err: err}
	}

	readerRequestsTotal.WithLabelValues(path, strconv.Itoa(resp.StatusCode)).Inc()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return data, resp.StatusCode, nil
	}

	reqErr := c.statusError(resp, data)
	readerErrorsTotal.WithLabelValues(string(classOf(reqErr))).Inc()

	c.logger.Warn().
		Str("endpoint", path).
		Int("status", resp.StatusCode).
		Str("error_class", string(classOf(reqErr))).
		Msg("Reader request error")

	return data, resp.StatusCode, reqErr
}

// statusError maps a non-2xx response to the error taxonomy.
func (c *Client) statusError(resp *http.Response, data []byte) error {
	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return &AuthError{StatusCode: resp.StatusCode}
	case resp.StatusCode == http.StatusTooManyRequests:
		return &RateLimitError{RetryAfter: c.retryAfter(resp.Header)}
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		return &ClientError{StatusCode: resp.StatusCode, Body: string(data)}
	default:
		return &ServerError{StatusCode: resp.StatusCode, Body: string(data)}
	}
}

// retryAfter extracts the server-supplied wait from a 429 response, falling
// back to the configured floor when the header is absent or unusable.
func (c *Client) retryAfter(h http.Header) time.Duration {
	seconds, err := strconv.Atoi(h.Get("Retry-After"))
	if err != nil || seconds <= 0 {
		return c.throttleFloor
	}
	return time.Duration(seconds) * time.Second
}

// waitThrottle honors a 429 by sleeping for the server-supplied duration.
// Interrupted by context cancellation.
func (c *Client) waitThrottle(ctx context.Context, rle *RateLimitError, attempt int) error {
	readerThrottleWaitsTotal.Inc()
	readerThrottleWaitSeconds.Observe(rle.RetryAfter.Seconds())

	c.logger.Info().
		Dur("retry_after", rle.RetryAfter).
		Int("attempt", attempt).
		Msg("Rate limited, waiting before re-issuing request")

	select {
	case <-ctx.Done():
		return fmt.Errorf("throttle wait interrupted: %w", ctx.Err())
	case <-time.After(rle.RetryAfter):
		return nil
	}
}

// AuthCheck reports whether the configured token is valid. The server
// answers 204 for a valid token and 401/403 for an invalid one; any other
// status is an error.
func (c *Client) AuthCheck(ctx context.Context) (bool, error) {
	_, status, err := c.do(ctx, http.MethodGet, "/auth/", nil, nil)
	if err != nil {
		var authErr *AuthError
		if errors.As(err, &authErr) {
			return false, nil
		}
		return false, err
	}
	if status != http.StatusNoContent {
		return false, fmt.Errorf("unexpected status %d from auth check", status)
	}
	return true, nil
}
