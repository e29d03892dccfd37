package reader

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/readwise-tools/go-reader/internal/testutil"
)

// newTestClient creates a client pointed at the mock server with a short
// throttle floor so tests stay fast.
func newTestClient(t *testing.T, baseURL string) *Client {
	t.Helper()

	cfg := DefaultConfig("test-token")
	cfg.BaseURL = baseURL
	cfg.ThrottleFloor = 50 * time.Millisecond

	client, err := New(cfg)
	if err != nil {
		t.Fatalf("Failed to create client: %v", err)
	}
	return client
}

// pageJSON builds a /list/ page body with the given continuation cursor
// ("" for the final page) and document ids.
func pageJSON(t *testing.T, cursor string, ids ...string) string {
	t.Helper()

	docs := make([]Document, 0, len(ids))
	for _, id := range ids {
		docs = append(docs, Document{ID: id})
	}
	body, err := json.Marshal(listResponse{
		Count:          len(docs),
		NextPageCursor: cursor,
		Results:        docs,
	})
	if err != nil {
		t.Fatalf("Failed to marshal page: %v", err)
	}
	return string(body)
}

func TestNew_Validation(t *testing.T) {
	tests := []struct {
		name        string
		config      Config
		expectError bool
	}{
		{
			name:   "valid config",
			config: DefaultConfig("tok"),
		},
		{
			name:        "missing token",
			config:      Config{},
			expectError: true,
		},
		{
			name:        "negative throttle retries",
			config:      Config{Token: "tok", MaxThrottleRetries: -1},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(TokenEnvVar, "")

			client, err := New(tt.config)
			if tt.expectError {
				if err == nil {
					t.Error("Expected error but got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if client == nil {
				t.Error("Client is nil")
			}
		})
	}
}

func TestNew_TokenFromEnvironment(t *testing.T) {
	t.Setenv(TokenEnvVar, "env-token")

	client, err := New(Config{})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if client.token != "env-token" {
		t.Errorf("token = %q, want %q", client.token, "env-token")
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig("tok")

	if cfg.Token != "tok" {
		t.Errorf("Token = %q, want %q", cfg.Token, "tok")
	}
	if cfg.BaseURL != DefaultBaseURL {
		t.Errorf("BaseURL = %q, want %q", cfg.BaseURL, DefaultBaseURL)
	}
	if cfg.ThrottleFloor != DefaultThrottleFloor {
		t.Errorf("ThrottleFloor = %v, want %v", cfg.ThrottleFloor, DefaultThrottleFloor)
	}
	if cfg.Timeout <= 0 {
		t.Errorf("Timeout = %v, should be > 0", cfg.Timeout)
	}
}

func TestDo_AuthorizationHeader(t *testing.T) {
	mock := testutil.NewMockReader()
	defer mock.Close()
	mock.SetResponse("/auth/", testutil.MockResponse{StatusCode: http.StatusNoContent})

	client := newTestClient(t, mock.URL())
	if _, err := client.AuthCheck(context.Background()); err != nil {
		t.Fatalf("AuthCheck() failed: %v", err)
	}

	if mock.LastAuthHeader != "Token test-token" {
		t.Errorf("Authorization = %q, want %q", mock.LastAuthHeader, "Token test-token")
	}
}

func TestAuthCheck(t *testing.T) {
	tests := []struct {
		name        string
		statusCode  int
		expectValid bool
		expectError bool
	}{
		{"valid token", http.StatusNoContent, true, false},
		{"unauthorized", http.StatusUnauthorized, false, false},
		{"forbidden", http.StatusForbidden, false, false},
		{"server error", http.StatusInternalServerError, false, true},
		{"unexpected success status", http.StatusOK, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := testutil.NewMockReader()
			defer mock.Close()
			mock.SetResponse("/auth/", testutil.MockResponse{StatusCode: tt.statusCode})

			client := newTestClient(t, mock.URL())
			valid, err := client.AuthCheck(context.Background())

			if tt.expectError {
				if err == nil {
					t.Error("Expected error but got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if valid != tt.expectValid {
				t.Errorf("AuthCheck() = %v, want %v", valid, tt.expectValid)
			}
		})
	}
}

func TestDo_StatusErrorTaxonomy(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
		check      func(t *testing.T, err error)
	}{
		{
			name:       "400 client error carries body",
			statusCode: http.StatusBadRequest,
			check: func(t *testing.T, err error) {
				var clientErr *ClientError
				if !errors.As(err, &clientErr) {
					t.Fatalf("Expected *ClientError, got %T", err)
				}
				if clientErr.StatusCode != http.StatusBadRequest {
					t.Errorf("StatusCode = %d, want 400", clientErr.StatusCode)
				}
				if clientErr.Body == "" {
					t.Error("Expected body to be carried")
				}
			},
		},
		{
			name:       "500 server error",
			statusCode: http.StatusInternalServerError,
			check: func(t *testing.T, err error) {
				var serverErr *ServerError
				if !errors.As(err, &serverErr) {
					t.Fatalf("Expected *ServerError, got %T", err)
				}
			},
		},
		{
			name:       "401 auth error",
			statusCode: http.StatusUnauthorized,
			check: func(t *testing.T, err error) {
				var authErr *AuthError
				if !errors.As(err, &authErr) {
					t.Fatalf("Expected *AuthError, got %T", err)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := testutil.NewMockReader()
			defer mock.Close()
			mock.SetResponse("/list/", testutil.MockResponse{
				StatusCode: tt.statusCode,
				Body:       `{"detail": "nope"}`,
			})

			client := newTestClient(t, mock.URL())
			_, err := client.List(context.Background(), ListingFilter{})
			if err == nil {
				t.Fatal("Expected error but got nil")
			}
			tt.check(t, err)
		})
	}
}

func TestDo_TransportError(t *testing.T) {
	mock := testutil.NewMockReader()
	baseURL := mock.URL()
	mock.Close() // connection refused from here on

	client := newTestClient(t, baseURL)
	_, err := client.List(context.Background(), ListingFilter{})

	var transportErr *TransportError
	if !errors.As(err, &transportErr) {
		t.Fatalf("Expected *TransportError, got %v", err)
	}
}

func TestRetryAfter(t *testing.T) {
	client := newTestClient(t, "http://unused")

	tests := []struct {
		name     string
		header   string
		expected time.Duration
	}{
		{"numeric seconds", "5", 5 * time.Second},
		{"missing header", "", client.throttleFloor},
		{"non-numeric", "soon", client.throttleFloor},
		{"zero", "0", client.throttleFloor},
		{"negative", "-3", client.throttleFloor},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := http.Header{}
			if tt.header != "" {
				h.Set("Retry-After", tt.header)
			}
			if got := client.retryAfter(h); got != tt.expected {
				t.Errorf("retryAfter() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestDo_RateLimitCarriesRetryAfter(t *testing.T) {
	mock := testutil.NewMockReader()
	defer mock.Close()
	mock.SetResponse("/list/", testutil.MockResponse{
		StatusCode: http.StatusTooManyRequests,
		Headers:    map[string]string{"Retry-After": "7"},
	})

	client := newTestClient(t, mock.URL())
	_, err := client.List(context.Background(), ListingFilter{}) // retry disabled

	var rle *RateLimitError
	if !errors.As(err, &rle) {
		t.Fatalf("Expected *RateLimitError, got %v", err)
	}
	if rle.RetryAfter != 7*time.Second {
		t.Errorf("RetryAfter = %v, want 7s", rle.RetryAfter)
	}
	if mock.GetRequestCount() != 1 {
		t.Errorf("Request count = %d, want 1 (no retry when disabled)", mock.GetRequestCount())
	}
}
