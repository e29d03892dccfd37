// Package testutil provides testing utilities for the Reader client.
package testutil

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"time"
)

// MockResponse defines the behavior for a mock Reader endpoint response.
type MockResponse struct {
	StatusCode int
	Body       string
	Headers    map[string]string
	Delay      time.Duration
}

// MockReader is a configurable mock Reader API server for testing.
type MockReader struct {
	server   *httptest.Server
	mu       sync.RWMutex
	handlers map[string]http.HandlerFunc

	// Tracking
	RequestCount   int
	ListQueries    []url.Values
	LastAuthHeader string
}

// NewMockReader creates a new mock Reader API server.
func NewMockReader() *MockReader {
	mock := &MockReader{
		handlers: make(map[string]http.HandlerFunc),
	}

	mock.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mock.mu.Lock()
		mock.RequestCount++
		mock.LastAuthHeader = r.Header.Get("Authorization")
		if r.URL.Path == "/list/" {
			mock.ListQueries = append(mock.ListQueries, r.URL.Query())
		}
		mock.mu.Unlock()

		mock.mu.RLock()
		handler, exists := mock.handlers[r.URL.Path]
		mock.mu.RUnlock()

		if exists {
			handler(w, r)
			return
		}

		mock.defaultHandler(w, r)
	}))

	return mock
}

// URL returns the mock server URL.
func (m *MockReader) URL() string {
	return m.server.URL
}

// Close shuts down the mock server.
func (m *MockReader) Close() {
	m.server.Close()
}

// Reset clears all tracking state.
func (m *MockReader) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RequestCount = 0
	m.ListQueries = nil
	m.LastAuthHeader = ""
}

// SetHandler sets a custom handler for a specific path.
func (m *MockReader) SetHandler(path string, handler http.HandlerFunc) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers[path] = handler
}

// SetResponse configures a simple response for a path.
func (m *MockReader) SetResponse(path string, resp MockResponse) {
	m.SetHandler(path, func(w http.ResponseWriter, r *http.Request) {
		if resp.Delay > 0 {
			time.Sleep(resp.Delay)
		}
		for key, value := range resp.Headers {
			w.Header().Set(key, value)
		}
		w.WriteHeader(resp.StatusCode)
		if resp.Body != "" {
			w.Write([]byte(resp.Body))
		}
	})
}

// SetListPages serves /list/ as a cursor-paginated sequence. Keys are the
// pageCursor values ("" selects the first page) and values are the raw JSON
// page bodies. Unknown cursors answer 400.
func (m *MockReader) SetListPages(pages map[string]string) {
	m.SetHandler("/list/", func(w http.ResponseWriter, r *http.Request) {
		body, ok := pages[r.URL.Query().Get("pageCursor")]
		if !ok {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"detail": "unknown cursor"}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(body))
	})
}

// ThrottleOnce wraps the current handling of a path so that the first
// request answers 429 with the given Retry-After value and all subsequent
// requests fall through to the normal handler.
func (m *MockReader) ThrottleOnce(path, retryAfter string) {
	m.mu.RLock()
	inner, hasInner := m.handlers[path]
	m.mu.RUnlock()

	throttled := false
	var mu sync.Mutex
	m.SetHandler(path, func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		first := !throttled
		throttled = true
		mu.Unlock()

		if first {
			if retryAfter != "" {
				w.Header().Set("Retry-After", retryAfter)
			}
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		if hasInner {
			inner(w, r)
			return
		}
		m.defaultHandler(w, r)
	})
}

// GetRequestCount returns the number of requests made to the server.
func (m *MockReader) GetRequestCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.RequestCount
}

// defaultHandler answers paths with no configured handler.
func (m *MockReader) defaultHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusNotFound)
	w.Write([]byte(`{"detail": "not found"}`))
}
