// Package metrics documents the Prometheus metrics exposed by the Reader
// client. All metrics are defined next to the code that records them
// (pkg/reader) via promauto; this package provides the registry reference
// and the inventory.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Registry is the default Prometheus registry used by the Reader client.
// All metrics are automatically registered via promauto.
var Registry = prometheus.DefaultRegisterer

// Metrics Documentation
//
// Request Metrics (pkg/reader):
//   - reader_requests_total{endpoint, status} (Counter): Total requests by endpoint and HTTP status
//     ("transport_error" replaces the status label on connectivity failures)
//   - reader_request_duration_seconds{endpoint} (Histogram): Request duration by endpoint
//   - reader_errors_total{class} (Counter): Errors by class (auth, client, server, rate_limit, transport)
//
// Throttle Metrics (pkg/reader):
//   - reader_throttle_waits_total (Counter): Waits honored after 429 responses
//   - reader_throttle_wait_seconds (Histogram): Duration of honored waits
//
// Example Prometheus Queries:
//
//   # Request Error Rate
//   rate(reader_errors_total[5m])
//
//   # Share of requests that hit the rate limit
//   sum(rate(reader_requests_total{status="429"}[5m])) / sum(rate(reader_requests_total[5m]))
//
//   # P95 Request Latency
//   histogram_quantile(0.95, rate(reader_request_duration_seconds_bucket[5m]))
