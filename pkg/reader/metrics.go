package reader

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics for Reader client operations.
var (
	readerRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "reader_requests_total",
		Help: "Total Reader API requests by endpoint and status",
	}, []string{"endpoint", "status"})

	readerRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "reader_request_duration_seconds",
		Help:    "Reader API request duration in seconds by endpoint",
		Buckets: []float64{0.1, 0.5, 1, 2, 5, 10},
	}, []string{"endpoint"})

	readerErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "reader_errors_total",
		Help: "Total Reader API errors by class",
	}, []string{"class"})

	readerThrottleWaitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "reader_throttle_waits_total",
		Help: "Total number of waits caused by 429 throttle responses",
	})

	readerThrottleWaitSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "reader_throttle_wait_seconds",
		Help:    "Wait duration honored after 429 throttle responses",
		Buckets: []float64{1, 5, 10, 30, 60, 120, 300},
	})
)
