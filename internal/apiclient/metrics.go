package apiclient

import (
	"strconv"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics captures outbound request health signals.
type Metrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

var (
	metricsOnce sync.Once
	metrics     *Metrics
)

// DefaultMetrics returns the singleton client metrics registry.
func DefaultMetrics() *Metrics {
	metricsOnce.Do(func() {
		metrics = NewMetrics(prometheus.DefaultRegisterer)
	})
	return metrics
}

// ResetMetricsForTest resets the metrics singleton for tests.
func ResetMetricsForTest() {
	metricsOnce = sync.Once{}
	metrics = nil
}

func NewMetrics(registerer prometheus.Registerer) *Metrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "lumicrm_client_requests_total",
		Help: "Outbound API requests by resource, method and status code.",
	}, []string{"resource", "method", "code"})

	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "lumicrm_client_request_duration_seconds",
		Help:    "Outbound API request latency.",
		Buckets: prometheus.DefBuckets,
	}, []string{"resource", "method"})

	registerer.MustRegister(requests, duration)

	return &Metrics{
		requests: requests,
		duration: duration,
	}
}

func (m *Metrics) observe(resource, method string, code int, seconds float64) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(resource, method, strconv.Itoa(code)).Inc()
	m.duration.WithLabelValues(resource, method).Observe(seconds)
}
