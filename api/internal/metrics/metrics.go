// Package metrics provides Prometheus metrics for the gateway.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Upstream call outcomes.
const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)

// Manager owns the gateway metrics and the registry they live on.
type Manager struct {
	namespace string
	buckets   []float64
	registry  *prometheus.Registry

	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	upstreamCalls       *prometheus.CounterVec
	upstreamLatency     *prometheus.HistogramVec
	uploadBytes         *prometheus.HistogramVec
}

// Option applies a configuration option to the Manager.
type Option func(*Manager)

// WithNamespace sets the namespace for all metrics.
func WithNamespace(namespace string) Option {
	return func(m *Manager) {
		if namespace != "" {
			m.namespace = namespace
		}
	}
}

// WithHistogramBuckets sets custom buckets for latency histograms.
func WithHistogramBuckets(buckets []float64) Option {
	return func(m *Manager) {
		if len(buckets) > 0 {
			m.buckets = buckets
		}
	}
}

// WithRegistry registers metrics on r instead of a fresh private registry.
func WithRegistry(r *prometheus.Registry) Option {
	return func(m *Manager) {
		if r != nil {
			m.registry = r
		}
	}
}

// NewManager creates a Manager; every call gets its own registry unless
// WithRegistry is passed.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace: "gateway",
		buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		registry:  prometheus.NewRegistry(),
	}
	for _, opt := range opts {
		opt(m)
	}

	auto := promauto.With(m.registry)
	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests by endpoint, method and status code",
	}, []string{"endpoint", "method", "code"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency",
		Buckets:   m.buckets,
	}, []string{"endpoint", "method"})

	m.upstreamCalls = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "upstream_calls_total",
		Help:      "Calls to the inference service by model and outcome",
	}, []string{"model", "outcome"})

	m.upstreamLatency = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Name:      "upstream_latency_seconds",
		Help:      "Latency of calls to the inference service",
		Buckets:   m.buckets,
	}, []string{"model"})

	m.uploadBytes = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Name:      "upload_bytes",
		Help:      "Size of uploaded files",
		Buckets:   prometheus.ExponentialBuckets(1<<10, 4, 10),
	}, []string{"endpoint"})

	return m
}

// Registry exposes the underlying registry (tests gather from it).
func (m *Manager) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the Prometheus exposition format.
func (m *Manager) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Manager) RecordHTTPRequest(endpoint, method string, code int, d time.Duration) {
	m.httpRequests.WithLabelValues(endpoint, method, strconv.Itoa(code)).Inc()
	m.httpRequestDuration.WithLabelValues(endpoint, method).Observe(d.Seconds())
}

func (m *Manager) RecordUpstreamCall(model string, err error, d time.Duration) {
	outcome := OutcomeOK
	if err != nil {
		outcome = OutcomeError
	}
	m.upstreamCalls.WithLabelValues(model, outcome).Inc()
	m.upstreamLatency.WithLabelValues(model).Observe(d.Seconds())
}

func (m *Manager) ObserveUpload(endpoint string, size int) {
	m.uploadBytes.WithLabelValues(endpoint).Observe(float64(size))
}
