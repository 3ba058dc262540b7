package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// APIMetrics records request-level metadata for the HTTP surface.
type APIMetrics struct {
	duration    *prometheus.HistogramVec
	requests    *prometheus.CounterVec
	transitions *prometheus.CounterVec
}

// NewAPIMetrics registers the API metrics on the provided registerer.
func NewAPIMetrics(reg prometheus.Registerer) *APIMetrics {
	if reg == nil {
		return &APIMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "HTTP requests by method, route, and status class.",
	}, []string{"method", "route", "status"})
	transitions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "order_transitions_total",
		Help: "Order status transitions by target status and outcome.",
	}, []string{"to_status", "outcome"})
	reg.MustRegister(duration, requests, transitions)
	return &APIMetrics{
		duration:    duration,
		requests:    requests,
		transitions: transitions,
	}
}

// ObserveRequest records one completed HTTP request.
func (a *APIMetrics) ObserveRequest(method, route, status string, duration time.Duration) {
	if a == nil || a.duration == nil {
		return
	}
	a.duration.WithLabelValues(normalizeLabel(method), normalizeLabel(route)).Observe(duration.Seconds())
	a.requests.WithLabelValues(normalizeLabel(method), normalizeLabel(route), normalizeLabel(status)).Inc()
}

// IncTransition counts one order transition attempt.
func (a *APIMetrics) IncTransition(toStatus, outcome string) {
	if a == nil || a.transitions == nil {
		return
	}
	a.transitions.WithLabelValues(normalizeLabel(toStatus), normalizeLabel(outcome)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
