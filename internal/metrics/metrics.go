// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "topten"

// Metrics owns a registry and the application collectors.
// Each instance has its own registry, so tests can create as many as they like.
type Metrics struct {
	Registry *prometheus.Registry

	httpInFlight prometheus.Gauge
	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec

	persistWrites  *prometheus.CounterVec
	persistPending prometheus.Gauge

	suggestLookups  *prometheus.CounterVec
	suggestDuration *prometheus.HistogramVec
}

// New creates and registers all collectors.
func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),

		httpInFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "inflight_requests",
			Help:      "Current number of in-flight HTTP requests.",
		}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 12),
		}, []string{"method", "route"}),

		persistWrites: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "persist",
			Name:      "writes_total",
			Help:      "Background store writes by key and result.",
		}, []string{"key", "result"}),
		persistPending: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "persist",
			Name:      "pending",
			Help:      "Snapshots waiting to be written.",
		}),

		suggestLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "suggest",
			Name:      "lookups_total",
			Help:      "Suggestion lookups by backend and outcome.",
		}, []string{"backend", "outcome"}),
		suggestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "suggest",
			Name:      "backend_duration_seconds",
			Help:      "Latency of suggestion backend calls.",
			Buckets:   prometheus.ExponentialBuckets(0.01, 2, 10),
		}, []string{"backend"}),
	}

	m.Registry.MustRegister(
		m.httpInFlight,
		m.httpRequests,
		m.httpDuration,
		m.persistWrites,
		m.persistPending,
		m.suggestLookups,
		m.suggestDuration,
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewGoCollector(),
	)

	return m
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}

// HTTPStarted marks a request as in flight. The returned func records completion.
func (m *Metrics) HTTPStarted() func(method, route string, status int) {
	if m == nil {
		return func(string, string, int) {}
	}
	start := time.Now()
	m.httpInFlight.Inc()
	return func(method, route string, status int) {
		m.httpInFlight.Dec()
		m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
		m.httpDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
	}
}

// PersistWrite records the result of a background write ("ok", "retry", "failed", "superseded").
func (m *Metrics) PersistWrite(key, result string) {
	if m == nil {
		return
	}
	m.persistWrites.WithLabelValues(key, result).Inc()
}

// PersistPending sets the number of queued snapshots.
func (m *Metrics) PersistPending(n int) {
	if m == nil {
		return
	}
	m.persistPending.Set(float64(n))
}

// SuggestLookup records a suggestion lookup outcome ("hit", "miss", "error", "empty", "static").
func (m *Metrics) SuggestLookup(backend, outcome string) {
	if m == nil {
		return
	}
	m.suggestLookups.WithLabelValues(backend, outcome).Inc()
}

// SuggestBackendDuration observes one outbound backend call.
func (m *Metrics) SuggestBackendDuration(backend string, d time.Duration) {
	if m == nil {
		return
	}
	m.suggestDuration.WithLabelValues(backend).Observe(d.Seconds())
}
