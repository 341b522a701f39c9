// Package metrics exposes Prometheus counters for the ledger, the session
// service, HTTP traffic and the chart cache.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "budgetapp"

// Metrics owns a private registry so tests can create as many as they need.
type Metrics struct {
	registry *prometheus.Registry

	ledgerOps    *prometheus.CounterVec
	sessionOps   *prometheus.CounterVec
	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
	chartCache   *prometheus.CounterVec
	suspicious   *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		ledgerOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ledger_operations_total",
			Help:      "Ledger and budget operations by outcome.",
		}, []string{"operation", "result"}),
		sessionOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "session_operations_total",
			Help:      "Signup, login, profile and logout operations by outcome.",
		}, []string{"operation", "result"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route, method and status.",
		}, []string{"route", "method", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method"}),
		chartCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "chart_cache_lookups_total",
			Help:      "Rendered chart cache lookups by result.",
		}, []string{"result"}),
		suspicious: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_suspicious_requests_total",
			Help:      "Requests that look like probing, by reason.",
		}, []string{"reason"}),
	}
	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.ledgerOps,
		m.sessionOps,
		m.httpRequests,
		m.httpDuration,
		m.chartCache,
		m.suspicious,
	)
	return m
}

// LedgerEvent records a ledger operation outcome.
func (m *Metrics) LedgerEvent(op string, err error) {
	m.ledgerOps.WithLabelValues(op, result(err)).Inc()
}

// SessionEvent records a session operation outcome.
func (m *Metrics) SessionEvent(op string, err error) {
	m.sessionOps.WithLabelValues(op, result(err)).Inc()
}

// ObserveHTTP records one served request.
func (m *Metrics) ObserveHTTP(route, method string, status int, elapsed time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	m.httpRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(route, method).Observe(elapsed.Seconds())
}

// ChartCacheLookup records a chart cache hit or miss.
func (m *Metrics) ChartCacheLookup(hit bool) {
	if hit {
		m.chartCache.WithLabelValues("hit").Inc()
		return
	}
	m.chartCache.WithLabelValues("miss").Inc()
}

// SuspiciousRequest counts a request flagged by the HTTP security checks.
func (m *Metrics) SuspiciousRequest(reason string) {
	m.suspicious.WithLabelValues(reason).Inc()
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
