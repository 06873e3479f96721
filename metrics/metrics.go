// Package metrics provides Prometheus metrics for the gateway.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Auth failure reasons recorded on the failure counter.
const (
	ReasonMissingToken = "missing_token"
	ReasonRevoked      = "revoked"
	ReasonInvalidToken = "invalid_token"
	ReasonBadPassword  = "bad_password"
	ReasonDenied       = "denied"
)

// Metrics holds the gateway's Prometheus metrics. All methods are safe on a
// nil or disabled instance.
type Metrics struct {
	enabled  bool
	registry *prometheus.Registry

	authRequestsTotal prometheus.Counter
	authFailuresTotal *prometheus.CounterVec

	requestsTotal   *prometheus.CounterVec
	requestDuration prometheus.Histogram

	revokedTokens prometheus.GaugeFunc
}

// New creates metrics on a fresh registry. If enabled is false, returns a
// no-op instance.
func New(enabled bool) *Metrics {
	m := &Metrics{enabled: enabled}

	if !enabled {
		return m
	}

	m.registry = prometheus.NewRegistry()
	factory := promauto.With(m.registry)

	m.authRequestsTotal = factory.NewCounter(prometheus.CounterOpts{
		Name: "authgate_auth_requests_total",
		Help: "Total requests reaching the authentication gate",
	})

	m.authFailuresTotal = factory.NewCounterVec(prometheus.CounterOpts{
		Name: "authgate_auth_failures_total",
		Help: "Total authentication and authorization failures",
	}, []string{"reason"})

	m.requestsTotal = factory.NewCounterVec(prometheus.CounterOpts{
		Name: "authgate_http_requests_total",
		Help: "Total HTTP requests by method, route, and status",
	}, []string{"method", "route", "status"})

	m.requestDuration = factory.NewHistogram(prometheus.HistogramOpts{
		Name:    "authgate_http_request_duration_seconds",
		Help:    "HTTP request duration in seconds",
		Buckets: prometheus.DefBuckets,
	})

	return m
}

// RecordAuthRequest records a request reaching the authentication gate.
func (m *Metrics) RecordAuthRequest() {
	if m == nil || !m.enabled {
		return
	}
	m.authRequestsTotal.Inc()
}

// RecordAuthFailure records a failed authentication or authorization.
func (m *Metrics) RecordAuthFailure(reason string) {
	if m == nil || !m.enabled {
		return
	}
	m.authFailuresTotal.WithLabelValues(reason).Inc()
}

// RecordRequest records a completed HTTP request.
func (m *Metrics) RecordRequest(method, route, status string, durationSeconds float64) {
	if m == nil || !m.enabled {
		return
	}
	m.requestsTotal.WithLabelValues(method, route, status).Inc()
	m.requestDuration.Observe(durationSeconds)
}

// TrackRevokedTokens registers a gauge reading the revocation registry size.
func (m *Metrics) TrackRevokedTokens(size func() int) {
	if m == nil || !m.enabled {
		return
	}
	m.revokedTokens = promauto.With(m.registry).NewGaugeFunc(prometheus.GaugeOpts{
		Name: "authgate_revoked_tokens",
		Help: "Current number of revoked tokens held in the registry",
	}, func() float64 { return float64(size()) })
}

// Handler returns the exposition handler for the /metrics route, or a 404
// handler when metrics are disabled.
func (m *Metrics) Handler() http.Handler {
	if m == nil || !m.enabled {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
