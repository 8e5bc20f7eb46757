package observability

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus collectors for the storefront. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	registry        *prometheus.Registry
	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	errors          *prometheus.CounterVec
	qrRenders       *prometheus.CounterVec
	signOutFailures prometheus.Counter
	sessions        *prometheus.CounterVec
}

// NewMetrics registers collectors on a private registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "storefront_http_requests_total",
			Help: "HTTP requests by route, method and status.",
		}, []string{"route", "method", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "storefront_http_request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "method"}),
		errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "storefront_http_errors_total",
			Help: "Error responses by route, method and error code.",
		}, []string{"route", "method", "code"}),
		qrRenders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "storefront_qr_renders_total",
			Help: "QR render attempts by strategy and outcome.",
		}, []string{"strategy", "outcome"}),
		signOutFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "storefront_identity_signout_failures_total",
			Help: "External sign-out calls that failed or timed out.",
		}),
		sessions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "storefront_sessions_total",
			Help: "Session lifecycle transitions.",
		}, []string{"event"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.requests,
		m.requestDuration,
		m.errors,
		m.qrRenders,
		m.signOutFailures,
		m.sessions,
	)
	return m
}

// RecordRequest counts a finished request.
func (m *Metrics) RecordRequest(route, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(route, method).Observe(duration.Seconds())
}

// RecordError counts an error response.
func (m *Metrics) RecordError(route, method, code string) {
	if m == nil {
		return
	}
	m.errors.WithLabelValues(route, method, code).Inc()
}

// RecordQRRender counts a render by strategy; ok=false means the caller fell back.
func (m *Metrics) RecordQRRender(strategy string, ok bool) {
	if m == nil {
		return
	}
	outcome := "ok"
	if !ok {
		outcome = "fallback"
	}
	m.qrRenders.WithLabelValues(strategy, outcome).Inc()
}

// RecordSignOutFailure counts a failed or timed out external sign-out.
func (m *Metrics) RecordSignOutFailure() {
	if m == nil {
		return
	}
	m.signOutFailures.Inc()
}

// RecordSession counts a session lifecycle event such as "started" or "ended".
func (m *Metrics) RecordSession(event string) {
	if m == nil {
		return
	}
	m.sessions.WithLabelValues(event).Inc()
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
