package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all application metrics.
type Metrics struct {
	// HTTP metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge

	// Webhook metrics
	WebhooksTotal          *prometheus.CounterVec
	WebhookDuration        *prometheus.HistogramVec
	SaleTransitionsTotal   *prometheus.CounterVec
	LockFallbacksTotal     *prometheus.CounterVec
	WebhookLogsPurgedTotal prometheus.Counter
}

// New creates a new Metrics instance registered on reg.
// A nil reg registers on the default Prometheus registry.
func New(namespace string, reg prometheus.Registerer) *Metrics {
	if namespace == "" {
		namespace = "synapse"
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		// HTTP metrics
		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),
		HTTPRequestsInFlight: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "requests_in_flight",
				Help:      "Current number of HTTP requests being processed",
			},
		),

		// Webhook metrics
		WebhooksTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "webhook",
				Name:      "received_total",
				Help:      "Total number of inbound webhooks by outcome",
			},
			[]string{"platform", "event_type", "status"},
		),
		WebhookDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "webhook",
				Name:      "processing_duration_seconds",
				Help:      "Webhook processing duration in seconds",
				Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
			},
			[]string{"platform"},
		),
		SaleTransitionsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "sale",
				Name:      "transitions_total",
				Help:      "Total number of sale status transitions",
			},
			[]string{"from", "to"},
		),
		LockFallbacksTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "lock",
				Name:      "fallbacks_total",
				Help:      "Total number of distributed lock acquisitions served by the local locker",
			},
			[]string{"reason"},
		),
		WebhookLogsPurgedTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "webhook",
				Name:      "logs_purged_total",
				Help:      "Total number of webhook audit rows removed by retention",
			},
		),
	}
}

// --- Convenience methods ---

// RecordHTTPRequest records an HTTP request.
func (m *Metrics) RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	statusStr := statusCodeToString(status)
	m.HTTPRequestsTotal.WithLabelValues(method, path, statusStr).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordWebhook records one processed webhook.
func (m *Metrics) RecordWebhook(platform, eventType, status string, duration time.Duration) {
	m.WebhooksTotal.WithLabelValues(platform, eventType, status).Inc()
	m.WebhookDuration.WithLabelValues(platform).Observe(duration.Seconds())
}

// RecordSaleTransition records a sale status change.
func (m *Metrics) RecordSaleTransition(from, to string) {
	m.SaleTransitionsTotal.WithLabelValues(from, to).Inc()
}

// RecordLockFallback records a lock served by the local locker.
func (m *Metrics) RecordLockFallback(reason string) {
	m.LockFallbacksTotal.WithLabelValues(reason).Inc()
}

// RecordLogsPurged records audit rows deleted by retention.
func (m *Metrics) RecordLogsPurged(n int64) {
	if n > 0 {
		m.WebhookLogsPurgedTotal.Add(float64(n))
	}
}

// statusCodeToString converts an HTTP status code to a string category.
func statusCodeToString(code int) string {
	switch {
	case code >= 200 && code < 300:
		return "2xx"
	case code >= 300 && code < 400:
		return "3xx"
	case code >= 400 && code < 500:
		return "4xx"
	case code >= 500:
		return "5xx"
	default:
		return "unknown"
	}
}
