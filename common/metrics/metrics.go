package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTPMetrics contains HTTP-related Prometheus metrics
type HTTPMetrics struct {
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
}

// PaymentMetrics contains metrics for the Stripe relay itself
type PaymentMetrics struct {
	CheckoutSessionsCreated prometheus.Counter
	CheckoutSessionsFailed  prometheus.Counter
	WebhookEvents           *prometheus.CounterVec
	StripeAPIDuration       *prometheus.HistogramVec
}

// NewHTTPMetrics creates HTTP metrics for a service on the given registerer.
func NewHTTPMetrics(reg prometheus.Registerer, serviceName string) *HTTPMetrics {
	factory := promauto.With(reg)

	return &HTTPMetrics{
		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: serviceName + "_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    serviceName + "_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
	}
}

// NewPaymentMetrics creates the checkout/webhook metrics.
func NewPaymentMetrics(reg prometheus.Registerer, serviceName string) *PaymentMetrics {
	factory := promauto.With(reg)

	return &PaymentMetrics{
		CheckoutSessionsCreated: factory.NewCounter(
			prometheus.CounterOpts{
				Name: serviceName + "_checkout_sessions_created_total",
				Help: "Total number of checkout sessions created",
			},
		),
		CheckoutSessionsFailed: factory.NewCounter(
			prometheus.CounterOpts{
				Name: serviceName + "_checkout_sessions_failed_total",
				Help: "Total number of checkout sessions rejected by the provider",
			},
		),
		WebhookEvents: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: serviceName + "_webhook_events_total",
				Help: "Total number of verified webhook events by type",
			},
			[]string{"type"},
		),
		StripeAPIDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    serviceName + "_stripe_api_duration_seconds",
				Help:    "Stripe API call duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

// RecordHTTPRequest records an HTTP request metric
func (m *HTTPMetrics) RecordHTTPRequest(method, path, status string, duration time.Duration) {
	m.RequestsTotal.WithLabelValues(method, path, status).Inc()
	m.RequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// ObserveStripeCall records how long one provider operation took.
func (m *PaymentMetrics) ObserveStripeCall(operation string, duration time.Duration) {
	m.StripeAPIDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordWebhookEvent counts one verified webhook delivery.
func (m *PaymentMetrics) RecordWebhookEvent(eventType string) {
	m.WebhookEvents.WithLabelValues(eventType).Inc()
}
