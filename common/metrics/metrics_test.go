package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestHTTPMetrics_RecordHTTPRequest(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewHTTPMetrics(reg, "payment")

	m.RecordHTTPRequest("POST", "/product/v1/checkout", "201", 20*time.Millisecond)
	m.RecordHTTPRequest("POST", "/product/v1/checkout", "201", 30*time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.RequestsTotal.WithLabelValues("POST", "/product/v1/checkout", "201")))
}

func TestPaymentMetrics_RecordWebhookEvent(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewPaymentMetrics(reg, "payment")

	m.RecordWebhookEvent("customer.created")
	m.RecordWebhookEvent("foo.bar")
	m.RecordWebhookEvent("customer.created")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.WebhookEvents.WithLabelValues("customer.created")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.WebhookEvents.WithLabelValues("foo.bar")))
}

func TestNewPaymentMetrics_SeparateRegistries(t *testing.T) {
	// promauto.With on distinct registries must not collide.
	assert.NotPanics(t, func() {
		NewPaymentMetrics(prometheus.NewRegistry(), "payment")
		NewPaymentMetrics(prometheus.NewRegistry(), "payment")
	})
}
