package broker

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

func TestInjectTraceContext_CarriesTraceparent(t *testing.T) {
	otel.SetTextMapPropagator(propagation.TraceContext{})
	tp := sdktrace.NewTracerProvider()
	defer tp.Shutdown(context.Background())

	ctx, span := tp.Tracer("test").Start(context.Background(), "publish")
	defer span.End()

	headers := InjectTraceContext(ctx)

	require.Contains(t, headers, "traceparent")
	traceparent, ok := headers["traceparent"].(string)
	require.True(t, ok)
	assert.Contains(t, traceparent, span.SpanContext().TraceID().String())
	assert.Contains(t, traceparent, span.SpanContext().SpanID().String())
}

func TestInjectTraceContext_NoSpan(t *testing.T) {
	otel.SetTextMapPropagator(propagation.TraceContext{})

	assert.Empty(t, InjectTraceContext(context.Background()))
}

func TestAMQPHeadersCarrier_IgnoresNonStringValues(t *testing.T) {
	c := &AMQPHeadersCarrier{headers: map[string]interface{}{
		"x-retry-count": int64(2),
		"traceparent":   "00-abc",
	}}

	assert.Equal(t, "", c.Get("x-retry-count"))
	assert.Equal(t, "00-abc", c.Get("traceparent"))
	assert.ElementsMatch(t, []string{"x-retry-count", "traceparent"}, c.Keys())
}
