package broker

import (
	"context"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.opentelemetry.io/otel"
)

// InjectTraceContext returns AMQP headers carrying the trace context of ctx.
// RabbitMQ has no automatic propagation, so publishers attach it by hand.
//
// Usage:
//
//	ch.PublishWithContext(ctx, exchange, "", false, false, amqp.Publishing{
//	    Headers: broker.InjectTraceContext(ctx),
//	    Body:    body,
//	})
func InjectTraceContext(ctx context.Context) amqp.Table {
	headers := make(amqp.Table)
	otel.GetTextMapPropagator().Inject(ctx, &AMQPHeadersCarrier{headers: headers})
	return headers
}

// AMQPHeadersCarrier adapts amqp.Table to propagation.TextMapCarrier.
type AMQPHeadersCarrier struct {
	headers amqp.Table
}

func (c *AMQPHeadersCarrier) Get(key string) string {
	if val, ok := c.headers[key]; ok {
		if str, ok := val.(string); ok {
			return str
		}
	}
	return ""
}

func (c *AMQPHeadersCarrier) Set(key, value string) {
	c.headers[key] = value
}

func (c *AMQPHeadersCarrier) Keys() []string {
	keys := make([]string, 0, len(c.headers))
	for k := range c.headers {
		keys = append(keys, k)
	}
	return keys
}
