package main

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/stripe/stripe-go/v78"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/intelliDean/Stripe-Payment/common/broker"
	"github.com/intelliDean/Stripe-Payment/common/metrics"
)

// Webhook event types the relay acts on.
const (
	EventCustomerCreated = "customer.created"
	EventChargeCaptured  = "charge.captured"
)

var errMissingObject = errors.New("event has no data object")

// Dispatcher routes verified Stripe events by type. It never fails a
// delivery: unknown types and malformed objects are logged and acknowledged
// so Stripe does not keep retrying them.
type Dispatcher struct {
	publisher EventPublisher
	metrics   *metrics.PaymentMetrics
	logger    *slog.Logger
}

func NewDispatcher(publisher EventPublisher, metrics *metrics.PaymentMetrics, logger *slog.Logger) *Dispatcher {
	if publisher == nil {
		publisher = nopPublisher{}
	}
	return &Dispatcher{
		publisher: publisher,
		metrics:   metrics,
		logger:    logger,
	}
}

func (d *Dispatcher) Dispatch(ctx context.Context, event stripe.Event) {
	eventType := string(event.Type)

	ctx, span := otel.Tracer("payment").Start(ctx, "stripe.webhook "+eventType)
	defer span.End()
	span.SetAttributes(
		attribute.String("stripe.event_id", event.ID),
		attribute.String("stripe.event_type", eventType),
	)

	d.metrics.RecordWebhookEvent(eventType)

	switch eventType {
	case EventCustomerCreated:
		d.handleCustomerCreated(ctx, event)
	case EventChargeCaptured:
		d.handleChargeCaptured(ctx, event)
	default:
		d.logger.Warn("unhandled event type",
			slog.String("event_id", event.ID),
			slog.String("event_type", eventType),
		)
	}
}

func (d *Dispatcher) handleCustomerCreated(ctx context.Context, event stripe.Event) {
	var customer stripe.Customer
	if err := decodeObject(event, &customer); err != nil || customer.Object != "customer" {
		d.logger.Error("failed to deserialize customer object",
			slog.String("event_id", event.ID),
			slog.String("object", customer.Object),
			slog.Any("error", err),
		)
		return
	}

	d.logger.Info("customer created",
		slog.String("event_id", event.ID),
		slog.String("customer_id", customer.ID),
		slog.String("object", customer.Object),
	)

	d.publish(ctx, broker.CustomerCreatedEvent, event)
}

func (d *Dispatcher) handleChargeCaptured(ctx context.Context, event stripe.Event) {
	var charge stripe.Charge
	if err := decodeObject(event, &charge); err != nil || charge.Object != "charge" {
		d.logger.Error("failed to deserialize charge object",
			slog.String("event_id", event.ID),
			slog.String("object", charge.Object),
			slog.Any("error", err),
		)
		return
	}

	d.logger.Info("charge captured",
		slog.String("event_id", event.ID),
		slog.String("charge_id", charge.ID),
		slog.String("object", charge.Object),
		slog.Int64("amount", charge.Amount),
		slog.String("currency", string(charge.Currency)),
	)

	d.publish(ctx, broker.ChargeCapturedEvent, event)
}

// publish forwards the event's data object. Failures are logged only; the
// webhook has already been accepted.
func (d *Dispatcher) publish(ctx context.Context, exchange string, event stripe.Event) {
	if err := d.publisher.Publish(ctx, exchange, event.ID, event.Data.Raw); err != nil {
		d.logger.Error("failed to publish event",
			slog.String("exchange", exchange),
			slog.String("event_id", event.ID),
			slog.Any("error", err),
		)
		return
	}

	d.logger.Debug("event published",
		slog.String("exchange", exchange),
		slog.String("event_id", event.ID),
	)
}

func decodeObject(event stripe.Event, v any) error {
	if event.Data == nil || len(event.Data.Raw) == 0 {
		return errMissingObject
	}
	return json.Unmarshal(event.Data.Raw, v)
}
