package main

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// TelemetryMiddleware annotates the active span around every service call.
type TelemetryMiddleware struct {
	next PaymentService
}

func NewTelemetryMiddleware(next PaymentService) PaymentService {
	return &TelemetryMiddleware{next}
}

func (s *TelemetryMiddleware) CreateCheckoutSession(ctx context.Context, req ProductRequest) (*StripeResponse, error) {
	span := trace.SpanFromContext(ctx)
	span.AddEvent("CreateCheckoutSession", trace.WithAttributes(
		attribute.Int64("amount", req.Amount),
		attribute.String("currency", resolveCurrency(req.Currency)),
	))

	resp, err := s.next.CreateCheckoutSession(ctx, req)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	span.SetAttributes(attribute.String("stripe.session_id", resp.SessionID))
	return resp, nil
}

func (s *TelemetryMiddleware) GetBalance(ctx context.Context) (*BalanceDTO, error) {
	span := trace.SpanFromContext(ctx)
	span.AddEvent("GetBalance")

	balance, err := s.next.GetBalance(ctx)
	if err != nil {
		span.RecordError(err)
	}
	return balance, err
}
