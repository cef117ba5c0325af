package main

import (
	"context"
	"log/slog"
	"math"
	"time"

	"github.com/intelliDean/Stripe-Payment/common/metrics"
	"github.com/intelliDean/Stripe-Payment/payments/processor"
)

const (
	defaultCurrency = "USD"
	minorUnitFactor = 100

	sessionCreatedMessage = "Payment session created successfully"
)

// CheckoutConfig holds the static parts of every checkout session.
type CheckoutConfig struct {
	SuccessURL string
	CancelURL  string
	AppName    string
}

type service struct {
	processor processor.PaymentProcessor
	checkout  CheckoutConfig
	cache     BalanceCache
	metrics   *metrics.PaymentMetrics
	logger    *slog.Logger
	now       func() time.Time
}

// NewService wires the provider adapter. cache may be nil.
func NewService(
	processor processor.PaymentProcessor,
	checkout CheckoutConfig,
	cache BalanceCache,
	metrics *metrics.PaymentMetrics,
	logger *slog.Logger,
) *service {
	return &service{
		processor: processor,
		checkout:  checkout,
		cache:     cache,
		metrics:   metrics,
		logger:    logger,
		now:       time.Now,
	}
}

// CreateCheckoutSession creates a one-item hosted checkout for req.
// Each call carries a fresh idempotency key so SDK-level retries of the same
// call cannot create a second session.
func (s *service) CreateCheckoutSession(ctx context.Context, req ProductRequest) (*StripeResponse, error) {
	// ⭐ Amounts arrive in major units (10 = 10.00), Stripe wants minor units
	// → anything that would overflow after ×100 is rejected like a zero amount
	if req.Amount <= 0 || req.Amount > math.MaxInt64/minorUnitFactor {
		return nil, ErrInvalidAmount
	}

	params := s.sessionParams(req)

	start := s.now()
	session, err := s.processor.CreateCheckoutSession(ctx, params)
	s.metrics.ObserveStripeCall("checkout_session.create", s.now().Sub(start))
	if err != nil {
		s.metrics.CheckoutSessionsFailed.Inc()
		s.logger.Error("stripe checkout session failed",
			slog.String("idempotency_key", params.IdempotencyKey),
			slog.Any("error", err),
		)
		return nil, &ProviderError{Op: "create checkout session", Err: err}
	}

	s.metrics.CheckoutSessionsCreated.Inc()
	s.logger.Info("checkout session created",
		slog.String("session_id", session.ID),
		slog.String("currency", params.Currency),
		slog.Int64("unit_amount", params.UnitAmount),
	)

	return &StripeResponse{
		Status:     statusLine(201),
		Message:    sessionCreatedMessage,
		SessionID:  session.ID,
		SessionURL: session.URL,
	}, nil
}

func (s *service) sessionParams(req ProductRequest) processor.SessionParams {
	return processor.SessionParams{
		Currency:       resolveCurrency(req.Currency),
		UnitAmount:     req.Amount * minorUnitFactor,
		Quantity:       1,
		ProductName:    s.checkout.AppName,
		SuccessURL:     s.checkout.SuccessURL,
		CancelURL:      s.checkout.CancelURL,
		IdempotencyKey: newIdempotencyKey(s.now()),
	}
}

// resolveCurrency keeps the caller's spelling; only a missing value is defaulted.
func resolveCurrency(currency string) string {
	if currency == "" {
		return defaultCurrency
	}
	return currency
}

// GetBalance returns the first available balance entry, served from the
// cache when one is configured and warm.
func (s *service) GetBalance(ctx context.Context) (*BalanceDTO, error) {
	if s.cache != nil {
		cached, err := s.cache.Get(ctx)
		if err != nil {
			s.logger.Warn("balance cache read failed", slog.Any("error", err))
		} else if cached != nil {
			return cached, nil
		}
	}

	start := s.now()
	balance, err := s.processor.GetBalance(ctx)
	s.metrics.ObserveStripeCall("balance.get", s.now().Sub(start))
	if err != nil {
		s.logger.Error("stripe balance retrieval failed", slog.Any("error", err))
		return nil, &ProviderError{Op: "retrieve balance", Err: err}
	}

	dto := &BalanceDTO{
		Currency:        balance.Currency,
		AvailableAmount: balance.Amount,
		LiveMode:        balance.LiveMode,
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, dto); err != nil {
			s.logger.Warn("balance cache write failed", slog.Any("error", err))
		}
	}

	return dto, nil
}

var _ PaymentService = (*service)(nil)
