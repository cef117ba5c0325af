package processor

import (
	"context"
	"fmt"

	"github.com/stripe/stripe-go/v78"
	"github.com/stripe/stripe-go/v78/client"
)

const paymentMethodCard = "card"

type StripeConfig struct {
	APIKey string
	// APIURL overrides the API base URL (stripe-mock, tests). Empty means api.stripe.com.
	APIURL string
	// MaxNetworkRetries only applies together with APIURL.
	MaxNetworkRetries int64
}

// Stripe talks to the Stripe API through a per-instance client, so several
// keys can coexist in one process.
type Stripe struct {
	client *client.API
}

func NewStripeProcessor(cfg StripeConfig) *Stripe {
	var backends *stripe.Backends
	if cfg.APIURL != "" {
		backend := stripe.GetBackendWithConfig(stripe.APIBackend, &stripe.BackendConfig{
			URL:               stripe.String(cfg.APIURL),
			MaxNetworkRetries: stripe.Int64(cfg.MaxNetworkRetries),
			LeveledLogger:     &stripe.LeveledLogger{Level: stripe.LevelNull},
		})
		backends = &stripe.Backends{API: backend, Connect: backend, Uploads: backend}
	}

	return &Stripe{
		client: client.New(cfg.APIKey, backends),
	}
}

// CreateCheckoutSession creates a hosted payment page (POST /v1/checkout/sessions).
func (s *Stripe) CreateCheckoutSession(ctx context.Context, p SessionParams) (*Session, error) {
	params := newCheckoutSessionParams(p)
	params.Context = ctx
	if p.IdempotencyKey != "" {
		params.SetIdempotencyKey(p.IdempotencyKey)
	}

	result, err := s.client.CheckoutSessions.New(params)
	if err != nil {
		return nil, fmt.Errorf("failed to create stripe session: %w", err)
	}

	return &Session{
		ID:  result.ID,
		URL: result.URL,
	}, nil
}

// GetBalance retrieves the account balance (GET /v1/balance) and keeps the
// first available entry.
func (s *Stripe) GetBalance(ctx context.Context) (*Balance, error) {
	params := &stripe.BalanceParams{}
	params.Context = ctx

	result, err := s.client.Balance.Get(params)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve stripe balance: %w", err)
	}

	if len(result.Available) == 0 || result.Available[0] == nil {
		return nil, ErrNoAvailableBalance
	}

	first := result.Available[0]
	return &Balance{
		Currency: string(first.Currency),
		Amount:   first.Amount,
		LiveMode: result.Livemode,
	}, nil
}

func newCheckoutSessionParams(p SessionParams) *stripe.CheckoutSessionParams {
	return &stripe.CheckoutSessionParams{
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		PaymentMethodTypes: stripe.StringSlice([]string{paymentMethodCard}),
		SuccessURL:         stripe.String(p.SuccessURL),
		CancelURL:          stripe.String(p.CancelURL),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Quantity: stripe.Int64(p.Quantity),
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripe.String(p.Currency),
					UnitAmount: stripe.Int64(p.UnitAmount),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(p.ProductName),
					},
				},
			},
		},
	}
}

var _ PaymentProcessor = (*Stripe)(nil)
