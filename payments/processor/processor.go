package processor

import (
	"context"
	"errors"

	"github.com/stripe/stripe-go/v78"
)

// PaymentProcessor is everything the relay needs from the payment provider.
type PaymentProcessor interface {
	CreateCheckoutSession(ctx context.Context, params SessionParams) (*Session, error)
	GetBalance(ctx context.Context) (*Balance, error)
}

// SessionParams describes a single-line-item hosted checkout.
// UnitAmount is in minor currency units.
type SessionParams struct {
	Currency       string
	UnitAmount     int64
	Quantity       int64
	ProductName    string
	SuccessURL     string
	CancelURL      string
	IdempotencyKey string
}

type Session struct {
	ID  string
	URL string
}

// Balance is the first available balance entry of the account.
type Balance struct {
	Currency string
	Amount   int64
	LiveMode bool
}

var ErrNoAvailableBalance = errors.New("no available balance")

// ErrorMessage returns the provider's human readable message for err,
// falling back to err.Error().
func ErrorMessage(err error) string {
	var stripeErr *stripe.Error
	if errors.As(err, &stripeErr) && stripeErr.Msg != "" {
		return stripeErr.Msg
	}
	return err.Error()
}

// isClientError reports whether the provider rejected the request itself
// (bad currency, bad amount...) rather than failing to serve it.
func isClientError(err error) bool {
	var stripeErr *stripe.Error
	if !errors.As(err, &stripeErr) {
		return false
	}
	code := stripeErr.HTTPStatusCode
	return code >= 400 && code < 500 && code != 429
}
