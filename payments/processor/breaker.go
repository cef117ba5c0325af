package processor

import (
	"context"
	"log/slog"
	"time"

	"github.com/sony/gobreaker/v2"
)

// BreakerSettings tunes the circuit breakers wrapped around the provider.
type BreakerSettings struct {
	// ConsecutiveFailures trips the breaker.
	ConsecutiveFailures uint32
	// OpenTimeout is how long the breaker stays open before probing again.
	OpenTimeout time.Duration
}

func DefaultBreakerSettings() BreakerSettings {
	return BreakerSettings{
		ConsecutiveFailures: 5,
		OpenTimeout:         30 * time.Second,
	}
}

// BreakerProcessor fails fast while the provider keeps failing.
// Requests the provider rejected as invalid do not count as failures.
type BreakerProcessor struct {
	next     PaymentProcessor
	sessions *gobreaker.CircuitBreaker[*Session]
	balance  *gobreaker.CircuitBreaker[*Balance]
}

func NewBreakerProcessor(next PaymentProcessor, settings BreakerSettings, log *slog.Logger) *BreakerProcessor {
	return &BreakerProcessor{
		next:     next,
		sessions: gobreaker.NewCircuitBreaker[*Session](breakerSettings("stripe.checkout_sessions", settings, log)),
		balance:  gobreaker.NewCircuitBreaker[*Balance](breakerSettings("stripe.balance", settings, log)),
	}
}

func (b *BreakerProcessor) CreateCheckoutSession(ctx context.Context, params SessionParams) (*Session, error) {
	return b.sessions.Execute(func() (*Session, error) {
		return b.next.CreateCheckoutSession(ctx, params)
	})
}

func (b *BreakerProcessor) GetBalance(ctx context.Context) (*Balance, error) {
	return b.balance.Execute(func() (*Balance, error) {
		return b.next.GetBalance(ctx)
	})
}

func breakerSettings(name string, s BreakerSettings, log *slog.Logger) gobreaker.Settings {
	return gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Timeout:     s.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= s.ConsecutiveFailures
		},
		// Why count 4xx as success?
		// → A bad currency is the caller's fault, Stripe itself is healthy
		// → Only outages and 429s should open the circuit
		IsSuccessful: func(err error) bool {
			return err == nil || isClientError(err)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("circuit breaker state changed",
				slog.String("breaker", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()),
			)
		},
	}
}

var _ PaymentProcessor = (*BreakerProcessor)(nil)
