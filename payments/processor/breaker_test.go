package processor

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v78"

	"github.com/intelliDean/Stripe-Payment/common/logger"
)

type fakeProcessor struct {
	calls int
	err   error
}

func (f *fakeProcessor) CreateCheckoutSession(ctx context.Context, params SessionParams) (*Session, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &Session{ID: "cs_test_1"}, nil
}

func (f *fakeProcessor) GetBalance(ctx context.Context) (*Balance, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &Balance{Currency: "usd", Amount: 500}, nil
}

func testSettings() BreakerSettings {
	return BreakerSettings{ConsecutiveFailures: 3, OpenTimeout: time.Minute}
}

func TestBreakerProcessor_OpensAfterConsecutiveFailures(t *testing.T) {
	next := &fakeProcessor{err: errors.New("connection reset")}
	b := NewBreakerProcessor(next, testSettings(), logger.Discard())

	for i := 0; i < 3; i++ {
		_, err := b.GetBalance(context.Background())
		require.Error(t, err)
	}

	_, err := b.GetBalance(context.Background())
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.Equal(t, 3, next.calls, "open breaker must not reach the provider")
}

func TestBreakerProcessor_ClientErrorsDoNotTrip(t *testing.T) {
	next := &fakeProcessor{err: &stripe.Error{HTTPStatusCode: http.StatusBadRequest, Msg: "Invalid currency"}}
	b := NewBreakerProcessor(next, testSettings(), logger.Discard())

	for i := 0; i < 5; i++ {
		_, err := b.CreateCheckoutSession(context.Background(), SessionParams{})
		require.Error(t, err)
		assert.NotErrorIs(t, err, gobreaker.ErrOpenState)
	}
	assert.Equal(t, 5, next.calls)
}

func TestBreakerProcessor_BreakersAreIndependent(t *testing.T) {
	next := &fakeProcessor{err: errors.New("timeout")}
	b := NewBreakerProcessor(next, testSettings(), logger.Discard())

	for i := 0; i < 3; i++ {
		b.GetBalance(context.Background())
	}

	next.err = nil
	sess, err := b.CreateCheckoutSession(context.Background(), SessionParams{})
	require.NoError(t, err)
	assert.Equal(t, "cs_test_1", sess.ID)
}
