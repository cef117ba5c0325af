package main

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/intelliDean/Stripe-Payment/common/logger"
	"github.com/intelliDean/Stripe-Payment/common/metrics"
	"github.com/intelliDean/Stripe-Payment/payments/processor"
)

const testEndpointSecret = "whsec_test_secret"

// --- fakes ---

type fakeProcessor struct {
	mu           sync.Mutex
	sessionCalls []processor.SessionParams
	balanceCalls int

	session    *processor.Session
	balance    *processor.Balance
	sessionErr error
	balanceErr error
}

func (f *fakeProcessor) CreateCheckoutSession(ctx context.Context, params processor.SessionParams) (*processor.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sessionCalls = append(f.sessionCalls, params)
	if f.sessionErr != nil {
		return nil, f.sessionErr
	}
	if f.session != nil {
		return f.session, nil
	}
	return &processor.Session{ID: "cs_test_1", URL: "https://checkout.stripe.test/c/pay/cs_test_1"}, nil
}

func (f *fakeProcessor) GetBalance(ctx context.Context) (*processor.Balance, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.balanceCalls++
	if f.balanceErr != nil {
		return nil, f.balanceErr
	}
	return f.balance, nil
}

type publishedMessage struct {
	exchange  string
	messageID string
	body      []byte
}

type fakePublisher struct {
	messages []publishedMessage
	err      error
}

func (p *fakePublisher) Publish(ctx context.Context, exchange, messageID string, body []byte) error {
	if p.err != nil {
		return p.err
	}
	p.messages = append(p.messages, publishedMessage{exchange: exchange, messageID: messageID, body: body})
	return nil
}

// --- helpers ---

func newTestMetrics() *metrics.PaymentMetrics {
	return metrics.NewPaymentMetrics(prometheus.NewRegistry(), "payment")
}

func newBufferLogger(buf *bytes.Buffer) *slog.Logger {
	return logger.NewLoggerWithWriter("payment", buf, slog.LevelDebug)
}

func newTestService(p processor.PaymentProcessor, cache BalanceCache) *service {
	return NewService(p, CheckoutConfig{
		SuccessURL: "https://shop.test/success",
		CancelURL:  "https://shop.test/cancel",
		AppName:    "Stripe Payment",
	}, cache, newTestMetrics(), logger.Discard())
}

// logRecords decodes every JSON log line written to buf.
func logRecords(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()

	var records []map[string]any
	scanner := bufio.NewScanner(bytes.NewReader(buf.Bytes()))
	for scanner.Scan() {
		var rec map[string]any
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &rec))
		records = append(records, rec)
	}
	return records
}

func findRecord(records []map[string]any, msg string) map[string]any {
	for _, rec := range records {
		if rec["msg"] == msg {
			return rec
		}
	}
	return nil
}

func levels(records []map[string]any) []string {
	out := make([]string, 0, len(records))
	for _, rec := range records {
		out = append(out, rec["level"].(string))
	}
	return out
}
