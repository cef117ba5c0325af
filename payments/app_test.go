package main

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() Config {
	return Config{
		ServiceName:          "payment",
		HTTPAddr:             ":8080",
		StripeKey:            "sk_test_123",
		StripeEndpointSecret: "whsec_123",
		SuccessURL:           "https://shop.test/success",
		CancelURL:            "https://shop.test/cancel",
		AppName:              "Stripe Payment",
	}
}

func TestConfigValidate(t *testing.T) {
	assert.NoError(t, validConfig().Validate())
}

func TestConfigValidate_ReportsEveryMissingKey(t *testing.T) {
	cfg := validConfig()
	cfg.StripeKey = ""
	cfg.StripeEndpointSecret = ""
	cfg.BalanceCacheTTL = -time.Second

	err := cfg.Validate()

	assert.ErrorContains(t, err, "STRIPE_SECRET_KEY is required")
	assert.ErrorContains(t, err, "STRIPE_ENDPOINT_SECRET is required")
	assert.ErrorContains(t, err, "BALANCE_CACHE_TTL must not be negative")
	assert.NotContains(t, err.Error(), "STRIPE_SUCCESS_URL")
}

func TestNewApp_WithoutOptionalBackends(t *testing.T) {
	app, err := NewApp(validConfig())

	assert.NoError(t, err)
	assert.Nil(t, app.registry)
	assert.Nil(t, app.balanceCache)
	assert.IsType(t, nopPublisher{}, app.publisher)
}

func newLocalApp(t *testing.T) *App {
	t.Helper()
	cfg := validConfig()
	cfg.HTTPAddr = "127.0.0.1:0"

	app, err := NewApp(cfg)
	require.NoError(t, err)
	return app
}

func TestApp_ShutdownBeforeStart(t *testing.T) {
	app := newLocalApp(t)

	require.NoError(t, app.Shutdown(context.Background()))

	done := make(chan error, 1)
	go func() { done <- app.Start(context.Background()) }()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Start kept serving after Shutdown")
	}
}

func TestApp_ShutdownDuringStart(t *testing.T) {
	for i := 0; i < 20; i++ {
		app := newLocalApp(t)

		done := make(chan error, 1)
		go func() { done <- app.Start(context.Background()) }()
		require.NoError(t, app.Shutdown(context.Background()))

		select {
		case err := <-done:
			assert.NoError(t, err)
		case <-time.After(2 * time.Second):
			t.Fatalf("run %d: Start kept serving after Shutdown", i)
		}
	}
}

func TestApp_ShutdownIsIdempotent(t *testing.T) {
	app := newLocalApp(t)

	assert.NoError(t, app.Shutdown(context.Background()))
	assert.NoError(t, app.Shutdown(context.Background()))
}
