package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"

	"github.com/intelliDean/Stripe-Payment/common/config"
	"github.com/intelliDean/Stripe-Payment/common/logger"
	"github.com/intelliDean/Stripe-Payment/common/tracing"
	"github.com/intelliDean/Stripe-Payment/discovery"
)

// @title        Stripe Payment API
// @version      1.0
// @description  Thin relay to Stripe: hosted checkout sessions, account balance and verified webhooks.
//
// @host      localhost:8082
// @BasePath  /
// @Schemes   http https
func main() {
	serviceName := config.GetEnv("SERVICE_NAME", "payment")

	cfg := Config{
		ServiceName: serviceName,
		InstanceID:  config.GetEnv("INSTANCE_ID", discovery.GenerateInstanceID(serviceName)),
		HTTPAddr:    config.GetEnv("HTTP_ADDR", "localhost:8082"),
		ConsulAddr:  config.GetEnv("CONSUL_ADDR", ""),

		StripeKey:            config.GetEnv("STRIPE_SECRET_KEY", ""),
		StripeEndpointSecret: config.GetEnv("STRIPE_ENDPOINT_SECRET", ""),
		StripeAPIURL:         config.GetEnv("STRIPE_API_URL", ""),
		SuccessURL:           config.GetEnv("STRIPE_SUCCESS_URL", ""),
		CancelURL:            config.GetEnv("STRIPE_CANCEL_URL", ""),
		AppName:              config.GetEnv("APP_NAME", "Stripe Payment"),

		AMQPEnabled: config.GetEnvBool("AMQP_ENABLED", false),
		AMQPUser:    config.GetEnv("AMQP_USER", "guest"),
		AMQPPass:    config.GetEnv("AMQP_PASS", "guest"),
		AMQPHost:    config.GetEnv("AMQP_HOST", "localhost"),
		AMQPPort:    config.GetEnv("AMQP_PORT", "5672"),

		RedisAddr:       config.GetEnv("REDIS_ADDR", ""),
		BalanceCacheTTL: config.GetEnvDuration("BALANCE_CACHE_TTL", 0),

		CORSAllowedOrigins: config.GetEnvList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
	}

	log := logger.NewLogger(cfg.ServiceName)
	log.Info("starting service",
		slog.String("instance_id", cfg.InstanceID),
		slog.String("http_addr", cfg.HTTPAddr),
	)

	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", slog.Any("error", err))
		os.Exit(1)
	}

	shutdownTracer, err := tracing.InitTracer(cfg.ServiceName, log)
	if err != nil {
		log.Error("failed to initialize tracer", slog.Any("error", err))
		os.Exit(1)
	}
	defer shutdownTracer()

	app, err := NewApp(cfg)
	if err != nil {
		log.Error("failed to create app", slog.Any("error", err))
		os.Exit(1)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		<-sigChan
		log.Info("received shutdown signal")

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := app.Shutdown(ctx); err != nil {
			log.Error("error during shutdown", slog.Any("error", err))
		}
	}()

	if err := app.Start(context.Background()); err != nil {
		log.Error("failed to start app", slog.Any("error", err))
		os.Exit(1)
	}

	<-stopped
	log.Info("shutdown complete")
}
