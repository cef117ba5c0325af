package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/intelliDean/Stripe-Payment/common/broker"
	"github.com/intelliDean/Stripe-Payment/common/logger"
	"github.com/intelliDean/Stripe-Payment/common/metrics"
	"github.com/intelliDean/Stripe-Payment/discovery"
	"github.com/intelliDean/Stripe-Payment/discovery/consul"
	"github.com/intelliDean/Stripe-Payment/payments/processor"
)

const healthCheckInterval = time.Second

type Config struct {
	ServiceName string
	InstanceID  string
	HTTPAddr    string
	ConsulAddr  string

	StripeKey            string
	StripeEndpointSecret string
	StripeAPIURL         string
	SuccessURL           string
	CancelURL            string
	AppName              string

	AMQPEnabled bool
	AMQPUser    string
	AMQPPass    string
	AMQPHost    string
	AMQPPort    string

	RedisAddr       string
	BalanceCacheTTL time.Duration

	CORSAllowedOrigins []string
}

// Validate reports every missing required setting at once.
func (c Config) Validate() error {
	var errs []error
	required := []struct{ key, value string }{
		{"STRIPE_SECRET_KEY", c.StripeKey},
		{"STRIPE_ENDPOINT_SECRET", c.StripeEndpointSecret},
		{"STRIPE_SUCCESS_URL", c.SuccessURL},
		{"STRIPE_CANCEL_URL", c.CancelURL},
		{"HTTP_ADDR", c.HTTPAddr},
	}
	for _, r := range required {
		if r.value == "" {
			errs = append(errs, fmt.Errorf("%s is required", r.key))
		}
	}
	if c.BalanceCacheTTL < 0 {
		errs = append(errs, errors.New("BALANCE_CACHE_TTL must not be negative"))
	}
	return errors.Join(errs...)
}

type App struct {
	config   Config
	logger   *slog.Logger
	registry discovery.Registry

	// mu guards the fields Start assigns while Shutdown may already run
	// from the signal goroutine.
	mu           sync.Mutex
	stopping     bool
	registration *ServiceRegistration
	httpServer   *http.Server

	closeRabbitMQ func() error
	publisher     EventPublisher
	balanceCache  *RedisBalanceCache
}

func NewApp(config Config) (*App, error) {
	log := logger.NewLogger(config.ServiceName)

	app := &App{
		config:    config,
		logger:    log,
		publisher: nopPublisher{},
	}

	if config.ConsulAddr != "" {
		registry, err := consul.NewRegistry(config.ConsulAddr)
		if err != nil {
			log.Error("failed to connect to consul", slog.Any("error", err))
			return nil, err
		}
		app.registry = registry
		log.Info("consul registry initialized")
	} else {
		log.Info("consul address not provided, service discovery disabled")
	}

	if config.AMQPEnabled {
		log.Info("connecting to rabbitmq",
			slog.String("host", config.AMQPHost),
			slog.String("port", config.AMQPPort),
		)

		ch, closeFn, err := broker.Connect(config.AMQPUser, config.AMQPPass, config.AMQPHost, config.AMQPPort, log)
		if err != nil {
			log.Error("failed to connect to rabbitmq", slog.Any("error", err))
			return nil, err
		}
		app.closeRabbitMQ = closeFn
		app.publisher = NewAMQPPublisher(ch)
		log.Info("rabbitmq connected successfully")
	}

	if config.RedisAddr != "" && config.BalanceCacheTTL > 0 {
		cache, err := NewRedisBalanceCache(config.RedisAddr, config.BalanceCacheTTL)
		if err != nil {
			log.Error("failed to connect to redis", slog.Any("error", err))
			app.Shutdown(context.Background())
			return nil, err
		}
		app.balanceCache = cache
		log.Info("balance cache enabled", slog.Duration("ttl", config.BalanceCacheTTL))
	}

	return app, nil
}

// Handler assembles the full HTTP stack: routes, /metrics, Prometheus and
// CORS middleware, and the otelhttp server span.
func (a *App) Handler(reg *prometheus.Registry) http.Handler {
	paymentMetrics := metrics.NewPaymentMetrics(reg, a.config.ServiceName)
	httpMetrics := metrics.NewHTTPMetrics(reg, a.config.ServiceName)

	stripeProcessor := processor.NewStripeProcessor(processor.StripeConfig{
		APIKey: a.config.StripeKey,
		APIURL: a.config.StripeAPIURL,
	})
	guarded := processor.NewBreakerProcessor(stripeProcessor, processor.DefaultBreakerSettings(), a.logger)

	var cache BalanceCache
	if a.balanceCache != nil {
		cache = a.balanceCache
	}

	svc := NewTelemetryMiddleware(NewService(guarded, CheckoutConfig{
		SuccessURL: a.config.SuccessURL,
		CancelURL:  a.config.CancelURL,
		AppName:    a.config.AppName,
	}, cache, paymentMetrics, a.logger))

	dispatcher := NewDispatcher(a.publisher, paymentMetrics, a.logger)
	handler := NewPaymentHTTPHandler(svc, dispatcher, a.config.StripeEndpointSecret, a.logger)

	return buildRouter(handler, reg, httpMetrics, a.config.CORSAllowedOrigins, a.config.ServiceName)
}

func buildRouter(h *PaymentHTTPHandler, reg *prometheus.Registry, httpMetrics *metrics.HTTPMetrics, allowedOrigins []string, serviceName string) http.Handler {
	mux := http.NewServeMux()
	h.registerRoutes(mux)
	mux.Handle("GET /metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	var handler http.Handler = mux
	handler = metricsMiddleware(httpMetrics, handler)
	handler = corsMiddleware(allowedOrigins, handler)
	return otelhttp.NewHandler(handler, serviceName)
}

// Start registers the instance and serves until Shutdown. A Shutdown that
// lands before or during startup makes Start return nil instead of serving.
func (a *App) Start(ctx context.Context) error {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	a.mu.Lock()
	if a.stopping {
		a.mu.Unlock()
		return nil
	}

	if a.registry != nil {
		registration, err := RegisterService(ctx, a.registry, a.config.InstanceID, a.config.ServiceName, a.config.HTTPAddr, healthCheckInterval, a.logger)
		if err != nil {
			a.mu.Unlock()
			return fmt.Errorf("failed to register service: %w", err)
		}
		a.registration = registration
	}

	server := &http.Server{
		Addr:              a.config.HTTPAddr,
		Handler:           a.Handler(reg),
		ReadHeaderTimeout: 10 * time.Second,
	}
	a.httpServer = server
	a.mu.Unlock()

	// Once Shutdown has seen the server, ListenAndServe returns
	// ErrServerClosed straight away.
	a.logger.Info("starting http server", slog.String("addr", a.config.HTTPAddr))
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (a *App) Shutdown(ctx context.Context) error {
	a.logger.Info("shutting down gracefully")

	a.mu.Lock()
	if a.stopping {
		a.mu.Unlock()
		return nil
	}
	a.stopping = true
	server, registration := a.httpServer, a.registration
	a.mu.Unlock()

	if server != nil {
		if err := server.Shutdown(ctx); err != nil {
			a.logger.Error("http server shutdown error", slog.Any("error", err))
		}
	}

	if registration != nil {
		if err := registration.Deregister(ctx); err != nil {
			a.logger.Error("error deregistering service", slog.Any("error", err))
		}
	}

	if a.balanceCache != nil {
		if err := a.balanceCache.Close(); err != nil {
			a.logger.Error("error closing redis", slog.Any("error", err))
		}
	}

	if a.closeRabbitMQ != nil {
		if err := a.closeRabbitMQ(); err != nil {
			a.logger.Error("error closing rabbitmq", slog.Any("error", err))
		}
	}

	return nil
}
