package main

import (
	"context"
	"log/slog"
	"time"

	"github.com/intelliDean/Stripe-Payment/discovery"
)

type ServiceRegistration struct {
	registry    discovery.Registry
	instanceID  string
	serviceName string
	interval    time.Duration
	logger      *slog.Logger
	stopChan    chan struct{}
	done        chan struct{}
}

// RegisterService registers the instance and keeps its TTL check passing
// until Deregister is called.
func RegisterService(
	ctx context.Context,
	registry discovery.Registry,
	instanceID, serviceName, addr string,
	interval time.Duration,
	logger *slog.Logger,
) (*ServiceRegistration, error) {
	if err := registry.Register(ctx, instanceID, serviceName, addr); err != nil {
		return nil, err
	}

	sr := &ServiceRegistration{
		registry:    registry,
		instanceID:  instanceID,
		serviceName: serviceName,
		interval:    interval,
		logger:      logger,
		stopChan:    make(chan struct{}),
		done:        make(chan struct{}),
	}

	go sr.startHealthCheck()

	logger.Info("service registered",
		slog.String("instance_id", instanceID),
		slog.String("addr", addr),
	)

	return sr, nil
}

func (sr *ServiceRegistration) startHealthCheck() {
	defer close(sr.done)

	ticker := time.NewTicker(sr.interval)
	defer ticker.Stop()

	for {
		select {
		case <-sr.stopChan:
			return
		case <-ticker.C:
			if err := sr.registry.HealthCheck(sr.instanceID, sr.serviceName); err != nil {
				sr.logger.Warn("health check failed", slog.Any("error", err))
			}
		}
	}
}

// Deregister stops the health check loop and removes the instance.
func (sr *ServiceRegistration) Deregister(ctx context.Context) error {
	close(sr.stopChan)
	<-sr.done
	return sr.registry.Deregister(ctx, sr.instanceID, sr.serviceName)
}
