package consul

import (
	"context"
	"fmt"
	"net"
	"strconv"

	consul "github.com/hashicorp/consul/api"

	"github.com/intelliDean/Stripe-Payment/discovery"
)

// CheckTTL is how long Consul waits for a HealthCheck before marking the
// instance critical.
const CheckTTL = "5s"

type Registry struct {
	client *consul.Client
}

func NewRegistry(addr string) (*Registry, error) {
	config := consul.DefaultConfig()
	config.Address = addr

	client, err := consul.NewClient(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create consul client: %w", err)
	}

	return &Registry{client: client}, nil
}

func (r *Registry) Register(ctx context.Context, instanceID, serviceName, hostPort string) error {
	host, portStr, err := net.SplitHostPort(hostPort)
	if err != nil {
		return fmt.Errorf("invalid hostPort %q: %w", hostPort, err)
	}

	port, err := strconv.Atoi(portStr)
	if err != nil {
		return fmt.Errorf("invalid port %q: %w", portStr, err)
	}

	reg := &consul.AgentServiceRegistration{
		ID:      instanceID,
		Name:    serviceName,
		Address: host,
		Port:    port,
		Tags:    []string{"http", "stripe"},
		Check: &consul.AgentServiceCheck{
			CheckID:                        instanceID,
			TTL:                            CheckTTL,
			DeregisterCriticalServiceAfter: "10s",
		},
	}

	return r.client.Agent().ServiceRegister(reg)
}

func (r *Registry) Deregister(ctx context.Context, instanceID, serviceName string) error {
	return r.client.Agent().ServiceDeregister(instanceID)
}

func (r *Registry) Discover(ctx context.Context, serviceName string) ([]string, error) {
	services, _, err := r.client.Health().Service(serviceName, "", true, (&consul.QueryOptions{}).WithContext(ctx))
	if err != nil {
		return nil, err
	}

	addresses := make([]string, 0, len(services))
	for _, service := range services {
		addresses = append(addresses, net.JoinHostPort(service.Service.Address, strconv.Itoa(service.Service.Port)))
	}

	return addresses, nil
}

func (r *Registry) HealthCheck(instanceID, serviceName string) error {
	return r.client.Agent().UpdateTTL(instanceID, "online", consul.HealthPassing)
}

var _ discovery.Registry = (*Registry)(nil)
