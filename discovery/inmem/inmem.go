package inmem

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/intelliDean/Stripe-Payment/discovery"
)

// Registry is an in-memory discovery.Registry for tests and local runs
// without Consul.
type Registry struct {
	sync.RWMutex
	addrs map[string]map[string]*serviceInstance
	now   func() time.Time
}

type serviceInstance struct {
	hostPort   string
	lastActive time.Time
}

func NewRegistry() *Registry {
	return &Registry{
		addrs: map[string]map[string]*serviceInstance{},
		now:   time.Now,
	}
}

func (r *Registry) Register(ctx context.Context, instanceID, serviceName, hostPort string) error {
	r.Lock()
	defer r.Unlock()

	if _, ok := r.addrs[serviceName]; !ok {
		r.addrs[serviceName] = map[string]*serviceInstance{}
	}

	r.addrs[serviceName][instanceID] = &serviceInstance{
		hostPort:   hostPort,
		lastActive: r.now(),
	}

	return nil
}

func (r *Registry) Deregister(ctx context.Context, instanceID, serviceName string) error {
	r.Lock()
	defer r.Unlock()

	if _, ok := r.addrs[serviceName]; !ok {
		return nil
	}

	delete(r.addrs[serviceName], instanceID)

	return nil
}

// HealthCheck refreshes the instance's lastActive timestamp.
func (r *Registry) HealthCheck(instanceID, serviceName string) error {
	r.Lock()
	defer r.Unlock()

	if _, ok := r.addrs[serviceName]; !ok {
		return errors.New("service is not registered yet")
	}

	if _, ok := r.addrs[serviceName][instanceID]; !ok {
		return errors.New("service instance is not registered yet")
	}

	r.addrs[serviceName][instanceID].lastActive = r.now()

	return nil
}

// Discover returns every instance whose last health check is younger than ttl.
func (r *Registry) Discover(ctx context.Context, serviceName string) ([]string, error) {
	r.RLock()
	defer r.RUnlock()

	cutoff := r.now().Add(-ttl)

	var res []string
	for _, i := range r.addrs[serviceName] {
		if i.lastActive.Before(cutoff) {
			continue
		}
		res = append(res, i.hostPort)
	}

	if len(res) == 0 {
		return nil, errors.New("no service address found")
	}

	return res, nil
}

// ttl mirrors the Consul check TTL.
const ttl = 5 * time.Second

var _ discovery.Registry = (*Registry)(nil)
