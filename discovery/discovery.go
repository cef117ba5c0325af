package discovery

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// Registry is the service registry the relay announces itself in.
type Registry interface {
	Register(ctx context.Context, instanceID, serviceName, hostPort string) error
	Deregister(ctx context.Context, instanceID, serviceName string) error
	Discover(ctx context.Context, serviceName string) ([]string, error)
	HealthCheck(instanceID, serviceName string) error
}

// GenerateInstanceID returns "<serviceName>-<8 hex chars>".
func GenerateInstanceID(serviceName string) string {
	return fmt.Sprintf("%s-%s", serviceName, uuid.NewString()[:8])
}
