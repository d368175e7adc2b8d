package component

import "context"

// HealthStatus represents the health state of a component.
type HealthStatus string

const (
	StatusHealthy   HealthStatus = "healthy"
	StatusUnhealthy HealthStatus = "unhealthy"
	StatusDegraded  HealthStatus = "degraded"
)

// Health holds health information for a component.
type Health struct {
	Name    string       `json:"name"`
	Status  HealthStatus `json:"status"`
	Message string       `json:"message,omitempty"`
}

// Component represents a lifecycle-managed resource such as an open file
// or a telemetry exporter.
type Component interface {
	// Name returns the unique name of the component for registration.
	Name() string

	// Start acquires the resource.
	Start(ctx context.Context) error

	// Stop flushes and releases the resource.
	Stop(ctx context.Context) error

	// Health returns the current health status of the component.
	Health(ctx context.Context) Health
}

// Description holds summary information for the run summary.
type Description struct {
	// Name is the human-readable display name. If empty, Name() is used.
	Name string
	// Type categorizes the component: "file", "telemetry".
	Type string
	// Details is a one-liner such as the file path or exporter endpoint.
	Details string
}

// Describable is optionally implemented by Components to self-report what
// they are and how they are configured.
type Describable interface {
	Describe() Description
}
