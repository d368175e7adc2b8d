package observability

import (
	"context"
	stderrors "errors"
	"fmt"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/kbukum/bytepipe/component"
	"github.com/kbukum/bytepipe/logger"
)

// Component installs and flushes the telemetry providers as a lifecycle component.
type Component struct {
	cfg         Config
	serviceName string
	version     string
	environment string
	tp          *sdktrace.TracerProvider
	mp          *sdkmetric.MeterProvider
	log         *logger.Logger
}

// ensure Component satisfies component.Component.
var _ component.Component = (*Component)(nil)

// NewComponent creates a telemetry component.
func NewComponent(cfg Config, serviceName, version, environment string, log *logger.Logger) *Component {
	if log == nil {
		log = logger.Nop()
	}
	cfg.ApplyDefaults()
	return &Component{
		cfg:         cfg,
		serviceName: serviceName,
		version:     version,
		environment: environment,
		log:         log.WithComponent("telemetry"),
	}
}

// Name returns the component name.
func (c *Component) Name() string { return "telemetry" }

// Start installs the tracer and meter providers when enabled.
func (c *Component) Start(ctx context.Context) error {
	if !c.cfg.Enabled {
		c.log.Debug("Telemetry disabled")
		return nil
	}

	tp, err := InitTracer(ctx, c.cfg.TracerConfig(c.serviceName, c.version, c.environment))
	if err != nil {
		return fmt.Errorf("telemetry start: %w", err)
	}
	mp, err := InitMeter(ctx, c.cfg.MeterConfig(c.serviceName, c.version, c.environment))
	if err != nil {
		_ = tp.Shutdown(ctx)
		return fmt.Errorf("telemetry start: %w", err)
	}
	c.tp, c.mp = tp, mp

	c.log.Info("Telemetry initialized", logger.Fields(
		"endpoint", c.cfg.Endpoint,
		"sample_rate", c.cfg.SampleRate,
		"interval", c.cfg.Interval.String(),
	))
	return nil
}

// Stop flushes and shuts down the providers.
func (c *Component) Stop(ctx context.Context) error {
	var errs []error
	if c.tp != nil {
		errs = append(errs, c.tp.Shutdown(ctx))
		c.tp = nil
	}
	if c.mp != nil {
		errs = append(errs, c.mp.Shutdown(ctx))
		c.mp = nil
	}
	return stderrors.Join(errs...)
}

// Health reports whether export is active.
func (c *Component) Health(_ context.Context) component.Health {
	if !c.cfg.Enabled {
		return component.Health{Name: c.Name(), Status: component.StatusHealthy, Message: "disabled"}
	}
	if c.tp == nil || c.mp == nil {
		return component.Health{Name: c.Name(), Status: component.StatusUnhealthy, Message: "not initialized"}
	}
	return component.Health{Name: c.Name(), Status: component.StatusHealthy}
}

// Describe returns summary information for the run summary.
func (c *Component) Describe() component.Description {
	details := "disabled"
	if c.cfg.Enabled {
		details = c.cfg.Endpoint
	}
	return component.Description{Name: "Telemetry", Type: "telemetry", Details: details}
}
