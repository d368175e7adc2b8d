package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// MeterConfig configures the OpenTelemetry meter provider.
type MeterConfig struct {
	// ServiceName is the name of the service.
	ServiceName string
	// ServiceVersion is the version of the service.
	ServiceVersion string
	// Environment is the deployment environment (development, staging, production).
	Environment string
	// Endpoint is the OTLP HTTP endpoint host:port (e.g., "localhost:4318").
	Endpoint string
	// Insecure allows insecure connections (for development).
	Insecure bool
	// Interval is the metric export interval.
	Interval time.Duration
}

// InitMeter initializes the OpenTelemetry meter provider and installs it
// globally. The provider must be shut down on exit.
func InitMeter(ctx context.Context, config MeterConfig) (*sdkmetric.MeterProvider, error) {
	opts := []otlpmetrichttp.Option{
		otlpmetrichttp.WithEndpoint(config.Endpoint),
	}
	if config.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}

	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}

	res, err := newResource(config.ServiceName, config.ServiceVersion, config.Environment)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	readerOpts := []sdkmetric.PeriodicReaderOption{}
	if config.Interval > 0 {
		readerOpts = append(readerOpts, sdkmetric.WithInterval(config.Interval))
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, readerOpts...)),
		sdkmetric.WithResource(res),
	)

	otel.SetMeterProvider(mp)
	return mp, nil
}

// Meter returns a named meter from the global provider.
func Meter(name string) metric.Meter {
	return otel.Meter(name)
}

// Metric names.
const (
	MetricStageBytes  = "pipeline.stage.bytes"
	MetricRunTotal    = "pipeline.run.total"
	MetricRunDuration = "pipeline.run.duration"
	MetricErrorTotal  = "pipeline.error.total"
)

// Metrics holds the pipeline metric instruments.
type Metrics struct {
	stageBytes  metric.Int64Counter
	runTotal    metric.Int64Counter
	runDuration metric.Float64Histogram
	errorTotal  metric.Int64Counter
}

// NewMetrics creates metric instruments on the given meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	stageBytes, err := meter.Int64Counter(MetricStageBytes,
		metric.WithDescription("Bytes processed by each stage"),
		metric.WithUnit("By"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s counter: %w", MetricStageBytes, err)
	}

	runTotal, err := meter.Int64Counter(MetricRunTotal,
		metric.WithDescription("Total number of pipeline runs"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s counter: %w", MetricRunTotal, err)
	}

	runDuration, err := meter.Float64Histogram(MetricRunDuration,
		metric.WithDescription("Duration of pipeline runs in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s histogram: %w", MetricRunDuration, err)
	}

	errorTotal, err := meter.Int64Counter(MetricErrorTotal,
		metric.WithDescription("Total run failures by error code"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s counter: %w", MetricErrorTotal, err)
	}

	return &Metrics{
		stageBytes:  stageBytes,
		runTotal:    runTotal,
		runDuration: runDuration,
		errorTotal:  errorTotal,
	}, nil
}

// RecordBytes adds n bytes to the stage's counter.
func (m *Metrics) RecordBytes(ctx context.Context, stage string, n int) {
	m.stageBytes.Add(ctx, int64(n), metric.WithAttributes(attribute.String(AttrStage, stage)))
}

// RecordRun records a finished run.
func (m *Metrics) RecordRun(ctx context.Context, status string, duration time.Duration) {
	m.runTotal.Add(ctx, 1, metric.WithAttributes(attribute.String(AttrStatus, status)))
	m.runDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attribute.String(AttrStatus, status)))
}

// RecordError records a failed run by error code.
func (m *Metrics) RecordError(ctx context.Context, code string) {
	m.errorTotal.Add(ctx, 1, metric.WithAttributes(attribute.String(AttrErrorCode, code)))
}
