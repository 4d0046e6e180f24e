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

	"github.com/kbukum/scopekit/logger"
)

// MeterConfig configures the OpenTelemetry meter provider.
type MeterConfig struct {
	// ServiceName is the name of the service.
	ServiceName string
	// ServiceVersion is the version of the service.
	ServiceVersion string
	// Environment is the deployment environment (dev, staging, prod).
	Environment string
	// Endpoint is the OTLP HTTP endpoint host:port (e.g., "localhost:4318").
	Endpoint string
	// Insecure allows insecure connections (for development).
	Insecure bool
	// Interval is the metric export interval.
	Interval time.Duration
}

// DefaultMeterConfig returns sensible defaults for development.
func DefaultMeterConfig(serviceName string) MeterConfig {
	return MeterConfig{
		ServiceName:    serviceName,
		ServiceVersion: "1.0.0",
		Environment:    "development",
		Endpoint:       "localhost:4318",
		Insecure:       true,
		Interval:       15 * time.Second,
	}
}

// InitMeter initializes the OpenTelemetry meter provider.
// Returns a MeterProvider that should be shut down on application exit.
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

	logger.Info("meter initialized", logger.Fields(
		"service", config.ServiceName,
		"endpoint", config.Endpoint,
		"interval", config.Interval.String(),
	))

	return mp, nil
}

// Meter returns a named meter from the global provider.
func Meter(name string) metric.Meter {
	return otel.Meter(name)
}

// Metric instrument names.
const (
	MetricResolveTotal    = "di.resolve.total"
	MetricResolveDuration = "di.resolve.duration"
	MetricResolveActive   = "di.resolve.active"
)

// ResolveMetrics holds the instruments recorded for container resolutions.
type ResolveMetrics struct {
	total    metric.Int64Counter
	duration metric.Float64Histogram
	active   metric.Int64UpDownCounter
}

// NewResolveMetrics creates the resolution instruments on the given meter.
func NewResolveMetrics(meter metric.Meter) (*ResolveMetrics, error) {
	total, err := meter.Int64Counter(MetricResolveTotal,
		metric.WithDescription("Total number of resolutions by type and status"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s counter: %w", MetricResolveTotal, err)
	}

	duration, err := meter.Float64Histogram(MetricResolveDuration,
		metric.WithDescription("Duration of resolutions in seconds, including nested resolutions"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s histogram: %w", MetricResolveDuration, err)
	}

	active, err := meter.Int64UpDownCounter(MetricResolveActive,
		metric.WithDescription("Number of resolutions in flight"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s gauge: %w", MetricResolveActive, err)
	}

	return &ResolveMetrics{total: total, duration: duration, active: active}, nil
}

// RecordStart increments the in-flight resolution count.
func (m *ResolveMetrics) RecordStart(ctx context.Context, container string) {
	m.active.Add(ctx, 1, metric.WithAttributes(attribute.String(AttrContainer, container)))
}

// RecordEnd decrements the in-flight count and records the finished resolution.
func (m *ResolveMetrics) RecordEnd(ctx context.Context, container, typeName, status string, d time.Duration) {
	m.active.Add(ctx, -1, metric.WithAttributes(attribute.String(AttrContainer, container)))
	m.total.Add(ctx, 1, metric.WithAttributes(
		attribute.String(AttrType, typeName),
		attribute.String(AttrStatus, status),
	))
	m.duration.Record(ctx, d.Seconds(), metric.WithAttributes(
		attribute.String(AttrType, typeName),
	))
}
