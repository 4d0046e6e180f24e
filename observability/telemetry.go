package observability

import (
	"context"
	stderrors "errors"
	"fmt"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// Telemetry bundles the providers and the resolve observer of a service.
type Telemetry struct {
	TracerProvider *sdktrace.TracerProvider
	MeterProvider  *sdkmetric.MeterProvider
	Observer       *ResolveObserver
}

// Setup initializes tracing and metrics from cfg and builds a ResolveObserver
// on the resulting global providers.
func Setup(ctx context.Context, cfg Config, serviceName, version, environment string) (*Telemetry, error) {
	tp, err := InitTracer(ctx, cfg.TracerConfig(serviceName, version, environment))
	if err != nil {
		return nil, err
	}

	mp, err := InitMeter(ctx, cfg.MeterConfig(serviceName, version, environment))
	if err != nil {
		_ = tp.Shutdown(ctx)
		return nil, err
	}

	obs, err := NewResolveObserver(mp.Meter(InstrumentationName), tp.Tracer(InstrumentationName))
	if err != nil {
		_ = tp.Shutdown(ctx)
		_ = mp.Shutdown(ctx)
		return nil, fmt.Errorf("creating resolve observer: %w", err)
	}

	return &Telemetry{TracerProvider: tp, MeterProvider: mp, Observer: obs}, nil
}

// Shutdown flushes and stops both providers.
func (t *Telemetry) Shutdown(ctx context.Context) error {
	var errs []error
	if t.TracerProvider != nil {
		if err := t.TracerProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("tracer: %w", err))
		}
	}
	if t.MeterProvider != nil {
		if err := t.MeterProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("meter: %w", err))
		}
	}
	return stderrors.Join(errs...)
}
