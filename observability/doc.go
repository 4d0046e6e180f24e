// Package observability provides OpenTelemetry tracing and metrics for the
// container.
//
// Tracing:
//
//	tp, err := observability.InitTracer(ctx, observability.DefaultTracerConfig("my-service"))
//	defer tp.Shutdown(ctx)
//
// Metrics:
//
//	mp, err := observability.InitMeter(ctx, observability.DefaultMeterConfig("my-service"))
//	defer mp.Shutdown(ctx)
//
// Resolution telemetry:
//
//	obs, err := observability.NewResolveObserver(
//	    observability.Meter(observability.InstrumentationName),
//	    observability.Tracer(observability.InstrumentationName),
//	)
//	c := di.New(di.WithObserver(obs))
//
// Every resolution, nested ones included, becomes a "di.resolve <type>" span
// and increments di.resolve.total{di.type,status}. Factories can parent their
// own spans with di.ContextOf(r).
package observability
