package observability

import (
	"context"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/scopekit/di"
	"github.com/kbukum/scopekit/errors"
)

// StatusOK is the status label of a successful resolution.
const StatusOK = "ok"

// ResolveObserver traces and measures container resolutions. Install it
// with di.WithObserver; scopes inherit it from their root.
type ResolveObserver struct {
	tracer  trace.Tracer
	metrics *ResolveMetrics
}

var _ di.Observer = (*ResolveObserver)(nil)

// NewResolveObserver creates an observer recording on the given meter and tracer.
func NewResolveObserver(meter metric.Meter, tracer trace.Tracer) (*ResolveObserver, error) {
	metrics, err := NewResolveMetrics(meter)
	if err != nil {
		return nil, err
	}
	return &ResolveObserver{tracer: tracer, metrics: metrics}, nil
}

// OnResolve starts a span named "di.resolve <type>" and returns a func that
// ends it and records the outcome.
func (o *ResolveObserver) OnResolve(ctx context.Context, ev di.ResolveEvent) (context.Context, func(error)) {
	start := time.Now()

	attrs := []attribute.KeyValue{
		attribute.String(AttrContainerID, ev.ContainerID),
		attribute.String(AttrContainer, ev.Container),
		attribute.String(AttrType, ev.Type),
		attribute.Int(AttrDepth, ev.Depth),
	}
	if ev.Key != "" {
		attrs = append(attrs, attribute.String(AttrKey, ev.Key))
	}

	ctx, span := o.tracer.Start(ctx, SpanResolve+" "+ev.Type,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attrs...),
	)
	o.metrics.RecordStart(ctx, ev.Container)

	return ctx, func(err error) {
		status := Status(err)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.SetAttributes(attribute.String(AttrStatus, status))
		span.End()

		o.metrics.RecordEnd(ctx, ev.Container, ev.Type, status, time.Since(start))
	}
}

// Status maps a resolution outcome to a metric label: "ok", the lower-cased
// error code of a container error, or "error".
func Status(err error) string {
	if err == nil {
		return StatusOK
	}
	if appErr, ok := errors.AsAppError(err); ok {
		return strings.ToLower(string(appErr.Code))
	}
	return "error"
}
