package observability

import (
	"context"
	"fmt"
	"testing"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/kbukum/scopekit/di"
	"github.com/kbukum/scopekit/errors"
	"github.com/kbukum/scopekit/logger"
)

type testDB struct{}

type testRepo struct{ db *testDB }

func newTestObserver(t *testing.T) (*ResolveObserver, *sdkmetric.ManualReader, *tracetest.SpanRecorder) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	t.Cleanup(func() {
		_ = tp.Shutdown(context.Background())
		_ = mp.Shutdown(context.Background())
	})

	obs, err := NewResolveObserver(mp.Meter("test"), tp.Tracer("test"))
	if err != nil {
		t.Fatalf("NewResolveObserver failed: %v", err)
	}
	return obs, reader, recorder
}

func collectSums(t *testing.T, reader *sdkmetric.ManualReader) map[string]int64 {
	t.Helper()
	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("collect failed: %v", err)
	}

	sums := make(map[string]int64)
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != MetricResolveTotal {
				continue
			}
			data, ok := m.Data.(metricdata.Sum[int64])
			if !ok {
				t.Fatalf("unexpected data type %T", m.Data)
			}
			for _, dp := range data.DataPoints {
				typ, _ := dp.Attributes.Value(attribute.Key(AttrType))
				status, _ := dp.Attributes.Value(attribute.Key(AttrStatus))
				sums[typ.AsString()+"|"+status.AsString()] += dp.Value
			}
		}
	}
	return sums
}

func TestResolveObserverRecordsNestedSpans(t *testing.T) {
	obs, reader, recorder := newTestObserver(t)
	c := di.New(di.WithLogger(logger.NewNop()), di.WithObserver(obs))

	if err := di.Register(c, func(di.Resolver) (*testDB, error) { return &testDB{}, nil }, di.AsSingleton()); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if err := di.Register(c, func(r di.Resolver) (*testRepo, error) {
		db, err := di.Resolve[*testDB](r)
		return &testRepo{db: db}, err
	}); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	if _, err := di.Resolve[*testRepo](c); err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}

	spans := recorder.Ended()
	if len(spans) != 2 {
		t.Fatalf("expected 2 spans, got %d", len(spans))
	}
	// Nested span ends first.
	inner, outer := spans[0], spans[1]
	if inner.Name() != "di.resolve *observability.testDB" {
		t.Errorf("unexpected inner span name %q", inner.Name())
	}
	if outer.Name() != "di.resolve *observability.testRepo" {
		t.Errorf("unexpected outer span name %q", outer.Name())
	}
	if inner.Parent().SpanID() != outer.SpanContext().SpanID() {
		t.Error("expected nested resolution span to be a child of the outer span")
	}

	sums := collectSums(t, reader)
	if sums["*observability.testRepo|ok"] != 1 || sums["*observability.testDB|ok"] != 1 {
		t.Errorf("unexpected counters: %v", sums)
	}
}

func TestResolveObserverRecordsFailures(t *testing.T) {
	obs, reader, recorder := newTestObserver(t)
	c := di.New(di.WithLogger(logger.NewNop()), di.WithObserver(obs))

	if _, err := di.Resolve[*testDB](c); err == nil {
		t.Fatal("expected resolution to fail")
	}

	spans := recorder.Ended()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}
	if spans[0].Status().Code != codes.Error {
		t.Errorf("expected error status, got %v", spans[0].Status())
	}
	if len(spans[0].Events()) == 0 {
		t.Error("expected the error to be recorded as a span event")
	}

	sums := collectSums(t, reader)
	if sums["*observability.testDB|registration_not_found"] != 1 {
		t.Errorf("unexpected counters: %v", sums)
	}
}

func TestResolveObserverInheritedByScopes(t *testing.T) {
	obs, _, recorder := newTestObserver(t)
	c := di.New(di.WithLogger(logger.NewNop()), di.WithObserver(obs))
	if err := di.RegisterInstance(c, &testDB{}); err != nil {
		t.Fatalf("RegisterInstance failed: %v", err)
	}

	scope, err := c.CreateScope()
	if err != nil {
		t.Fatalf("CreateScope failed: %v", err)
	}
	defer scope.Dispose()

	if _, err := di.Resolve[*testDB](scope); err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}

	spans := recorder.Ended()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}
	found := false
	for _, kv := range spans[0].Attributes() {
		if kv.Key == AttrContainerID && kv.Value.AsString() == scope.ID() {
			found = true
		}
	}
	if !found {
		t.Error("expected span attributed to the scope container")
	}
}

func TestStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, "ok"},
		{"app error", errors.RegistrationNotFound("T", ""), "registration_not_found"},
		{"wrapped app error", fmt.Errorf("wrap: %w", errors.Disposed("c")), "disposed"},
		{"plain error", fmt.Errorf("boom"), "error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Status(tt.err); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestNewResolveMetrics(t *testing.T) {
	meter := noop.NewMeterProvider().Meter("test")
	metrics, err := NewResolveMetrics(meter)
	if err != nil {
		t.Fatalf("unexpected error creating metrics: %v", err)
	}

	ctx := context.Background()
	metrics.RecordStart(ctx, "root")
	metrics.RecordEnd(ctx, "root", "*app.Repo", StatusOK, 10*time.Millisecond)
}

func TestConfigApplyDefaults(t *testing.T) {
	var cfg Config
	cfg.ApplyDefaults()

	if cfg.Endpoint != "localhost:4318" {
		t.Errorf("expected default endpoint, got %q", cfg.Endpoint)
	}
	if cfg.SampleRate != 1.0 {
		t.Errorf("expected default sample rate 1.0, got %f", cfg.SampleRate)
	}
	if cfg.Interval != 15*time.Second {
		t.Errorf("expected default interval 15s, got %v", cfg.Interval)
	}

	tc := cfg.TracerConfig("svc", "2.0.0", "staging")
	if tc.ServiceName != "svc" || tc.ServiceVersion != "2.0.0" || tc.Environment != "staging" || tc.SampleRate != 1.0 {
		t.Errorf("unexpected tracer config: %+v", tc)
	}
	mc := cfg.MeterConfig("svc", "2.0.0", "staging")
	if mc.Endpoint != cfg.Endpoint || mc.Interval != cfg.Interval {
		t.Errorf("unexpected meter config: %+v", mc)
	}
}

func TestDefaultTracerConfig(t *testing.T) {
	cfg := DefaultTracerConfig("test-service")

	if cfg.ServiceName != "test-service" {
		t.Errorf("expected ServiceName 'test-service', got %s", cfg.ServiceName)
	}
	if cfg.Endpoint != "localhost:4318" {
		t.Errorf("expected Endpoint 'localhost:4318', got %s", cfg.Endpoint)
	}
	if cfg.SampleRate != 1.0 {
		t.Errorf("expected SampleRate 1.0, got %f", cfg.SampleRate)
	}
	if !cfg.Insecure {
		t.Error("expected Insecure to be true")
	}
}

func TestDefaultMeterConfig(t *testing.T) {
	cfg := DefaultMeterConfig("test-service")

	if cfg.ServiceName != "test-service" {
		t.Errorf("expected ServiceName 'test-service', got %s", cfg.ServiceName)
	}
	if cfg.Interval != 15*time.Second {
		t.Errorf("expected Interval 15s, got %v", cfg.Interval)
	}
}

func TestNewResource(t *testing.T) {
	res, err := newResource("svc", "1.0.0", "test")
	if err != nil {
		t.Fatalf("newResource failed: %v", err)
	}
	found := false
	for _, kv := range res.Attributes() {
		if kv.Key == "service.name" && kv.Value.AsString() == "svc" {
			found = true
		}
	}
	if !found {
		t.Error("expected service.name attribute")
	}
}

func TestSampler(t *testing.T) {
	tests := []struct {
		rate float64
		want string
	}{
		{1.0, "ParentBased{root:AlwaysOnSampler"},
		{0, "AlwaysOffSampler"},
		{0.5, "ParentBased{root:TraceIDRatioBased{0.5}"},
	}
	for _, tt := range tests {
		desc := sampler(tt.rate).Description()
		if len(desc) < len(tt.want) || desc[:len(tt.want)] != tt.want {
			t.Errorf("rate %v: expected description starting %q, got %q", tt.rate, tt.want, desc)
		}
	}
}

func TestStartSpan(t *testing.T) {
	ctx, span := StartSpan(context.Background(), "test-operation")
	defer span.End()

	if span == nil {
		t.Fatal("expected non-nil span")
	}
	if ctx == nil {
		t.Fatal("expected non-nil context")
	}
}

func TestSpanFromContext(t *testing.T) {
	if SpanFromContext(context.Background()).IsRecording() {
		t.Error("expected non-recording span for empty context")
	}

	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(tracetest.NewInMemoryExporter()))
	defer tp.Shutdown(context.Background())
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	defer otel.SetTracerProvider(prev)

	ctx, span := StartSpan(context.Background(), "lookup")
	defer span.End()
	if got := SpanFromContext(ctx).SpanContext(); !got.Equal(span.SpanContext()) {
		t.Errorf("expected span from context, got %v", got)
	}
}

func TestSetSpanAttribute(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	defer tp.Shutdown(context.Background())
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	defer otel.SetTracerProvider(prev)

	ctx, span := StartSpan(context.Background(), "test-attrs")
	SetSpanAttribute(ctx, "string-key", "value")
	SetSpanAttribute(ctx, "int-key", 42)
	SetSpanAttribute(ctx, "int64-key", int64(100))
	SetSpanAttribute(ctx, "float-key", 3.14)
	SetSpanAttribute(ctx, "bool-key", true)
	SetSpanAttribute(ctx, "string-slice-key", []string{"a", "b"})
	SetSpanAttribute(ctx, "unsupported-key", struct{}{})
	SetSpanError(ctx, fmt.Errorf("test error"))
	span.End()

	spans := exporter.GetSpans()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}
	if len(spans[0].Attributes) != 6 {
		t.Errorf("expected 6 attributes, got %d", len(spans[0].Attributes))
	}
	if len(spans[0].Events) != 1 {
		t.Errorf("expected recorded error event, got %d", len(spans[0].Events))
	}
}

func TestSetSpanAttributeNoSpan(t *testing.T) {
	ctx := context.Background()
	SetSpanAttribute(ctx, "key", "value")
	SetSpanError(ctx, fmt.Errorf("no span error"))
}

func TestTelemetryShutdownEmpty(t *testing.T) {
	tel := &Telemetry{}
	if err := tel.Shutdown(context.Background()); err != nil {
		t.Errorf("expected no error, got %v", err)
	}
}
