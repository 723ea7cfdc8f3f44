package tracing

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"mercator-hq/quarry/pkg/config"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
)

func enabledConfig(sampler string) *config.TracingConfig {
	return &config.TracingConfig{
		Enabled:     true,
		Sampler:     sampler,
		SampleRatio: 1.0,
		Endpoint:    "localhost:4317",
		ServiceName: "quarry-test",
		Insecure:    true,
		Timeout:     time.Second,
	}
}

// TestNew tests the creation of a new tracer
func TestNew(t *testing.T) {
	tests := []struct {
		name        string
		config      *config.TracingConfig
		wantErr     bool
		wantEnabled bool
	}{
		{
			name:    "nil config",
			config:  nil,
			wantErr: true,
		},
		{
			name:        "disabled tracing",
			config:      &config.TracingConfig{Enabled: false, ServiceName: "quarry-test"},
			wantEnabled: false,
		},
		{
			name:        "enabled with otlp exporter",
			config:      enabledConfig(SamplerAlways),
			wantEnabled: true,
		},
		{
			name: "invalid sampler",
			config: func() *config.TracingConfig {
				cfg := enabledConfig("sometimes")
				return cfg
			}(),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tracer, err := New(tt.config)
			if (err != nil) != tt.wantErr {
				t.Fatalf("New() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			defer tracer.Shutdown(context.Background())

			if tracer.Enabled() != tt.wantEnabled {
				t.Errorf("Enabled() = %v, want %v", tracer.Enabled(), tt.wantEnabled)
			}
			if tracer.Tracer() == nil || tracer.Provider() == nil {
				t.Error("expected tracer and provider to be set")
			}
		})
	}
}

// TestTracer_Disabled tests that the noop tracer records nothing
func TestTracer_Disabled(t *testing.T) {
	tracer, err := New(&config.TracingConfig{Enabled: false})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	ctx, span := tracer.Start(context.Background(), "noop")
	defer span.End()

	if span.IsRecording() {
		t.Error("expected noop span not to record")
	}
	if TraceID(ctx) != "" {
		t.Errorf("expected no trace ID, got %q", TraceID(ctx))
	}
	if err := tracer.ForceFlush(context.Background()); err != nil {
		t.Errorf("ForceFlush() error = %v", err)
	}
	if err := tracer.Shutdown(context.Background()); err != nil {
		t.Errorf("Shutdown() error = %v", err)
	}
}

// TestTracer_Export tests that spans reach the exporter with the resource
// attributes
func TestTracer_Export(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	tracer, err := New(enabledConfig(SamplerAlways), WithExporter(exporter), WithServiceVersion("1.2.3"))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	ctx, span := tracer.Start(context.Background(), "repository.list",
		trace.WithAttributes(QueryAttributes("products.by_names", "list", "inv-1", "sqlite")...))
	if TraceID(ctx) == "" {
		t.Error("expected a trace ID inside the span")
	}
	SetStatus(span, nil)
	span.End()

	if err := tracer.ForceFlush(context.Background()); err != nil {
		t.Fatalf("ForceFlush() error = %v", err)
	}

	spans := exporter.GetSpans()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}
	got := spans[0]
	if got.Name != "repository.list" {
		t.Errorf("span name = %q", got.Name)
	}
	if got.Status.Code != codes.Ok {
		t.Errorf("span status = %v, want Ok", got.Status.Code)
	}

	attrs := make(map[attribute.Key]attribute.Value)
	for _, kv := range got.Attributes {
		attrs[kv.Key] = kv.Value
	}
	if attrs[AttrQueryName].AsString() != "products.by_names" {
		t.Errorf("%s = %q", AttrQueryName, attrs[AttrQueryName].AsString())
	}
	if attrs[AttrDBSystem].AsString() != "sqlite" {
		t.Errorf("%s = %q", AttrDBSystem, attrs[AttrDBSystem].AsString())
	}

	resAttrs := make(map[attribute.Key]string)
	for _, kv := range got.Resource.Attributes() {
		resAttrs[kv.Key] = kv.Value.Emit()
	}
	if resAttrs["service.name"] != "quarry-test" {
		t.Errorf("service.name = %q", resAttrs["service.name"])
	}
	if resAttrs["service.version"] != "1.2.3" {
		t.Errorf("service.version = %q", resAttrs["service.version"])
	}

	if err := tracer.Shutdown(context.Background()); err != nil {
		t.Errorf("Shutdown() error = %v", err)
	}
}

// TestSetStatus tests error recording on spans
func TestSetStatus(t *testing.T) {
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	defer tp.Shutdown(context.Background())

	_, span := tp.Tracer("test").Start(context.Background(), "failing")
	SetStatus(span, context.DeadlineExceeded)
	span.End()

	ended := sr.Ended()
	if len(ended) != 1 {
		t.Fatalf("expected 1 span, got %d", len(ended))
	}
	if ended[0].Status().Code != codes.Error {
		t.Errorf("status = %v, want Error", ended[0].Status().Code)
	}
	if len(ended[0].Events()) != 1 || ended[0].Events()[0].Name != "exception" {
		t.Errorf("expected one exception event, got %v", ended[0].Events())
	}
}

// TestHTTPMiddleware tests server spans and traceparent continuation
func TestHTTPMiddleware(t *testing.T) {
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	defer tp.Shutdown(context.Background())

	var handlerTraceID string
	handler := HTTPMiddleware(tp.Tracer("test"), "/v1/products", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handlerTraceID = TraceID(r.Context())
		w.WriteHeader(http.StatusInternalServerError)
	}))

	const parentTrace = "4bf92f3577b34da6a3ce929d0e0e4736"
	req := httptest.NewRequest(http.MethodGet, "/v1/products?name=Apple", nil)
	req.Header.Set("traceparent", "00-"+parentTrace+"-00f067aa0ba902b7-01")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if handlerTraceID != parentTrace {
		t.Errorf("handler trace ID = %q, want %q", handlerTraceID, parentTrace)
	}
	if got := rec.Header().Get("X-Trace-ID"); got != parentTrace {
		t.Errorf("X-Trace-ID = %q, want %q", got, parentTrace)
	}

	ended := sr.Ended()
	if len(ended) != 1 {
		t.Fatalf("expected 1 span, got %d", len(ended))
	}
	span := ended[0]
	if span.Name() != "GET /v1/products" {
		t.Errorf("span name = %q", span.Name())
	}
	if span.SpanKind() != trace.SpanKindServer {
		t.Errorf("span kind = %v", span.SpanKind())
	}
	if span.Parent().SpanID().String() != "00f067aa0ba902b7" {
		t.Errorf("parent span = %s", span.Parent().SpanID())
	}
	if span.Status().Code != codes.Error {
		t.Errorf("status = %v, want Error for 500", span.Status().Code)
	}
}

func TestInjectExtract(t *testing.T) {
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	defer tp.Shutdown(context.Background())

	ctx, span := tp.Tracer("test").Start(context.Background(), "client")
	defer span.End()

	headers := http.Header{}
	Inject(ctx, headers)
	if headers.Get("traceparent") == "" {
		t.Fatal("expected traceparent header")
	}

	extracted := Extract(context.Background(), headers)
	if TraceID(extracted) != span.SpanContext().TraceID().String() {
		t.Errorf("extracted trace ID = %q, want %q", TraceID(extracted), span.SpanContext().TraceID())
	}
}
