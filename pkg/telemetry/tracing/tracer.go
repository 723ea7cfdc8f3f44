package tracing

import (
	"context"
	"errors"
	"fmt"

	"mercator-hq/quarry/pkg/config"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// InstrumentationName names the tracer quarry creates its spans with.
const InstrumentationName = "mercator-hq/quarry"

// Tracer wraps the OpenTelemetry tracer provider quarry exports spans
// through.
type Tracer struct {
	config   *config.TracingConfig
	tracer   trace.Tracer
	provider trace.TracerProvider
	sdk      *sdktrace.TracerProvider
	enabled  bool
}

// Option customizes New.
type Option func(*options)

type options struct {
	exporter       sdktrace.SpanExporter
	serviceVersion string
	global         bool
}

// WithExporter replaces the OTLP exporter, typically with an in-memory one
// in tests.
func WithExporter(exporter sdktrace.SpanExporter) Option {
	return func(o *options) {
		o.exporter = exporter
	}
}

// WithServiceVersion sets the service.version resource attribute.
func WithServiceVersion(version string) Option {
	return func(o *options) {
		o.serviceVersion = version
	}
}

// WithGlobal installs the provider and the W3C propagators as the
// OpenTelemetry globals.
func WithGlobal() Option {
	return func(o *options) {
		o.global = true
	}
}

// New creates a new Tracer with the given configuration.
//
// If tracing is disabled in the config, a noop tracer is returned. Otherwise
// spans are batched to the configured OTLP gRPC endpoint. The connection is
// established lazily, so New succeeds while the collector is unreachable.
//
// The tracer must be shut down when no longer needed:
//
//	defer tracer.Shutdown(context.Background())
func New(cfg *config.TracingConfig, opts ...Option) (*Tracer, error) {
	if cfg == nil {
		return nil, errors.New("tracing config is nil")
	}

	o := options{serviceVersion: "dev"}
	for _, opt := range opts {
		opt(&o)
	}

	t := &Tracer{
		config:  cfg,
		enabled: cfg.Enabled,
	}

	if !cfg.Enabled {
		t.provider = noop.NewTracerProvider()
		t.tracer = t.provider.Tracer(InstrumentationName)
		return t, nil
	}

	sampler, err := createSampler(cfg.Sampler, cfg.SampleRatio)
	if err != nil {
		return nil, fmt.Errorf("failed to create sampler: %w", err)
	}

	exporter := o.exporter
	if exporter == nil {
		if exporter, err = createOTLPExporter(cfg); err != nil {
			return nil, fmt.Errorf("failed to create exporter: %w", err)
		}
	}

	res, err := resource.New(
		context.Background(),
		resource.WithAttributes(
			semconv.ServiceName(cfg.ServiceName),
			semconv.ServiceVersion(o.serviceVersion),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	t.sdk = sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sampler),
	)
	t.provider = t.sdk
	t.tracer = t.sdk.Tracer(InstrumentationName)

	if o.global {
		otel.SetTracerProvider(t.sdk)
		otel.SetTextMapPropagator(Propagator())
	}

	return t, nil
}

// Start creates a new span with the given name and options.
// The span is automatically linked to the parent span from the context.
//
//	ctx, span := tracer.Start(ctx, "operation")
//	defer span.End()
func (t *Tracer) Start(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, name, opts...)
}

// Tracer returns the underlying OpenTelemetry tracer, for packages that
// accept one.
func (t *Tracer) Tracer() trace.Tracer {
	return t.tracer
}

// Provider returns the tracer provider.
func (t *Tracer) Provider() trace.TracerProvider {
	return t.provider
}

// ForceFlush exports all ended spans that have not been exported yet.
func (t *Tracer) ForceFlush(ctx context.Context) error {
	if t.sdk == nil {
		return nil
	}
	return t.sdk.ForceFlush(ctx)
}

// Shutdown flushes any pending spans and shuts down the tracer.
func (t *Tracer) Shutdown(ctx context.Context) error {
	if t.sdk == nil {
		return nil
	}
	return t.sdk.Shutdown(ctx)
}

// Enabled returns whether tracing is enabled.
func (t *Tracer) Enabled() bool {
	return t.enabled
}

// createOTLPExporter creates an OTLP gRPC exporter.
func createOTLPExporter(cfg *config.TracingConfig) (sdktrace.SpanExporter, error) {
	opts := []otlptracegrpc.Option{
		otlptracegrpc.WithEndpoint(cfg.Endpoint),
		otlptracegrpc.WithDialOption(grpc.WithUserAgent(InstrumentationName)),
	}

	if cfg.Insecure {
		opts = append(opts, otlptracegrpc.WithTLSCredentials(insecure.NewCredentials()))
	}
	if cfg.Timeout > 0 {
		opts = append(opts, otlptracegrpc.WithTimeout(cfg.Timeout))
	}

	exporter, err := otlptrace.New(context.Background(), otlptracegrpc.NewClient(opts...))
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP exporter: %w", err)
	}
	return exporter, nil
}

// TraceID returns the trace ID from the context as a string.
// Returns empty string if no trace context exists.
func TraceID(ctx context.Context) string {
	sc := trace.SpanContextFromContext(ctx)
	if !sc.IsValid() {
		return ""
	}
	return sc.TraceID().String()
}

// SetStatus sets the span status based on an error, recording the error
// when there is one.
func SetStatus(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
}
