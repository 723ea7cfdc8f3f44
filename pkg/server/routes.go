package server

import (
	"log/slog"
	"net/http"

	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"mercator-hq/quarry/pkg/config"
	"mercator-hq/quarry/pkg/telemetry/health"
	"mercator-hq/quarry/pkg/telemetry/metrics"
	"mercator-hq/quarry/pkg/telemetry/tracing"
)

// API routes.
const (
	RouteProducts          = "/v1/products"
	RouteCategorySummaries = "/v1/categories/summary"
	RouteStats             = "/v1/stats"
)

// Options wires the handler's dependencies. API is required; a nil
// Collector, Tracer or Checker leaves the corresponding concern out.
type Options struct {
	API       *API
	Collector *metrics.Collector
	Tracer    trace.Tracer
	Checker   *health.Checker
	Telemetry config.TelemetryConfig
	Version   health.VersionInfo
	Logger    *slog.Logger
}

// NewHandler builds the routes and middleware chain.
//
// Every API route is traced and measured under its own route label. The
// metrics, liveness, readiness and version endpoints are mounted at their
// configured paths.
func NewHandler(opts Options) http.Handler {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	tracer := opts.Tracer
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer(tracing.InstrumentationName)
	}

	mux := http.NewServeMux()
	api := map[string]http.HandlerFunc{
		RouteProducts:          opts.API.Products,
		RouteCategorySummaries: opts.API.CategorySummaries,
		RouteStats:             opts.API.Stats,
	}
	for route, h := range api {
		var handler http.Handler = h
		if opts.Collector != nil {
			handler = opts.Collector.Instrument(route, handler)
		}
		mux.Handle(route, tracing.HTTPMiddleware(tracer, route, handler))
	}

	if opts.Collector != nil && opts.Telemetry.Metrics.Enabled {
		mux.Handle(opts.Telemetry.Metrics.Path, opts.Collector.Handler())
	}
	if opts.Checker != nil {
		health.Register(mux, opts.Checker, opts.Telemetry.Health, opts.Version)
	}

	var handler http.Handler = mux
	handler = LoggingMiddleware(logger.With("component", "http"))(handler)
	handler = RequestIDMiddleware(handler)
	handler = RecoveryMiddleware(logger)(handler)

	return handler
}
