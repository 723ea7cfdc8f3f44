// Package tracing provides OpenTelemetry distributed tracing for quarry.
//
// # Overview
//
// A Tracer owns the OpenTelemetry tracer provider. When tracing is enabled,
// spans are batched to an OTLP gRPC collector; when disabled, a noop
// provider is used and span creation costs almost nothing.
//
// Spans are created by:
//
//   - the repository, one client span per query invocation, carrying the
//     query name, shape, invocation ID and row count
//   - the HTTP API, one server span per request, continuing any W3C
//     traceparent the caller sent
//
// # Usage
//
//	tracer, err := tracing.New(&cfg.Telemetry.Tracing, tracing.WithGlobal())
//	if err != nil {
//		return err
//	}
//	defer tracer.Shutdown(context.Background())
//
//	repo := repository.New(db, repository.WithTracer(tracer.Tracer()))
//
// # Sampling
//
// The sampler is one of always, never, ratio or parent_based. See
// createSampler for how each treats incoming trace context.
package tracing
