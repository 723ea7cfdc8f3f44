// Package telemetry groups the observability packages used by Quarry.
//
// # Components
//
//   - logging: slog-based structured logging with secret redaction and
//     request, command and trace enrichment
//   - metrics: Prometheus collectors for query invocations, SQL statements,
//     connection pool stats and HTTP requests
//   - tracing: OpenTelemetry tracer provider with OTLP/gRPC export
//   - health: liveness and readiness checks over the data source
//
// # Usage
//
//	logger, _ := logging.New(logging.FromConfig(cfg.Telemetry.Logging))
//	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, prometheus.NewRegistry())
//	tracer, _ := tracing.New(&cfg.Telemetry.Tracing, tracing.WithServiceVersion(version))
//	defer tracer.Shutdown(ctx)
//
//	repo := repository.New(db,
//		repository.WithLogger(logger.Slog()),
//		repository.WithRecorder(collector),
//		repository.WithTracer(tracer.Tracer()),
//	)
//
// Metrics and tracing can be disabled in configuration, in which case they
// record nothing.
package telemetry
