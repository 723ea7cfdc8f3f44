// Package logging provides structured logging with secret redaction.
//
// # Overview
//
// The logging package wraps Go's standard log/slog package to provide:
//   - Structured logging with JSON, text, and console formats
//   - Redaction of DSN passwords, bearer tokens and API keys
//   - Context fields (request ID, CLI command, trace and span IDs)
//   - A level that can be changed at runtime
//
// # Usage
//
//	logger, err := logging.New(logging.FromConfig(cfg.Telemetry.Logging))
//	if err != nil {
//	    return err
//	}
//
//	logger.Info("Data source opened",
//	    "dsn", "postgres://quarry:secret@db/quarry",  // postgres://quarry:***@db/quarry
//	)
//
//	// Packages that take a *slog.Logger get the same enrichment
//	repo := repository.New(db, repository.WithLogger(logger.Slog()))
//
// # Context Fields
//
// Records logged with a context carry its request ID and command, and the
// trace and span IDs of the active OpenTelemetry span:
//
//	ctx = logging.WithRequestID(ctx, "req-123")
//	logger.InfoContext(ctx, "Serving products")
package logging
