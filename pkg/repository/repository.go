package repository

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"mercator-hq/quarry/pkg/datasource"
	"mercator-hq/quarry/pkg/queryable"
	"mercator-hq/quarry/pkg/telemetry/tracing"
)

// Shapes label the kind of repository call in logs, metrics and spans.
const (
	ShapeList        = "list"
	ShapeGet         = "get"
	ShapeContextList = "context_list"
	ShapeContextGet  = "context_get"
	ShapeWrite       = "write"
	ShapeBulk        = "bulk"
)

// Statuses recorded for each call.
const (
	StatusSuccess  = "success"
	StatusError    = "error"
	StatusCanceled = "canceled"
)

// Recorder receives one observation per repository call. rows is -1 when the
// result is not a collection.
type Recorder interface {
	RecordQuery(name, shape, status string, duration time.Duration, rows int)
}

// Repository is the cross-entity façade over a data source. Its generic
// operations are package functions taking the Repository as an argument.
//
// A Repository adds logging, metrics and tracing around each call and
// otherwise delegates: results and errors pass through unchanged.
type Repository struct {
	db       *datasource.DB
	src      queryable.Source
	logger   *slog.Logger
	recorder Recorder
	tracer   trace.Tracer
	timeout  time.Duration
	inTx     bool
}

// Option configures a Repository.
type Option func(*Repository)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Repository) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithRecorder sets the metrics recorder.
func WithRecorder(recorder Recorder) Option {
	return func(r *Repository) {
		r.recorder = recorder
	}
}

// WithTracer sets the tracer used for per-call spans.
func WithTracer(tracer trace.Tracer) Option {
	return func(r *Repository) {
		if tracer != nil {
			r.tracer = tracer
		}
	}
}

// WithTimeout bounds calls whose context has no deadline. Zero disables it.
func WithTimeout(timeout time.Duration) Option {
	return func(r *Repository) {
		r.timeout = timeout
	}
}

// New creates a Repository over db. It panics if db is nil or was not
// returned by datasource.Open.
func New(db *datasource.DB, opts ...Option) *Repository {
	if db == nil || !db.Source().Valid() {
		panic("repository: New called without an open data source")
	}
	r := &Repository{
		db:     db,
		src:    db.Source(),
		logger: slog.Default(),
		tracer: noop.NewTracerProvider().Tracer("quarry/repository"),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = r.logger.With("component", "repository")
	return r
}

// Source returns the handle over the whole data source the repository uses.
func (r *Repository) Source() queryable.Source {
	return r.src
}

// withSource returns a shallow copy bound to another source.
func (r *Repository) withSource(src queryable.Source) *Repository {
	c := *r
	c.src = src
	return &c
}

// observe runs fn inside a span, with the default timeout applied, and
// records the outcome. fn's result and error are returned untouched.
func observe[R any](ctx context.Context, r *Repository, name, shape string, rows func(R) int, fn func(context.Context) (R, error)) (R, error) {
	if r.timeout > 0 {
		if _, ok := ctx.Deadline(); !ok {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, r.timeout)
			defer cancel()
		}
	}

	invocationID := uuid.NewString()
	ctx, span := r.tracer.Start(ctx, "repository."+shape,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(tracing.QueryAttributes(name, shape, invocationID, dbSystem(r.db))...),
	)
	defer span.End()

	start := time.Now()
	result, err := fn(ctx)
	elapsed := time.Since(start)

	status := statusOf(err)
	n := -1
	if err == nil && rows != nil {
		n = rows(result)
		span.SetAttributes(attribute.Int(tracing.AttrRows, n))
	}

	switch status {
	case StatusSuccess:
		span.SetStatus(codes.Ok, "")
	case StatusCanceled:
		span.SetAttributes(attribute.Bool(tracing.AttrCanceled, true))
		span.SetStatus(codes.Error, err.Error())
	default:
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}

	if r.recorder != nil {
		r.recorder.RecordQuery(name, shape, status, elapsed, n)
	}

	r.logger.DebugContext(ctx, "Query completed",
		"query", name,
		"shape", shape,
		"status", status,
		"invocation_id", invocationID,
		"duration_ms", elapsed.Milliseconds(),
		"rows", n,
	)

	return result, err
}

func statusOf(err error) string {
	switch {
	case err == nil:
		return StatusSuccess
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return StatusCanceled
	default:
		return StatusError
	}
}

func dbSystem(db *datasource.DB) string {
	if db == nil {
		return "unknown"
	}
	if db.Driver().Dialect() == datasource.DialectPostgres {
		return "postgresql"
	}
	return "sqlite"
}

func sliceLen[T any](s []T) int { return len(s) }
