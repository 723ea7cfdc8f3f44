package query

import (
	"context"
	"fmt"

	"mercator-hq/quarry/pkg/queryable"
)

// Mode selects how a terminal query completes.
type Mode uint8

const (
	// Sync runs the query on the calling goroutine.
	Sync Mode = iota
	// Async runs the query on its own goroutine and hands back a Future.
	Async
)

// String returns the mode's label.
func (m Mode) String() string {
	switch m {
	case Sync:
		return "sync"
	case Async:
		return "async"
	default:
		return fmt.Sprintf("mode(%d)", uint8(m))
	}
}

// Apply applies a composable query to src. Nothing is executed.
func Apply[S, D any](src queryable.Queryable[S], q Query[S, D]) queryable.Queryable[D] {
	return q.Apply(src)
}

// ApplyContext applies a context-scoped composable query to src.
func ApplyContext[D any](src queryable.Source, q ContextQuery[D]) queryable.Queryable[D] {
	return q.Apply(src)
}

// Invoke runs a terminal query in the given mode. In Sync mode the returned
// Future is already complete.
func Invoke[S, R any](ctx context.Context, src queryable.Queryable[S], t Terminal[S, R], mode Mode) *Future[R] {
	run := func(ctx context.Context) (R, error) {
		return t.Execute(ctx, src)
	}
	if mode == Async {
		return Go(ctx, run)
	}
	if err := ctx.Err(); err != nil {
		var zero R
		return Resolved(zero, err)
	}
	return Resolved[R](run(ctx))
}

// Execute runs a terminal query synchronously.
func Execute[S, R any](ctx context.Context, src queryable.Queryable[S], t Terminal[S, R]) (R, error) {
	return Invoke(ctx, src, t, Sync).Result()
}

// ExecuteAsync runs a terminal query asynchronously.
func ExecuteAsync[S, R any](ctx context.Context, src queryable.Queryable[S], t Terminal[S, R]) *Future[R] {
	return Invoke(ctx, src, t, Async)
}

// InvokeContext runs a context-scoped terminal query in the given mode.
func InvokeContext[R any](ctx context.Context, src queryable.Source, t ContextTerminal[R], mode Mode) *Future[R] {
	run := func(ctx context.Context) (R, error) {
		return t.Execute(ctx, src)
	}
	if mode == Async {
		return Go(ctx, run)
	}
	if err := ctx.Err(); err != nil {
		var zero R
		return Resolved(zero, err)
	}
	return Resolved[R](run(ctx))
}

// ExecuteContext runs a context-scoped terminal query synchronously.
func ExecuteContext[R any](ctx context.Context, src queryable.Source, t ContextTerminal[R]) (R, error) {
	return InvokeContext(ctx, src, t, Sync).Result()
}
