package query

import (
	"context"
	"fmt"
	"strings"

	"mercator-hq/quarry/pkg/queryable"
)

// Query is a composable query from S to D. Apply must not run the query and
// must not retain or mutate its input.
type Query[S, D any] interface {
	Apply(src queryable.Queryable[S]) queryable.Queryable[D]
}

// Filter is a composable query that keeps the element type.
type Filter[T any] = Query[T, T]

// Terminal is a materializing query from S to a concrete result R. Execute
// runs the query exactly once.
type Terminal[S, R any] interface {
	Execute(ctx context.Context, src queryable.Queryable[S]) (R, error)
}

// ContextQuery is a composable query over an entire data source.
type ContextQuery[D any] interface {
	Apply(src queryable.Source) queryable.Queryable[D]
}

// ContextTerminal is a materializing query over an entire data source.
type ContextTerminal[R any] interface {
	Execute(ctx context.Context, src queryable.Source) (R, error)
}

// Named is implemented by query objects that carry a stable name for logs,
// metrics and traces.
type Named interface {
	Name() string
}

// NameOf returns q's name, or its Go type name when q does not implement Named.
func NameOf(q any) string {
	if n, ok := q.(Named); ok {
		if name := n.Name(); name != "" {
			return name
		}
	}
	name := fmt.Sprintf("%T", q)
	name = strings.TrimPrefix(name, "*")
	if i := strings.IndexByte(name, '['); i > 0 {
		name = name[:i]
	}
	return name
}

// Func adapts a function to Query.
type Func[S, D any] func(src queryable.Queryable[S]) queryable.Queryable[D]

// Apply calls f.
func (f Func[S, D]) Apply(src queryable.Queryable[S]) queryable.Queryable[D] {
	return f(src)
}

// TerminalFunc adapts a function to Terminal.
type TerminalFunc[S, R any] func(ctx context.Context, src queryable.Queryable[S]) (R, error)

// Execute calls f.
func (f TerminalFunc[S, R]) Execute(ctx context.Context, src queryable.Queryable[S]) (R, error) {
	return f(ctx, src)
}

// ContextFunc adapts a function to ContextQuery.
type ContextFunc[D any] func(src queryable.Source) queryable.Queryable[D]

// Apply calls f.
func (f ContextFunc[D]) Apply(src queryable.Source) queryable.Queryable[D] {
	return f(src)
}

// ContextTerminalFunc adapts a function to ContextTerminal.
type ContextTerminalFunc[R any] func(ctx context.Context, src queryable.Source) (R, error)

// Execute calls f.
func (f ContextTerminalFunc[R]) Execute(ctx context.Context, src queryable.Source) (R, error) {
	return f(ctx, src)
}
