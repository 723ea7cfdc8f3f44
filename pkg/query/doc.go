// Package query defines the query-specification contract: reusable, stateless
// objects that describe how to turn a queryable source into a result.
//
// # Shapes
//
// There are two shapes, and one capability flag:
//
//   - Query[S, D] is composable. Apply maps a Queryable[S] to a Queryable[D]
//     without touching the database, so callers can keep filtering, sorting
//     or paging before anything runs.
//   - Terminal[S, R] is materializing. Execute forces evaluation exactly once
//     and returns a concrete value: a slice, an optional pointer, a count.
//   - Mode selects synchronous or asynchronous completion for a terminal.
//     Asynchronous invocations return a Future that reports cancellation
//     instead of a partial result.
//
// ContextQuery and ContextTerminal are the same two shapes over a whole
// queryable.Source rather than a single collection; use them when a query has
// to join unrelated tables.
//
// # Usage
//
//	rule := queries.ByNames{Names: []string{"Banana", "Apple"}}
//
//	// Composable: still deferred.
//	q := query.Apply(queryable.From[catalog.Product](src), rule)
//	page := q.Skip(10).Take(10)
//
//	// Terminal, synchronous.
//	first, err := query.Execute(ctx, products, query.FirstOrDefault(rule))
//
//	// Terminal, asynchronous.
//	fut := query.ExecuteAsync(ctx, products, query.ToList(rule))
//	list, err := fut.Await(ctx)
//
// # Errors
//
// Nothing in this package creates errors of its own. Failures from the data
// source reach the caller unchanged, an empty first-or-default is a nil
// pointer, and cancellation is reported as the context's error.
package query
