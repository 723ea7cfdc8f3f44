package query

import (
	"context"

	"mercator-hq/quarry/pkg/queryable"
)

// Identity returns a query that leaves its source unchanged.
func Identity[T any]() Query[T, T] {
	return identity[T]{}
}

type identity[T any] struct{}

func (identity[T]) Apply(src queryable.Queryable[T]) queryable.Queryable[T] { return src }

func (identity[T]) Name() string { return "identity" }

// Chain composes two queries: first is applied, then second.
func Chain[A, B, C any](first Query[A, B], second Query[B, C]) Query[A, C] {
	return chain[A, B, C]{first: first, second: second}
}

type chain[A, B, C any] struct {
	first  Query[A, B]
	second Query[B, C]
}

func (c chain[A, B, C]) Apply(src queryable.Queryable[A]) queryable.Queryable[C] {
	return c.second.Apply(c.first.Apply(src))
}

func (c chain[A, B, C]) Name() string {
	return NameOf(c.first) + "+" + NameOf(c.second)
}

// Pagination selects a window of a composable query.
type Pagination struct {
	Skip int `json:"skip"`
	Take int `json:"take"`
}

// PageResult is one window of a query plus the size of the unpaged result.
type PageResult[D any] struct {
	Items []D   `json:"items"`
	Total int64 `json:"total"`
	Skip  int   `json:"skip"`
	Take  int   `json:"take"`
}

// ToList returns a terminal that materializes q into a slice.
func ToList[S, D any](q Query[S, D]) Terminal[S, []D] {
	return terminal[S, []D]{
		name: "to_list(" + NameOf(q) + ")",
		run: func(ctx context.Context, src queryable.Queryable[S]) ([]D, error) {
			return q.Apply(src).ToList(ctx)
		},
	}
}

// FirstOrDefault returns a terminal that yields the first row of q in its
// defined order, or nil when q matches nothing.
func FirstOrDefault[S, D any](q Query[S, D]) Terminal[S, *D] {
	return terminal[S, *D]{
		name: "first_or_default(" + NameOf(q) + ")",
		run: func(ctx context.Context, src queryable.Queryable[S]) (*D, error) {
			return q.Apply(src).FirstOrDefault(ctx)
		},
	}
}

// Count returns a terminal that counts the rows of q.
func Count[S, D any](q Query[S, D]) Terminal[S, int64] {
	return terminal[S, int64]{
		name: "count(" + NameOf(q) + ")",
		run: func(ctx context.Context, src queryable.Queryable[S]) (int64, error) {
			return q.Apply(src).Count(ctx)
		},
	}
}

// Any returns a terminal that reports whether q matches at least one row.
func Any[S, D any](q Query[S, D]) Terminal[S, bool] {
	return terminal[S, bool]{
		name: "any(" + NameOf(q) + ")",
		run: func(ctx context.Context, src queryable.Queryable[S]) (bool, error) {
			return q.Apply(src).Any(ctx)
		},
	}
}

// Page returns a terminal that materializes one window of q together with the
// total number of rows q produces. Take <= 0 returns every row after Skip.
func Page[S, D any](q Query[S, D], p Pagination) Terminal[S, PageResult[D]] {
	return terminal[S, PageResult[D]]{
		name: "page(" + NameOf(q) + ")",
		run: func(ctx context.Context, src queryable.Queryable[S]) (PageResult[D], error) {
			applied := q.Apply(src)

			total, err := applied.Count(ctx)
			if err != nil {
				return PageResult[D]{}, err
			}

			window := applied
			if p.Skip > 0 {
				window = window.Skip(p.Skip)
			}
			if p.Take > 0 {
				window = window.Take(p.Take)
			}
			items, err := window.ToList(ctx)
			if err != nil {
				return PageResult[D]{}, err
			}

			return PageResult[D]{Items: items, Total: total, Skip: p.Skip, Take: p.Take}, nil
		},
	}
}

// terminal is the shared implementation of the standard terminals.
type terminal[S, R any] struct {
	name string
	run  func(ctx context.Context, src queryable.Queryable[S]) (R, error)
}

func (t terminal[S, R]) Execute(ctx context.Context, src queryable.Queryable[S]) (R, error) {
	return t.run(ctx, src)
}

func (t terminal[S, R]) Name() string { return t.name }
