package repository

import (
	"context"

	"mercator-hq/quarry/pkg/query"
	"mercator-hq/quarry/pkg/queryable"
)

// Set returns the root queryable over T's table.
func Set[T any](r *Repository) queryable.Queryable[T] {
	return queryable.From[T](r.src)
}

// GetAll returns every row of T.
func GetAll[T any](ctx context.Context, r *Repository) ([]T, error) {
	return observe[[]T](ctx, r, "all", ShapeList, sliceLen[T], func(ctx context.Context) ([]T, error) {
		return Set[T](r).ToList(ctx)
	})
}

// GetList applies a composable query to T's table and materializes every row
// in the query's order.
func GetList[T, D any](ctx context.Context, r *Repository, q query.Query[T, D]) ([]D, error) {
	return observe[[]D](ctx, r, query.NameOf(q), ShapeList, sliceLen[D], func(ctx context.Context) ([]D, error) {
		return q.Apply(Set[T](r)).ToList(ctx)
	})
}

// Get executes a terminal query against T's table and returns its result
// unchanged.
func Get[T, R any](ctx context.Context, r *Repository, t query.Terminal[T, R]) (R, error) {
	return observe[R](ctx, r, query.NameOf(t), ShapeGet, nil, func(ctx context.Context) (R, error) {
		return t.Execute(ctx, Set[T](r))
	})
}

// GetListAsync is GetList completing on its own goroutine.
func GetListAsync[T, D any](ctx context.Context, r *Repository, q query.Query[T, D]) *query.Future[[]D] {
	return query.Go(ctx, func(ctx context.Context) ([]D, error) {
		return GetList(ctx, r, q)
	})
}

// GetAsync is Get completing on its own goroutine.
func GetAsync[T, R any](ctx context.Context, r *Repository, t query.Terminal[T, R]) *query.Future[R] {
	return query.Go(ctx, func(ctx context.Context) (R, error) {
		return Get(ctx, r, t)
	})
}

// GetContextList applies a query over the whole data source and materializes
// every row.
func GetContextList[D any](ctx context.Context, r *Repository, q query.ContextQuery[D]) ([]D, error) {
	return observe[[]D](ctx, r, query.NameOf(q), ShapeContextList, sliceLen[D], func(ctx context.Context) ([]D, error) {
		return q.Apply(r.src).ToList(ctx)
	})
}

// GetContext executes a terminal query over the whole data source.
func GetContext[R any](ctx context.Context, r *Repository, t query.ContextTerminal[R]) (R, error) {
	return observe[R](ctx, r, query.NameOf(t), ShapeContextGet, nil, func(ctx context.Context) (R, error) {
		return t.Execute(ctx, r.src)
	})
}

// GetContextListAsync is GetContextList completing on its own goroutine.
func GetContextListAsync[D any](ctx context.Context, r *Repository, q query.ContextQuery[D]) *query.Future[[]D] {
	return query.Go(ctx, func(ctx context.Context) ([]D, error) {
		return GetContextList(ctx, r, q)
	})
}

// GetContextAsync is GetContext completing on its own goroutine.
func GetContextAsync[R any](ctx context.Context, r *Repository, t query.ContextTerminal[R]) *query.Future[R] {
	return query.Go(ctx, func(ctx context.Context) (R, error) {
		return GetContext(ctx, r, t)
	})
}
