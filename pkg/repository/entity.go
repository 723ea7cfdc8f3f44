package repository

import (
	"context"

	"mercator-hq/quarry/pkg/query"
	"mercator-hq/quarry/pkg/queryable"
)

// EntityRepository is the entity-specific façade: every operation is fixed to
// one entity type T. Queries that change the result type go through the
// package functions on Repository instead.
type EntityRepository[T any] struct {
	repo *Repository
}

// For returns the entity-specific façade for T sharing r's data source and
// instrumentation.
func For[T any](r *Repository) *EntityRepository[T] {
	return &EntityRepository[T]{repo: r}
}

// Query returns the root queryable over T's table.
func (e *EntityRepository[T]) Query() queryable.Queryable[T] {
	return Set[T](e.repo)
}

// GetAll returns every row.
func (e *EntityRepository[T]) GetAll(ctx context.Context) ([]T, error) {
	return GetAll[T](ctx, e.repo)
}

// GetList applies q and materializes every row in q's order.
func (e *EntityRepository[T]) GetList(ctx context.Context, q query.Query[T, T]) ([]T, error) {
	return GetList(ctx, e.repo, q)
}

// FirstOrDefault returns the first row of q in its defined order, or nil.
func (e *EntityRepository[T]) FirstOrDefault(ctx context.Context, q query.Query[T, T]) (*T, error) {
	return Get(ctx, e.repo, query.FirstOrDefault(q))
}

// Count returns the number of rows q matches.
func (e *EntityRepository[T]) Count(ctx context.Context, q query.Query[T, T]) (int64, error) {
	return Get(ctx, e.repo, query.Count(q))
}

// Page returns one window of q and the total number of rows it matches.
func (e *EntityRepository[T]) Page(ctx context.Context, q query.Query[T, T], p query.Pagination) (query.PageResult[T], error) {
	return Get(ctx, e.repo, query.Page(q, p))
}

// GetListAsync is GetList completing on its own goroutine.
func (e *EntityRepository[T]) GetListAsync(ctx context.Context, q query.Query[T, T]) *query.Future[[]T] {
	return GetListAsync(ctx, e.repo, q)
}

// FirstOrDefaultAsync is FirstOrDefault completing on its own goroutine.
func (e *EntityRepository[T]) FirstOrDefaultAsync(ctx context.Context, q query.Query[T, T]) *query.Future[*T] {
	return GetAsync(ctx, e.repo, query.FirstOrDefault(q))
}

// Add inserts entity.
func (e *EntityRepository[T]) Add(ctx context.Context, entity *T) error {
	return Add(ctx, e.repo, entity)
}

// AddRange inserts entities.
func (e *EntityRepository[T]) AddRange(ctx context.Context, entities []T) error {
	return AddRange(ctx, e.repo, entities)
}

// Update writes every field of entity.
func (e *EntityRepository[T]) Update(ctx context.Context, entity *T) error {
	return Update(ctx, e.repo, entity)
}

// Remove deletes entity by primary key.
func (e *EntityRepository[T]) Remove(ctx context.Context, entity *T) error {
	return Remove(ctx, e.repo, entity)
}

// ExecuteDelete deletes every row matched by q.
func (e *EntityRepository[T]) ExecuteDelete(ctx context.Context, q query.Query[T, T]) (int64, error) {
	return ExecuteDelete(ctx, e.repo, q)
}

// ExecuteUpdate applies sets to every row matched by q.
func (e *EntityRepository[T]) ExecuteUpdate(ctx context.Context, q query.Query[T, T], sets ...queryable.Assignment) (int64, error) {
	return ExecuteUpdate(ctx, e.repo, q, sets...)
}
