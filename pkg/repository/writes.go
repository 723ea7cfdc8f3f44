package repository

import (
	"context"
	"fmt"

	"mercator-hq/quarry/pkg/query"
	"mercator-hq/quarry/pkg/queryable"
)

// Add inserts entity. Generated keys are written back into it.
func Add[T any](ctx context.Context, r *Repository, entity *T) error {
	_, err := observe[struct{}](ctx, r, "add("+typeName[T]()+")", ShapeWrite, nil, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, r.src.DB().WithContext(ctx).Create(entity).Error
	})
	return err
}

// AddRange inserts entities in one statement.
func AddRange[T any](ctx context.Context, r *Repository, entities []T) error {
	if len(entities) == 0 {
		return nil
	}
	_, err := observe[struct{}](ctx, r, "add_range("+typeName[T]()+")", ShapeWrite, nil, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, r.src.DB().WithContext(ctx).Create(&entities).Error
	})
	return err
}

// Update writes every field of entity, inserting it if its key is new.
func Update[T any](ctx context.Context, r *Repository, entity *T) error {
	_, err := observe[struct{}](ctx, r, "update("+typeName[T]()+")", ShapeWrite, nil, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, r.src.DB().WithContext(ctx).Save(entity).Error
	})
	return err
}

// UpdateRange writes every field of each entity.
func UpdateRange[T any](ctx context.Context, r *Repository, entities []T) error {
	if len(entities) == 0 {
		return nil
	}
	_, err := observe[struct{}](ctx, r, "update_range("+typeName[T]()+")", ShapeWrite, nil, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, r.src.DB().WithContext(ctx).Save(&entities).Error
	})
	return err
}

// Remove deletes entity by primary key.
func Remove[T any](ctx context.Context, r *Repository, entity *T) error {
	_, err := observe[struct{}](ctx, r, "remove("+typeName[T]()+")", ShapeWrite, nil, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, r.src.DB().WithContext(ctx).Delete(entity).Error
	})
	return err
}

// RemoveRange deletes entities by primary key.
func RemoveRange[T any](ctx context.Context, r *Repository, entities []T) error {
	if len(entities) == 0 {
		return nil
	}
	_, err := observe[struct{}](ctx, r, "remove_range("+typeName[T]()+")", ShapeWrite, nil, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, r.src.DB().WithContext(ctx).Delete(&entities).Error
	})
	return err
}

// ExecuteDelete deletes every row of T matched by q and returns the number of
// rows removed.
func ExecuteDelete[T any](ctx context.Context, r *Repository, q query.Query[T, T]) (int64, error) {
	return observe[int64](ctx, r, "delete("+query.NameOf(q)+")", ShapeBulk, nil, func(ctx context.Context) (int64, error) {
		return q.Apply(Set[T](r)).ExecuteDelete(ctx)
	})
}

// ExecuteUpdate applies sets to every row of T matched by q and returns the
// number of rows changed.
func ExecuteUpdate[T any](ctx context.Context, r *Repository, q query.Query[T, T], sets ...queryable.Assignment) (int64, error) {
	return observe[int64](ctx, r, "update("+query.NameOf(q)+")", ShapeBulk, nil, func(ctx context.Context) (int64, error) {
		return q.Apply(Set[T](r)).ExecuteUpdate(ctx, sets...)
	})
}

// typeName returns a short label for T used in write operation names.
func typeName[T any]() string {
	var zero T
	return fmt.Sprintf("%T", zero)
}
