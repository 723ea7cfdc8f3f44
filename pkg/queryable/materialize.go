package queryable

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

// ErrNoAssignments is returned by ExecuteUpdate when called without any
// column assignments.
var ErrNoAssignments = errors.New("queryable: update requires at least one assignment")

// Assignment sets one column in ExecuteUpdate.
type Assignment struct {
	Column string
	Value  any
}

// Set assigns a literal value to column.
func Set(column string, value any) Assignment {
	return Assignment{Column: column, Value: value}
}

// SetExpr assigns a SQL expression to column, e.g. SetExpr("price", "price * ?", 1.1).
func SetExpr(column, sql string, args ...any) Assignment {
	return Assignment{Column: column, Value: gorm.Expr(sql, args...)}
}

// ToList runs the query and returns every row in query order. An empty result
// is an empty, non-nil slice.
func (q Queryable[T]) ToList(ctx context.Context) ([]T, error) {
	out := make([]T, 0)
	if err := q.db.WithContext(ctx).Find(&out).Error; err != nil {
		return nil, err
	}
	if out == nil {
		out = []T{}
	}
	return out, nil
}

// FirstOrDefault returns the first row in the query's order, or nil when the
// query matches nothing.
func (q Queryable[T]) FirstOrDefault(ctx context.Context) (*T, error) {
	rows, err := q.Take(1).ToList(ctx)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

// Count returns the number of rows the query produces. Grouping, distinct,
// limit and offset are honored because the query is counted as a subquery.
func (q Queryable[T]) Count(ctx context.Context) (int64, error) {
	var n int64
	err := q.db.Session(&gorm.Session{NewDB: true, Context: ctx}).
		Table("(?) AS counted", q.db).
		Count(&n).Error
	if err != nil {
		return 0, err
	}
	return n, nil
}

// Any reports whether the query produces at least one row.
func (q Queryable[T]) Any(ctx context.Context) (bool, error) {
	n, err := q.Take(1).Count(ctx)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Stream runs the query and delivers rows one at a time. The row channel is
// closed when the rows are exhausted, the context is cancelled, or an error
// occurs; at most one error is sent on the error channel.
func (q Queryable[T]) Stream(ctx context.Context) (<-chan T, <-chan error) {
	rowCh := make(chan T, 100)
	errCh := make(chan error, 1)

	go func() {
		defer close(rowCh)
		defer close(errCh)

		rows, err := q.db.WithContext(ctx).Rows()
		if err != nil {
			errCh <- err
			return
		}
		defer rows.Close()

		for rows.Next() {
			var item T
			if err := q.db.ScanRows(rows, &item); err != nil {
				errCh <- err
				return
			}

			select {
			case rowCh <- item:
			case <-ctx.Done():
				errCh <- ctx.Err()
				return
			}
		}

		if err := rows.Err(); err != nil {
			errCh <- err
		}
	}()

	return rowCh, errCh
}

// ExecuteDelete deletes every row matched by the query's conditions and
// returns the number of rows affected. Joins, ordering and paging do not
// apply to deletes. A query without conditions is refused by gorm with
// gorm.ErrMissingWhereClause.
func (q Queryable[T]) ExecuteDelete(ctx context.Context) (int64, error) {
	res := q.db.WithContext(ctx).Delete(new(T))
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

// ExecuteUpdate applies the assignments to every row matched by the query's
// conditions and returns the number of rows affected. Hooks and automatic
// timestamps are skipped.
func (q Queryable[T]) ExecuteUpdate(ctx context.Context, sets ...Assignment) (int64, error) {
	if len(sets) == 0 {
		return 0, ErrNoAssignments
	}

	values := make(map[string]any, len(sets))
	for _, s := range sets {
		values[s.Column] = s.Value
	}

	res := q.db.WithContext(ctx).Model(new(T)).UpdateColumns(values)
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}
