package queryable

import (
	"strings"

	"gorm.io/gorm"
)

// Queryable is a deferred query producing values of T. The zero value is not
// usable; obtain one with From, Table or Project.
//
// Every composition method returns a new Queryable and leaves the receiver
// untouched, so a Queryable can be shared between goroutines and reused as the
// base of several independent queries.
type Queryable[T any] struct {
	db *gorm.DB
}

// derive freezes db into a reusable session so that later chaining on the
// result clones the statement instead of appending to it.
func (q Queryable[T]) derive(db *gorm.DB) Queryable[T] {
	return Queryable[T]{db: db.Session(&gorm.Session{})}
}

// Where adds a condition. query is anything gorm.DB.Where accepts: a SQL
// fragment with ? placeholders, a struct, or a map.
func (q Queryable[T]) Where(query any, args ...any) Queryable[T] {
	return q.derive(q.db.Where(query, args...))
}

// Not adds a negated condition.
func (q Queryable[T]) Not(query any, args ...any) Queryable[T] {
	return q.derive(q.db.Not(query, args...))
}

// Or adds a condition joined to the previous ones with OR.
func (q Queryable[T]) Or(query any, args ...any) Queryable[T] {
	return q.derive(q.db.Or(query, args...))
}

// OrderBy appends an ascending sort key.
func (q Queryable[T]) OrderBy(column string) Queryable[T] {
	return q.derive(q.db.Order(column))
}

// OrderByDesc appends a descending sort key.
func (q Queryable[T]) OrderByDesc(column string) Queryable[T] {
	return q.derive(q.db.Order(column + " DESC"))
}

// Joins adds a join. query is either a raw JOIN clause or the name of a
// belongs-to/has-one association on the model.
func (q Queryable[T]) Joins(query string, args ...any) Queryable[T] {
	return q.derive(q.db.Joins(query, args...))
}

// Include eager-loads an association after the main query runs.
func (q Queryable[T]) Include(association string, args ...any) Queryable[T] {
	return q.derive(q.db.Preload(association, args...))
}

// Select restricts the selected columns. Columns are raw SQL expressions and
// may carry aliases.
func (q Queryable[T]) Select(columns ...string) Queryable[T] {
	if len(columns) == 0 {
		return q
	}
	return q.derive(q.db.Select(strings.Join(columns, ", ")))
}

// Group adds a GROUP BY expression.
func (q Queryable[T]) Group(column string) Queryable[T] {
	return q.derive(q.db.Group(column))
}

// Having adds a HAVING condition.
func (q Queryable[T]) Having(query any, args ...any) Queryable[T] {
	return q.derive(q.db.Having(query, args...))
}

// Distinct selects distinct rows, optionally over the given columns.
func (q Queryable[T]) Distinct(columns ...string) Queryable[T] {
	args := make([]any, len(columns))
	for i, c := range columns {
		args[i] = c
	}
	return q.derive(q.db.Distinct(args...))
}

// Skip bypasses the first n rows. A negative n removes a previous Skip.
func (q Queryable[T]) Skip(n int) Queryable[T] {
	return q.derive(q.db.Offset(n))
}

// Take limits the result to n rows. A negative n removes a previous Take.
func (q Queryable[T]) Take(n int) Queryable[T] {
	return q.derive(q.db.Limit(n))
}

// Scopes applies raw gorm scopes for anything the typed methods do not cover.
func (q Queryable[T]) Scopes(scopes ...func(*gorm.DB) *gorm.DB) Queryable[T] {
	return q.derive(q.db.Scopes(scopes...))
}

// DB returns the session backing q. Chaining onto it does not affect q.
func (q Queryable[T]) DB() *gorm.DB {
	return q.db
}

// SQL renders the statement q would run, with arguments inlined. Nothing is
// sent to the database.
func (q Queryable[T]) SQL() string {
	return q.db.ToSQL(func(tx *gorm.DB) *gorm.DB {
		var out []T
		return tx.Find(&out)
	})
}

// Project changes the result type of q to D. The model, joins, conditions and
// ordering of q are kept; columns, when given, replace the select list and
// should be aliased to D's column names.
func Project[S, D any](q Queryable[S], columns ...string) Queryable[D] {
	db := q.db
	if len(columns) > 0 {
		db = db.Select(strings.Join(columns, ", "))
	}
	return Queryable[D]{db: db.Session(&gorm.Session{})}
}
