package queryable

import "gorm.io/gorm"

// Source is a handle over an entire data source: either the database itself
// or an open transaction. Queries that join unrelated collections receive a
// Source instead of a single Queryable.
type Source struct {
	db *gorm.DB
}

// NewSource wraps a gorm handle. The handle is used as a root; conditions
// already chained onto it are discarded.
func NewSource(db *gorm.DB) Source {
	if db == nil {
		return Source{}
	}
	return Source{db: db.Session(&gorm.Session{NewDB: true})}
}

// DB returns the underlying gorm handle.
func (s Source) DB() *gorm.DB {
	return s.db
}

// Valid reports whether the source wraps a gorm handle.
func (s Source) Valid() bool {
	return s.db != nil
}

// From returns a queryable over the table that stores T.
func From[T any](src Source) Queryable[T] {
	return Queryable[T]{db: src.db.Model(new(T)).Session(&gorm.Session{})}
}

// Table returns a queryable over an explicitly named table or subquery
// expression, scanning rows into T. Use it for views and derived tables that
// have no model of their own.
func Table[T any](src Source, name string, args ...any) Queryable[T] {
	return Queryable[T]{db: src.db.Table(name, args...).Session(&gorm.Session{})}
}
