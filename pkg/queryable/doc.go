// Package queryable provides a typed, deferred view over a relational data
// source.
//
// # Overview
//
// A Queryable[T] describes a query whose rows materialize as values of T. It
// wraps a gorm session: gorm owns SQL generation, dialect handling, pooling and
// transactions, while this package adds the element type and guarantees that
// composition never executes anything and never mutates the receiver.
//
//	products := queryable.From[catalog.Product](db.Source())
//	cheap := products.Where("price < ?", 12).OrderBy("price")
//
//	// products is unchanged and can still be composed independently.
//	all, err := products.ToList(ctx)
//	list, err := cheap.ToList(ctx)
//
// # Projection
//
// Go methods cannot declare type parameters, so projection to another result
// type is a package function. The projected queryable keeps the source model,
// so its table, joins and conditions still apply:
//
//	views := queryable.Project[catalog.Product, catalog.ProductProjection](cheap,
//	    "products.name AS name",
//	    "products.price AS price",
//	)
//
// # Materialization
//
// Only the materializers touch the database: ToList, FirstOrDefault, Count,
// Any, Stream, ExecuteDelete and ExecuteUpdate. Each takes a context that is
// passed through to the driver; cancellation surfaces as context.Canceled or
// context.DeadlineExceeded. Errors from gorm and the driver are returned as-is.
//
// FirstOrDefault returns nil when nothing matches. It never reports
// gorm.ErrRecordNotFound.
package queryable
