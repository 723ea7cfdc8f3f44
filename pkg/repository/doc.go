// Package repository executes queries against a data source.
//
// Two façades are provided. The cross-entity Repository exposes generic
// package functions (GetList, Get, GetContextList, GetContext and their
// Async forms) that accept any entity type and any result type. The
// entity-specific EntityRepository, obtained with For, fixes the entity type
// and offers the common operations as methods.
//
// Every call is wrapped with a tracing span, a metrics observation and a
// debug log line; results and errors are returned unchanged.
//
//	repo := repository.New(db, repository.WithLogger(logger))
//	products, err := repository.GetList(ctx, repo, queries.BananasOrApplesOrderedByPrice())
package repository
