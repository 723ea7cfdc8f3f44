// Package datasource opens and manages the relational store behind quarry.
//
// A DB pairs a database/sql pool with a gorm handle. Three drivers are
// registered:
//
//   - "sqlite": modernc.org/sqlite, pure Go, the default
//   - "sqlite3": github.com/mattn/go-sqlite3, requires cgo
//   - "pgx": github.com/jackc/pgx/v5 for PostgreSQL ("postgres" is an alias)
//
// Open validates the configuration, applies pool limits, pings the database
// and hands the pool to gorm. In-memory SQLite databases are pinned to a
// single connection because the database disappears with its connection.
//
//	db, err := datasource.Open(ctx, datasource.Config{
//	    Driver:      "sqlite",
//	    DSN:         "data/quarry.db",
//	    ForeignKeys: true,
//	})
//	if err != nil {
//	    return err
//	}
//	defer db.Close()
//
//	products := queryable.From[catalog.Product](db.Source())
//
// Every statement gorm executes is logged through slog and, when an observer
// is installed with WithStatementObserver, reported for metrics.
//
// Transactions are started with BeginTx and expose their own Source, so the
// same query objects run unchanged inside and outside a transaction.
package datasource
