package datasource

import (
	"context"
	"database/sql"
	"log/slog"

	"gorm.io/gorm"

	"mercator-hq/quarry/pkg/queryable"
)

// DB is an open data source: a database/sql pool wrapped by gorm.
// It is safe for concurrent use.
type DB struct {
	gorm   *gorm.DB
	sql    *sql.DB
	driver Driver
	config Config
	logger *slog.Logger
}

// Option configures Open.
type Option func(*options)

type options struct {
	logger   *slog.Logger
	observer StatementObserver
}

// WithLogger sets the logger used for lifecycle and statement logs.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithStatementObserver reports every executed statement to observer.
func WithStatementObserver(observer StatementObserver) Option {
	return func(o *options) {
		o.observer = observer
	}
}

// Open opens the configured database, verifies connectivity and prepares it
// for queries. The caller must Close the returned DB.
func Open(ctx context.Context, cfg Config, opts ...Option) (*DB, error) {
	o := options{logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}

	if err := cfg.Validate(); err != nil {
		return nil, NewStorageError(cfg.Driver, "configure", err)
	}
	driver, _ := ParseDriver(cfg.Driver)
	logger := o.logger.With("component", "datasource", "driver", driver.String())

	sqlDB, err := sql.Open(driver.String(), buildDSN(driver, cfg))
	if err != nil {
		return nil, NewStorageError(driver.String(), "open", err)
	}
	configurePool(sqlDB, driver, cfg)

	pingCtx := ctx
	if cfg.PingTimeout > 0 {
		var cancel context.CancelFunc
		pingCtx, cancel = context.WithTimeout(ctx, cfg.PingTimeout)
		defer cancel()
	}
	if err := sqlDB.PingContext(pingCtx); err != nil {
		sqlDB.Close()
		return nil, NewStorageError(driver.String(), "ping", err)
	}

	gdb, err := gorm.Open(dialector(driver, sqlDB), &gorm.Config{
		Logger:                 newStatementLogger(logger, cfg.SlowThreshold, o.observer),
		SkipDefaultTransaction: cfg.SkipDefaultTransaction,
		PrepareStmt:            cfg.PrepareStmt,
	})
	if err != nil {
		sqlDB.Close()
		return nil, NewStorageError(driver.String(), "open", err)
	}

	logger.Info("Data source opened",
		"dialect", driver.Dialect(),
		"memory", driver.Dialect() == DialectSQLite && isMemoryDSN(cfg.DSN),
		"max_open_conns", sqlDB.Stats().MaxOpenConnections,
	)

	return &DB{
		gorm:   gdb,
		sql:    sqlDB,
		driver: driver,
		config: cfg,
		logger: logger,
	}, nil
}

// configurePool applies pool limits. A private in-memory SQLite database
// lives only as long as its connection, so it is pinned to one connection
// that is never recycled.
func configurePool(db *sql.DB, driver Driver, cfg Config) {
	if driver.Dialect() == DialectSQLite && isMemoryDSN(cfg.DSN) {
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
		db.SetConnMaxLifetime(0)
		db.SetConnMaxIdleTime(0)
		return
	}

	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	db.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)
}

// Source returns a handle over the whole database for queries.
func (db *DB) Source() queryable.Source {
	return queryable.NewSource(db.gorm)
}

// Gorm returns the gorm handle.
func (db *DB) Gorm() *gorm.DB {
	return db.gorm
}

// SQL returns the underlying connection pool.
func (db *DB) SQL() *sql.DB {
	return db.sql
}

// Driver returns the driver in use.
func (db *DB) Driver() Driver {
	return db.driver
}

// Ping verifies the database is reachable.
func (db *DB) Ping(ctx context.Context) error {
	if err := db.sql.PingContext(ctx); err != nil {
		return NewStorageError(db.driver.String(), "ping", err)
	}
	return nil
}

// Stats returns connection pool statistics.
func (db *DB) Stats() sql.DBStats {
	return db.sql.Stats()
}

// Migrate creates or updates the tables for the given models.
func (db *DB) Migrate(ctx context.Context, models ...any) error {
	if err := db.gorm.WithContext(ctx).AutoMigrate(models...); err != nil {
		return NewStorageError(db.driver.String(), "migrate", err)
	}
	db.logger.Debug("Schema migrated", "models", len(models))
	return nil
}

// HasTable reports whether the named table exists.
func (db *DB) HasTable(ctx context.Context, table string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	return db.gorm.WithContext(ctx).Migrator().HasTable(table), nil
}

// Close closes the connection pool.
func (db *DB) Close() error {
	if err := db.sql.Close(); err != nil {
		return NewStorageError(db.driver.String(), "close", err)
	}
	db.logger.Info("Data source closed")
	return nil
}
