package datasource

import (
	"fmt"
	"time"
)

// Config contains configuration for opening a data source.
type Config struct {
	// Driver selects the database/sql driver: "sqlite", "sqlite3" or "pgx".
	Driver string

	// DSN is the driver-specific data source name.
	DSN string

	// MaxOpenConns is the maximum number of open connections.
	// In-memory SQLite databases always use a single connection.
	MaxOpenConns int

	// MaxIdleConns is the maximum number of idle connections.
	MaxIdleConns int

	// ConnMaxLifetime is the maximum time a connection may be reused.
	ConnMaxLifetime time.Duration

	// ConnMaxIdleTime is the maximum time a connection may sit idle.
	ConnMaxIdleTime time.Duration

	// PingTimeout bounds the connectivity check performed by Open.
	PingTimeout time.Duration

	// BusyTimeout is how long SQLite waits on a locked database.
	BusyTimeout time.Duration

	// ForeignKeys enables foreign key enforcement on SQLite.
	ForeignKeys bool

	// SkipDefaultTransaction stops gorm from wrapping single writes in a
	// transaction.
	SkipDefaultTransaction bool

	// PrepareStmt caches prepared statements per connection.
	PrepareStmt bool

	// SlowThreshold is the duration above which a statement is logged as slow.
	// Zero disables slow statement logging.
	SlowThreshold time.Duration
}

// DefaultConfig returns a configuration for a private in-memory SQLite
// database.
func DefaultConfig() Config {
	return Config{
		Driver:        string(DriverSQLite),
		DSN:           ":memory:",
		MaxOpenConns:  10,
		MaxIdleConns:  5,
		PingTimeout:   5 * time.Second,
		BusyTimeout:   5 * time.Second,
		ForeignKeys:   true,
		SlowThreshold: 200 * time.Millisecond,
	}
}

// Validate checks the configuration without opening anything.
func (c Config) Validate() error {
	if _, err := ParseDriver(c.Driver); err != nil {
		return err
	}
	if c.DSN == "" {
		return ErrEmptyDSN
	}
	if c.MaxOpenConns < 0 {
		return fmt.Errorf("max open connections must be non-negative, got %d", c.MaxOpenConns)
	}
	if c.MaxIdleConns < 0 {
		return fmt.Errorf("max idle connections must be non-negative, got %d", c.MaxIdleConns)
	}
	if c.ConnMaxLifetime < 0 || c.ConnMaxIdleTime < 0 || c.PingTimeout < 0 || c.BusyTimeout < 0 || c.SlowThreshold < 0 {
		return fmt.Errorf("durations must be non-negative")
	}
	return nil
}
