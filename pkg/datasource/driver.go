package datasource

import (
	"database/sql"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib" // registers "pgx"
	_ "github.com/mattn/go-sqlite3"    // registers "sqlite3"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	_ "modernc.org/sqlite" // registers "sqlite"
)

// Driver names a database/sql driver registered by this package.
type Driver string

const (
	// DriverSQLite is the pure-Go SQLite driver (modernc.org/sqlite).
	DriverSQLite Driver = "sqlite"

	// DriverSQLite3 is the cgo SQLite driver (github.com/mattn/go-sqlite3).
	DriverSQLite3 Driver = "sqlite3"

	// DriverPgx is the PostgreSQL driver (github.com/jackc/pgx/v5/stdlib).
	DriverPgx Driver = "pgx"
)

// Dialects reported by Driver.Dialect.
const (
	DialectSQLite   = "sqlite"
	DialectPostgres = "postgres"
)

// ParseDriver resolves a configured driver name, accepting common aliases.
func ParseDriver(name string) (Driver, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "sqlite", "modernc":
		return DriverSQLite, nil
	case "sqlite3", "mattn":
		return DriverSQLite3, nil
	case "pgx", "postgres", "postgresql":
		return DriverPgx, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedDriver, name)
	}
}

// Dialect returns the SQL dialect spoken by the driver.
func (d Driver) Dialect() string {
	if d == DriverPgx {
		return DialectPostgres
	}
	return DialectSQLite
}

// String returns the driver name.
func (d Driver) String() string {
	return string(d)
}

// dialector wraps an open pool in the gorm dialector matching d.
func dialector(d Driver, conn *sql.DB) gorm.Dialector {
	if d.Dialect() == DialectPostgres {
		return postgres.New(postgres.Config{Conn: conn})
	}
	return sqlite.New(sqlite.Config{DriverName: string(d), Conn: conn})
}

// buildDSN appends driver-specific connection parameters to cfg.DSN.
func buildDSN(d Driver, cfg Config) string {
	params := url.Values{}
	busyMS := strconv.FormatInt(cfg.BusyTimeout.Milliseconds(), 10)

	switch d {
	case DriverSQLite:
		if cfg.ForeignKeys {
			params.Add("_pragma", "foreign_keys(1)")
		}
		if cfg.BusyTimeout > 0 {
			params.Add("_pragma", "busy_timeout("+busyMS+")")
		}
	case DriverSQLite3:
		if cfg.ForeignKeys {
			params.Set("_foreign_keys", "1")
		}
		if cfg.BusyTimeout > 0 {
			params.Set("_busy_timeout", busyMS)
		}
	default:
		return cfg.DSN
	}

	if len(params) == 0 {
		return cfg.DSN
	}
	sep := "?"
	if strings.Contains(cfg.DSN, "?") {
		sep = "&"
	}
	return cfg.DSN + sep + params.Encode()
}

// isMemoryDSN reports whether an SQLite DSN names an in-memory database.
func isMemoryDSN(dsn string) bool {
	return strings.HasPrefix(dsn, ":memory:") ||
		strings.HasPrefix(dsn, "file::memory:") ||
		strings.Contains(dsn, "mode=memory")
}
