package health

import (
	"context"
	"fmt"
)

// Pinger is implemented by data sources that can verify their connection.
type Pinger interface {
	Ping(ctx context.Context) error
}

// DatabaseCheck reports whether the database answers a ping.
func DatabaseCheck(db Pinger) CheckFunc {
	return func(ctx context.Context) error {
		if err := db.Ping(ctx); err != nil {
			return fmt.Errorf("database unreachable: %w", err)
		}
		return nil
	}
}

// TableChecker is implemented by data sources that can inspect their schema.
type TableChecker interface {
	HasTable(ctx context.Context, table string) (bool, error)
}

// SchemaCheck reports whether every named table exists, catching a database
// that was never migrated.
func SchemaCheck(db TableChecker, tables ...string) CheckFunc {
	return func(ctx context.Context) error {
		for _, table := range tables {
			ok, err := db.HasTable(ctx, table)
			if err != nil {
				return fmt.Errorf("failed to inspect table %q: %w", table, err)
			}
			if !ok {
				return fmt.Errorf("table %q is missing", table)
			}
		}
		return nil
	}
}
