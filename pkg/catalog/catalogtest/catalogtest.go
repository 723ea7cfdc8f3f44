// Package catalogtest provides a seeded in-memory catalog database for tests.
package catalogtest

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"mercator-hq/quarry/pkg/catalog"
	"mercator-hq/quarry/pkg/datasource"
)

// Open returns a migrated and seeded in-memory SQLite database. The database
// is closed when the test ends. opts are applied after the discarding logger.
func Open(t testing.TB, opts ...datasource.Option) *datasource.DB {
	t.Helper()

	db := OpenEmpty(t, opts...)
	if err := catalog.Seed(context.Background(), db.Source()); err != nil {
		t.Fatalf("failed to seed catalog: %v", err)
	}
	return db
}

// OpenEmpty returns a migrated in-memory SQLite database with no rows.
func OpenEmpty(t testing.TB, opts ...datasource.Option) *datasource.DB {
	t.Helper()

	ctx := context.Background()
	cfg := datasource.DefaultConfig()
	cfg.SlowThreshold = 0

	opts = append([]datasource.Option{datasource.WithLogger(Logger())}, opts...)
	db, err := datasource.Open(ctx, cfg, opts...)
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() {
		db.Close()
	})

	if err := catalog.Migrate(ctx, db); err != nil {
		t.Fatalf("failed to migrate catalog: %v", err)
	}
	return db
}

// Logger returns a logger that discards everything.
func Logger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
