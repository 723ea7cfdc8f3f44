// Quarry runs the catalog query library as a command-line tool and an HTTP
// service.
//
// It opens the configured data source (SQLite through modernc or mattn, or
// PostgreSQL through pgx) and runs composable catalog queries against it
// through the instrumented repository.
//
// Usage:
//
//	# Create and seed the schema
//	quarry migrate --seed
//
//	# Bananas and apples, cheapest first
//	quarry query products
//
//	# Show the SQL a query would run
//	quarry explain products --projected
//
//	# Serve the HTTP API with metrics and health probes
//	quarry serve --config quarry.yaml
//
//	# Check a configuration file
//	quarry validate --config quarry.yaml
package main

import "os"

func main() {
	os.Exit(Execute())
}
