// Package server provides the HTTP surface of quarry: the catalog queries,
// Prometheus metrics and health probes.
//
// # Routes
//
//   - GET /v1/products - products named by ?name=, ordered by price
//   - GET /v1/categories/summary - product count and average price per category
//   - GET /v1/stats - product and category counts
//   - GET /metrics - Prometheus exposition (telemetry.metrics.path)
//   - GET /health, /ready, /version - probes (telemetry.health paths)
//
// /v1/products accepts projected=true for name, price and category rows,
// first=true for the cheapest match only, and skip/take for one page with the
// total match count:
//
//	GET /v1/products?name=Banana&name=Apple&projected=true&take=10
//
// Errors are JSON bodies of the form {"error":{"code":"...","message":"..."}}.
// Invalid parameters answer 400 with the parameter named, query deadlines
// answer 504 and data source failures answer 500 without details.
//
// # Middleware Chain
//
// Requests pass through the following middleware (outermost first):
//  1. Recovery: turns panics into 500 responses
//  2. RequestID: assigns X-Request-ID and stores it for logging
//  3. Logging: logs each completed request
//
// Each API route is then traced with a server span and counted under its
// route label.
//
// # Basic Usage
//
//	repo := repository.New(db, repository.WithRecorder(collector))
//	handler := server.NewHandler(server.Options{
//	    API:       server.NewAPI(repo, cfg.Query, logger),
//	    Collector: collector,
//	    Tracer:    tracer.Tracer(),
//	    Checker:   checker,
//	    Telemetry: cfg.Telemetry,
//	})
//	srv := server.New(&cfg.Server, handler, logger)
//	if err := srv.Start(ctx); err != nil {
//	    return err
//	}
//
// Start blocks until ctx is cancelled and then shuts down gracefully within
// server.shutdown_timeout.
package server
