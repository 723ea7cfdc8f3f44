// Package metrics provides Prometheus metrics collection for quarry.
//
// # Overview
//
// A Collector owns a Prometheus registry and records:
//
//   - Query Metrics: repository invocations by query name, shape and status,
//     with duration and row count histograms
//   - Statement Metrics: SQL statements by operation and status
//   - HTTP Metrics: query API requests by route, method and status code
//   - Pool Metrics: database/sql connection pool statistics
//   - Go runtime and process metrics
//
// # Usage
//
//	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
//
//	db, err := datasource.Open(ctx, dsCfg, datasource.WithStatementObserver(collector))
//	if err != nil {
//		return err
//	}
//	_ = collector.RegisterDBStats(db.SQL(), "quarry")
//
//	repo := repository.New(db, repository.WithRecorder(collector))
//
//	mux.Handle("/metrics", collector.Handler())
//
// # Cardinality
//
// Query names are bounded by a CardinalityLimiter. Names seen after the
// limit is reached are recorded as "other".
package metrics
