// Package health provides health check endpoints for quarry.
//
// # Overview
//
// The health package implements liveness and readiness probes for
// orchestration systems, along with a version information endpoint:
//
//   - /health: Liveness probe, answers as long as the process runs
//   - /ready: Readiness probe, runs every registered check
//   - /version: Build information
//
// # Usage
//
//	checker := health.New(cfg.Telemetry.Health.CheckTimeout)
//	checker.RegisterCheck("database", health.DatabaseCheck(db))
//	checker.RegisterCheck("schema", health.SchemaCheck(db, "products", "categories"))
//
//	health.Register(mux, checker, cfg.Telemetry.Health, health.VersionInfo{
//	    Version: version.Version,
//	    Commit:  version.Commit,
//	})
//
// # Liveness vs Readiness
//
// Liveness never touches the database, so a slow database does not get the
// process restarted. Readiness fails with 503 while any check fails, taking
// the instance out of rotation until the database recovers.
//
// Checks run concurrently, each bounded by the checker's timeout.
package health
