package health

import (
	"encoding/json"
	"net/http"
	"runtime"

	"mercator-hq/quarry/pkg/config"
)

// VersionInfo contains build and version information.
type VersionInfo struct {
	// Version is the semantic version (e.g., "1.0.0")
	Version string `json:"version"`

	// Commit is the git commit hash
	Commit string `json:"commit"`

	// BuildTime is when the binary was built
	BuildTime string `json:"build_time"`

	// GoVersion is the Go version used to build
	GoVersion string `json:"go_version"`
}

// LivenessHandler returns an HTTP handler for the liveness probe endpoint.
//
// Example response:
//
//	{
//	    "status": "ok",
//	    "timestamp": "2026-10-19T10:30:00Z"
//	}
func (c *Checker) LivenessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !allowed(w, r) {
			return
		}
		writeJSON(w, r, http.StatusOK, c.CheckLiveness(r.Context()))
	}
}

// ReadinessHandler returns an HTTP handler for the readiness probe endpoint.
// It performs all registered component health checks.
//
// Returns:
//   - 200 OK: every check passed
//   - 503 Service Unavailable: at least one check failed
//
// Example response (degraded):
//
//	{
//	    "status": "degraded",
//	    "checks": {
//	        "database": {"status": "unhealthy", "message": "database unreachable: ...", "duration_ms": 5.2},
//	        "schema": {"status": "ok", "duration_ms": 0.4}
//	    },
//	    "timestamp": "2026-10-19T10:30:00Z"
//	}
func (c *Checker) ReadinessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !allowed(w, r) {
			return
		}

		status := c.CheckReadiness(r.Context())
		code := http.StatusOK
		if !status.Ready() {
			code = http.StatusServiceUnavailable
		}
		writeJSON(w, r, code, status)
	}
}

// VersionHandler returns an HTTP handler for the version information endpoint.
func VersionHandler(info VersionInfo) http.HandlerFunc {
	if info.GoVersion == "" {
		info.GoVersion = runtime.Version()
	}

	return func(w http.ResponseWriter, r *http.Request) {
		if !allowed(w, r) {
			return
		}
		writeJSON(w, r, http.StatusOK, info)
	}
}

// Register mounts the liveness, readiness and version endpoints on mux at
// the configured paths. Nothing is mounted when health endpoints are
// disabled.
//
//	health.Register(mux, checker, cfg.Telemetry.Health, health.VersionInfo{Version: version})
func Register(mux *http.ServeMux, checker *Checker, cfg config.HealthConfig, info VersionInfo) {
	if !cfg.Enabled {
		return
	}
	mux.HandleFunc(cfg.LivenessPath, checker.LivenessHandler())
	mux.HandleFunc(cfg.ReadinessPath, checker.ReadinessHandler())
	mux.HandleFunc(cfg.VersionPath, VersionHandler(info))
}

// allowed rejects everything but GET and HEAD.
func allowed(w http.ResponseWriter, r *http.Request) bool {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, r *http.Request, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if r.Method != http.MethodHead {
		_ = json.NewEncoder(w).Encode(v)
	}
}
