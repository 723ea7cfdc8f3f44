package config

import (
	"fmt"
	"regexp"
	"strings"

	"mercator-hq/quarry/pkg/datasource"
	"mercator-hq/quarry/pkg/scheduler"
)

// FieldError represents a validation error for a specific configuration field.
type FieldError struct {
	// Field is the dotted path to the configuration field (e.g., "datasource.driver").
	Field string

	// Message is a human-readable error message.
	Message string
}

// Error returns the error message for this field error.
func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError represents one or more validation errors in a configuration.
type ValidationError struct {
	// Errors contains all validation errors found in the configuration.
	Errors []FieldError
}

// Error returns a formatted string containing all validation errors.
func (e ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "configuration validation failed"
	}
	if len(e.Errors) == 1 {
		return fmt.Sprintf("configuration validation failed: %s", e.Errors[0].Error())
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("configuration validation failed with %d errors:\n", len(e.Errors)))
	for _, err := range e.Errors {
		sb.WriteString(fmt.Sprintf("  - %s\n", err.Error()))
	}
	return sb.String()
}

// Validate validates the entire configuration and returns a ValidationError
// if any validation rules fail. All validation errors are collected and
// returned together.
func Validate(cfg *Config) error {
	var errs []FieldError

	errs = append(errs, validateDataSource(&cfg.DataSource)...)
	errs = append(errs, validateQuery(&cfg.Query)...)
	errs = append(errs, validateServer(&cfg.Server)...)
	errs = append(errs, validateTelemetry(&cfg.Telemetry)...)

	if len(errs) > 0 {
		return ValidationError{Errors: errs}
	}
	return nil
}

// validateDataSource validates data source configuration.
func validateDataSource(cfg *DataSourceConfig) []FieldError {
	var errs []FieldError

	if _, err := datasource.ParseDriver(cfg.Driver); err != nil {
		errs = append(errs, FieldError{
			Field:   "datasource.driver",
			Message: fmt.Sprintf("invalid driver %q: must be 'sqlite', 'sqlite3' or 'pgx'", cfg.Driver),
		})
	}
	if cfg.DSN == "" {
		errs = append(errs, FieldError{
			Field:   "datasource.dsn",
			Message: "dsn is required",
		})
	}
	if cfg.MaxOpenConns < 0 {
		errs = append(errs, FieldError{
			Field:   "datasource.max_open_conns",
			Message: "max open connections must be non-negative",
		})
	}
	if cfg.MaxIdleConns < 0 {
		errs = append(errs, FieldError{
			Field:   "datasource.max_idle_conns",
			Message: "max idle connections must be non-negative",
		})
	}
	if cfg.MaxOpenConns > 0 && cfg.MaxIdleConns > cfg.MaxOpenConns {
		errs = append(errs, FieldError{
			Field:   "datasource.max_idle_conns",
			Message: "max idle connections cannot exceed max open connections",
		})
	}

	durations := []struct {
		field string
		value int64
	}{
		{"datasource.conn_max_lifetime", int64(cfg.ConnMaxLifetime)},
		{"datasource.conn_max_idle_time", int64(cfg.ConnMaxIdleTime)},
		{"datasource.ping_timeout", int64(cfg.PingTimeout)},
		{"datasource.busy_timeout", int64(cfg.BusyTimeout)},
		{"datasource.slow_threshold", int64(cfg.SlowThreshold)},
	}
	for _, d := range durations {
		if d.value < 0 {
			errs = append(errs, FieldError{
				Field:   d.field,
				Message: "duration must be non-negative",
			})
		}
	}

	return errs
}

// validateQuery validates query execution configuration.
func validateQuery(cfg *QueryConfig) []FieldError {
	var errs []FieldError

	if cfg.Timeout < 0 {
		errs = append(errs, FieldError{
			Field:   "query.timeout",
			Message: "timeout must be non-negative",
		})
	}
	if cfg.DefaultPageSize <= 0 {
		errs = append(errs, FieldError{
			Field:   "query.default_page_size",
			Message: "default page size must be positive",
		})
	}
	if cfg.MaxPageSize <= 0 {
		errs = append(errs, FieldError{
			Field:   "query.max_page_size",
			Message: "max page size must be positive",
		})
	} else if cfg.DefaultPageSize > cfg.MaxPageSize {
		errs = append(errs, FieldError{
			Field:   "query.default_page_size",
			Message: fmt.Sprintf("default page size %d exceeds max page size %d", cfg.DefaultPageSize, cfg.MaxPageSize),
		})
	}
	if _, err := datasource.ParseIsolationLevel(cfg.Isolation); err != nil {
		errs = append(errs, FieldError{
			Field:   "query.isolation",
			Message: err.Error(),
		})
	}

	return errs
}

// validateServer validates HTTP server configuration.
func validateServer(cfg *ServerConfig) []FieldError {
	var errs []FieldError

	if cfg.ListenAddress == "" {
		errs = append(errs, FieldError{
			Field:   "server.listen_address",
			Message: "listen address is required",
		})
	} else if !strings.Contains(cfg.ListenAddress, ":") {
		errs = append(errs, FieldError{
			Field:   "server.listen_address",
			Message: fmt.Sprintf("invalid listen address %q: must be host:port", cfg.ListenAddress),
		})
	}

	if cfg.ReadTimeout < 0 {
		errs = append(errs, FieldError{
			Field:   "server.read_timeout",
			Message: "read timeout must be positive",
		})
	}
	if cfg.WriteTimeout < 0 {
		errs = append(errs, FieldError{
			Field:   "server.write_timeout",
			Message: "write timeout must be positive",
		})
	}
	if cfg.IdleTimeout < 0 {
		errs = append(errs, FieldError{
			Field:   "server.idle_timeout",
			Message: "idle timeout must be positive",
		})
	}
	if cfg.ShutdownTimeout < 0 {
		errs = append(errs, FieldError{
			Field:   "server.shutdown_timeout",
			Message: "shutdown timeout must be positive",
		})
	}
	if cfg.MaxHeaderBytes < 0 {
		errs = append(errs, FieldError{
			Field:   "server.max_header_bytes",
			Message: "max header bytes must be non-negative",
		})
	}
	if err := scheduler.Validate(cfg.StatsSchedule); err != nil {
		errs = append(errs, FieldError{
			Field:   "server.stats_schedule",
			Message: err.Error(),
		})
	}

	return errs
}

// validateTelemetry validates telemetry configuration.
func validateTelemetry(cfg *TelemetryConfig) []FieldError {
	var errs []FieldError

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(cfg.Logging.Level)] {
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.level",
			Message: fmt.Sprintf("invalid logging level %q: must be 'debug', 'info', 'warn', or 'error'", cfg.Logging.Level),
		})
	}

	validFormats := map[string]bool{"json": true, "text": true, "console": true}
	if !validFormats[strings.ToLower(cfg.Logging.Format)] {
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.format",
			Message: fmt.Sprintf("invalid logging format %q: must be 'json', 'text' or 'console'", cfg.Logging.Format),
		})
	}

	for i, p := range cfg.Logging.RedactPatterns {
		field := fmt.Sprintf("telemetry.logging.redact_patterns[%d]", i)
		if p.Name == "" {
			errs = append(errs, FieldError{Field: field + ".name", Message: "name is required"})
		}
		if _, err := regexp.Compile(p.Pattern); err != nil {
			errs = append(errs, FieldError{Field: field + ".pattern", Message: fmt.Sprintf("invalid regular expression: %v", err)})
		}
	}

	if cfg.Metrics.Enabled {
		if cfg.Metrics.Path == "" || cfg.Metrics.Path[0] != '/' {
			errs = append(errs, FieldError{
				Field:   "telemetry.metrics.path",
				Message: "metrics path must start with /",
			})
		}
		if !ascending(cfg.Metrics.DurationBuckets) {
			errs = append(errs, FieldError{
				Field:   "telemetry.metrics.duration_buckets",
				Message: "buckets must be strictly increasing",
			})
		}
		if !ascending(cfg.Metrics.RowBuckets) {
			errs = append(errs, FieldError{
				Field:   "telemetry.metrics.row_buckets",
				Message: "buckets must be strictly increasing",
			})
		}
	}

	if cfg.Tracing.Enabled && cfg.Tracing.Endpoint == "" {
		errs = append(errs, FieldError{
			Field:   "telemetry.tracing.endpoint",
			Message: "tracing endpoint is required when tracing is enabled",
		})
	}
	validSamplers := map[string]bool{"always": true, "never": true, "ratio": true, "parent_based": true}
	if !validSamplers[cfg.Tracing.Sampler] {
		errs = append(errs, FieldError{
			Field:   "telemetry.tracing.sampler",
			Message: fmt.Sprintf("invalid sampler %q: must be 'always', 'never', 'ratio' or 'parent_based'", cfg.Tracing.Sampler),
		})
	}
	if cfg.Tracing.SampleRatio < 0 || cfg.Tracing.SampleRatio > 1.0 {
		errs = append(errs, FieldError{
			Field:   "telemetry.tracing.sample_ratio",
			Message: "sample ratio must be between 0.0 and 1.0",
		})
	}

	if cfg.Health.Enabled {
		paths := []struct {
			field string
			value string
		}{
			{"telemetry.health.liveness_path", cfg.Health.LivenessPath},
			{"telemetry.health.readiness_path", cfg.Health.ReadinessPath},
			{"telemetry.health.version_path", cfg.Health.VersionPath},
		}
		for _, p := range paths {
			if p.value == "" || p.value[0] != '/' {
				errs = append(errs, FieldError{
					Field:   p.field,
					Message: "path must start with /",
				})
			}
		}
		if cfg.Health.CheckTimeout <= 0 {
			errs = append(errs, FieldError{
				Field:   "telemetry.health.check_timeout",
				Message: "check timeout must be positive",
			})
		}
	}

	return errs
}

func ascending(buckets []float64) bool {
	for i := 1; i < len(buckets); i++ {
		if buckets[i] <= buckets[i-1] {
			return false
		}
	}
	return true
}
