package config

import "time"

// Config is the root configuration structure for quarry.
// It contains the data source, query execution defaults, the HTTP server and
// telemetry settings.
type Config struct {
	// DataSource selects and tunes the database the repository runs against.
	DataSource DataSourceConfig `yaml:"datasource" envPrefix:"DATASOURCE_"`

	// Query contains defaults applied to every repository call.
	Query QueryConfig `yaml:"query" envPrefix:"QUERY_"`

	// Server contains HTTP server configuration for the serve command.
	Server ServerConfig `yaml:"server" envPrefix:"SERVER_"`

	// Telemetry contains configuration for observability including logging,
	// metrics, tracing and health checks.
	Telemetry TelemetryConfig `yaml:"telemetry" envPrefix:"TELEMETRY_"`
}

// DataSourceConfig contains configuration for the database connection.
type DataSourceConfig struct {
	// Driver selects the database/sql driver.
	// Options: "sqlite" (modernc), "sqlite3" (mattn, cgo), "pgx" (PostgreSQL)
	// Default: "sqlite"
	Driver string `yaml:"driver" env:"DRIVER"`

	// DSN is the driver-specific data source name. For SQLite this is a file
	// path or ":memory:"; for pgx a postgres:// URL.
	// Default: "quarry.db"
	DSN string `yaml:"dsn" env:"DSN"`

	// MaxOpenConns is the maximum number of open connections.
	// Default: 10
	MaxOpenConns int `yaml:"max_open_conns" env:"MAX_OPEN_CONNS"`

	// MaxIdleConns is the maximum number of idle connections.
	// Default: 5
	MaxIdleConns int `yaml:"max_idle_conns" env:"MAX_IDLE_CONNS"`

	// ConnMaxLifetime is the maximum time a connection may be reused.
	// Zero means connections are reused forever.
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime" env:"CONN_MAX_LIFETIME"`

	// ConnMaxIdleTime is the maximum time a connection may sit idle.
	ConnMaxIdleTime time.Duration `yaml:"conn_max_idle_time" env:"CONN_MAX_IDLE_TIME"`

	// PingTimeout bounds the connectivity check at startup.
	// Default: 5s
	PingTimeout time.Duration `yaml:"ping_timeout" env:"PING_TIMEOUT"`

	// BusyTimeout is how long SQLite waits on a locked database.
	// Default: 5s
	BusyTimeout time.Duration `yaml:"busy_timeout" env:"BUSY_TIMEOUT"`

	// ForeignKeys enables foreign key enforcement on SQLite.
	// Default: true
	ForeignKeys bool `yaml:"foreign_keys" env:"FOREIGN_KEYS"`

	// SkipDefaultTransaction stops single writes from being wrapped in a
	// transaction.
	// Default: false
	SkipDefaultTransaction bool `yaml:"skip_default_transaction" env:"SKIP_DEFAULT_TRANSACTION"`

	// PrepareStmt caches prepared statements.
	// Default: false
	PrepareStmt bool `yaml:"prepare_stmt" env:"PREPARE_STMT"`

	// SlowThreshold is the duration above which statements are logged as slow.
	// Default: 200ms
	SlowThreshold time.Duration `yaml:"slow_threshold" env:"SLOW_THRESHOLD"`

	// AutoMigrate creates the catalog tables when the server starts.
	// Default: true
	AutoMigrate bool `yaml:"auto_migrate" env:"AUTO_MIGRATE"`

	// Seed inserts the sample catalog when the server starts.
	// Default: false
	Seed bool `yaml:"seed" env:"SEED"`
}

// QueryConfig contains defaults for query execution.
type QueryConfig struct {
	// Timeout bounds repository calls whose context carries no deadline.
	// Zero disables the default deadline.
	// Default: 30s
	Timeout time.Duration `yaml:"timeout" env:"TIMEOUT"`

	// DefaultPageSize is the page size used when a request does not give one.
	// Default: 50
	DefaultPageSize int `yaml:"default_page_size" env:"DEFAULT_PAGE_SIZE"`

	// MaxPageSize caps the page size a request may ask for.
	// Default: 1000
	MaxPageSize int `yaml:"max_page_size" env:"MAX_PAGE_SIZE"`

	// Isolation is the isolation level for transactions started by the CLI
	// and server. Empty means the driver default.
	// Options: "read_uncommitted", "read_committed", "repeatable_read",
	// "snapshot", "serializable", "linearizable"
	Isolation string `yaml:"isolation" env:"ISOLATION"`
}

// ServerConfig contains configuration for the HTTP server.
type ServerConfig struct {
	// ListenAddress is the address and port to listen on.
	// Default: "127.0.0.1:8080"
	ListenAddress string `yaml:"listen_address" env:"LISTEN_ADDRESS"`

	// ReadTimeout is the maximum duration for reading the entire request.
	// Default: 30s
	ReadTimeout time.Duration `yaml:"read_timeout" env:"READ_TIMEOUT"`

	// WriteTimeout is the maximum duration before timing out writes of the
	// response.
	// Default: 30s
	WriteTimeout time.Duration `yaml:"write_timeout" env:"WRITE_TIMEOUT"`

	// IdleTimeout is the maximum amount of time to wait for the next request
	// when keep-alives are enabled.
	// Default: 120s
	IdleTimeout time.Duration `yaml:"idle_timeout" env:"IDLE_TIMEOUT"`

	// ShutdownTimeout is the maximum duration to wait for in-flight requests
	// during graceful shutdown.
	// Default: 30s
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SHUTDOWN_TIMEOUT"`

	// MaxHeaderBytes limits the size of request headers.
	// Default: 1048576 (1MB)
	MaxHeaderBytes int `yaml:"max_header_bytes" env:"MAX_HEADER_BYTES"`

	// StatsSchedule is the cron expression on which the catalog size gauges
	// are refreshed, e.g. "@every 1m" or "*/5 * * * *". The gauges are always
	// filled once at startup; empty disables the periodic refresh.
	StatsSchedule string `yaml:"stats_schedule" env:"STATS_SCHEDULE"`
}

// TelemetryConfig contains configuration for observability.
type TelemetryConfig struct {
	// Logging contains logging configuration.
	Logging LoggingConfig `yaml:"logging" envPrefix:"LOGGING_"`

	// Metrics contains metrics collection configuration.
	Metrics MetricsConfig `yaml:"metrics" envPrefix:"METRICS_"`

	// Tracing contains distributed tracing configuration.
	Tracing TracingConfig `yaml:"tracing" envPrefix:"TRACING_"`

	// Health contains health check configuration.
	Health HealthConfig `yaml:"health" envPrefix:"HEALTH_"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level to emit.
	// Options: "debug", "info", "warn", "error"
	// Default: "info"
	Level string `yaml:"level" env:"LEVEL"`

	// Format controls the log output format.
	// Options: "json", "text", "console"
	// Default: "json"
	Format string `yaml:"format" env:"FORMAT"`

	// AddSource includes file and line number in log entries.
	// Default: false
	AddSource bool `yaml:"add_source" env:"ADD_SOURCE"`

	// RedactSecrets masks DSN passwords, tokens and other secrets in logs.
	// Default: true
	RedactSecrets bool `yaml:"redact_secrets" env:"REDACT_SECRETS"`

	// RedactPatterns contains additional redaction patterns.
	RedactPatterns []RedactPattern `yaml:"redact_patterns"`
}

// RedactPattern defines a custom redaction pattern.
type RedactPattern struct {
	// Name is a descriptive name for the pattern.
	Name string `yaml:"name"`

	// Pattern is the regular expression to match.
	Pattern string `yaml:"pattern"`

	// Replacement is the string to replace matches with.
	Replacement string `yaml:"replacement"`
}

// MetricsConfig contains metrics collection configuration.
type MetricsConfig struct {
	// Enabled controls whether metrics collection is active.
	// Default: true
	Enabled bool `yaml:"enabled" env:"ENABLED"`

	// Path is the HTTP path for the Prometheus metrics endpoint.
	// Default: "/metrics"
	Path string `yaml:"path" env:"PATH"`

	// Namespace is the metric name prefix.
	// Default: "quarry"
	Namespace string `yaml:"namespace" env:"NAMESPACE"`

	// DurationBuckets defines histogram buckets for query duration (seconds).
	// Default: [0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5]
	DurationBuckets []float64 `yaml:"duration_buckets" env:"DURATION_BUCKETS" envSeparator:","`

	// RowBuckets defines histogram buckets for materialized row counts.
	// Default: [0, 1, 10, 100, 1000, 10000]
	RowBuckets []float64 `yaml:"row_buckets" env:"ROW_BUCKETS" envSeparator:","`
}

// TracingConfig contains distributed tracing configuration.
type TracingConfig struct {
	// Enabled controls whether distributed tracing is active.
	// Default: false
	Enabled bool `yaml:"enabled" env:"ENABLED"`

	// Sampler determines the sampling strategy.
	// Options: "always", "never", "ratio", "parent_based"
	// Default: "parent_based"
	Sampler string `yaml:"sampler" env:"SAMPLER"`

	// SampleRatio is the fraction of traces to sample (0.0 to 1.0).
	// Default: 1.0
	SampleRatio float64 `yaml:"sample_ratio" env:"SAMPLE_RATIO"`

	// Endpoint is the OTLP gRPC collector endpoint, e.g. "localhost:4317".
	Endpoint string `yaml:"endpoint" env:"ENDPOINT"`

	// ServiceName is the service name in traces.
	// Default: "quarry"
	ServiceName string `yaml:"service_name" env:"SERVICE_NAME"`

	// Insecure disables TLS for the OTLP connection.
	// Default: true
	Insecure bool `yaml:"insecure" env:"INSECURE"`

	// Timeout is the timeout for OTLP exports.
	// Default: 10s
	Timeout time.Duration `yaml:"timeout" env:"TIMEOUT"`
}

// HealthConfig contains health check endpoint configuration.
type HealthConfig struct {
	// Enabled controls whether health check endpoints are served.
	// Default: true
	Enabled bool `yaml:"enabled" env:"ENABLED"`

	// LivenessPath is the path for the liveness probe endpoint.
	// Default: "/health"
	LivenessPath string `yaml:"liveness_path" env:"LIVENESS_PATH"`

	// ReadinessPath is the path for the readiness probe endpoint.
	// Default: "/ready"
	ReadinessPath string `yaml:"readiness_path" env:"READINESS_PATH"`

	// VersionPath is the path for the version information endpoint.
	// Default: "/version"
	VersionPath string `yaml:"version_path" env:"VERSION_PATH"`

	// CheckTimeout is the timeout for individual component health checks.
	// Default: 5s
	CheckTimeout time.Duration `yaml:"check_timeout" env:"CHECK_TIMEOUT"`
}
