package config

import "time"

// Default values for configuration fields.
const (
	// DataSource defaults
	DefaultDataSourceDriver        = "sqlite"
	DefaultDataSourceDSN           = "quarry.db"
	DefaultDataSourceMaxOpenConns  = 10
	DefaultDataSourceMaxIdleConns  = 5
	DefaultDataSourcePingTimeout   = 5 * time.Second
	DefaultDataSourceBusyTimeout   = 5 * time.Second
	DefaultDataSourceForeignKeys   = true
	DefaultDataSourceSlowThreshold = 200 * time.Millisecond
	DefaultDataSourceAutoMigrate   = true
	DefaultDataSourceSeed          = false

	// Query defaults
	DefaultQueryTimeout     = 30 * time.Second
	DefaultQueryPageSize    = 50
	DefaultQueryMaxPageSize = 1000

	// Server defaults
	DefaultListenAddress   = "127.0.0.1:8080"
	DefaultReadTimeout     = 30 * time.Second
	DefaultWriteTimeout    = 30 * time.Second
	DefaultIdleTimeout     = 120 * time.Second
	DefaultShutdownTimeout = 30 * time.Second
	DefaultMaxHeaderBytes  = 1048576 // 1MB

	// Telemetry defaults
	DefaultLoggingLevel         = "info"
	DefaultLoggingFormat        = "json"
	DefaultLoggingRedactSecrets = true
	DefaultMetricsEnabled       = true
	DefaultPrometheusPath       = "/metrics"
	DefaultMetricsNamespace     = "quarry"
	DefaultTracingEnabled       = false
	DefaultTracingSampler       = "parent_based"
	DefaultTracingSamplingRate  = 1.0
	DefaultTracingServiceName   = "quarry"
	DefaultTracingInsecure      = true
	DefaultTracingTimeout       = 10 * time.Second
	DefaultHealthEnabled        = true
	DefaultLivenessPath         = "/health"
	DefaultReadinessPath        = "/ready"
	DefaultVersionPath          = "/version"
	DefaultHealthCheckTimeout   = 5 * time.Second
)

// Default histogram buckets.
var (
	DefaultDurationBuckets = []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5}
	DefaultRowBuckets      = []float64{0, 1, 10, 100, 1000, 10000}
)

// Default returns a configuration with every field set to its default,
// including boolean switches that ApplyDefaults cannot tell apart from an
// explicit false.
func Default() *Config {
	cfg := &Config{}
	cfg.DataSource.ForeignKeys = DefaultDataSourceForeignKeys
	cfg.DataSource.AutoMigrate = DefaultDataSourceAutoMigrate
	cfg.DataSource.Seed = DefaultDataSourceSeed
	cfg.Telemetry.Logging.RedactSecrets = DefaultLoggingRedactSecrets
	cfg.Telemetry.Metrics.Enabled = DefaultMetricsEnabled
	cfg.Telemetry.Tracing.Enabled = DefaultTracingEnabled
	cfg.Telemetry.Tracing.Insecure = DefaultTracingInsecure
	cfg.Telemetry.Health.Enabled = DefaultHealthEnabled
	ApplyDefaults(cfg)
	return cfg
}

// ApplyDefaults fills every zero-valued field with its default. Fields that
// are already set are left alone.
func ApplyDefaults(cfg *Config) {
	// DataSource defaults
	if cfg.DataSource.Driver == "" {
		cfg.DataSource.Driver = DefaultDataSourceDriver
	}
	if cfg.DataSource.DSN == "" {
		cfg.DataSource.DSN = DefaultDataSourceDSN
	}
	if cfg.DataSource.MaxOpenConns == 0 {
		cfg.DataSource.MaxOpenConns = DefaultDataSourceMaxOpenConns
	}
	if cfg.DataSource.MaxIdleConns == 0 {
		cfg.DataSource.MaxIdleConns = DefaultDataSourceMaxIdleConns
	}
	if cfg.DataSource.PingTimeout == 0 {
		cfg.DataSource.PingTimeout = DefaultDataSourcePingTimeout
	}
	if cfg.DataSource.BusyTimeout == 0 {
		cfg.DataSource.BusyTimeout = DefaultDataSourceBusyTimeout
	}
	if cfg.DataSource.SlowThreshold == 0 {
		cfg.DataSource.SlowThreshold = DefaultDataSourceSlowThreshold
	}

	// Query defaults
	if cfg.Query.Timeout == 0 {
		cfg.Query.Timeout = DefaultQueryTimeout
	}
	if cfg.Query.DefaultPageSize == 0 {
		cfg.Query.DefaultPageSize = DefaultQueryPageSize
	}
	if cfg.Query.MaxPageSize == 0 {
		cfg.Query.MaxPageSize = DefaultQueryMaxPageSize
	}

	// Server defaults
	if cfg.Server.ListenAddress == "" {
		cfg.Server.ListenAddress = DefaultListenAddress
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = DefaultReadTimeout
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = DefaultWriteTimeout
	}
	if cfg.Server.IdleTimeout == 0 {
		cfg.Server.IdleTimeout = DefaultIdleTimeout
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = DefaultShutdownTimeout
	}
	if cfg.Server.MaxHeaderBytes == 0 {
		cfg.Server.MaxHeaderBytes = DefaultMaxHeaderBytes
	}

	// Telemetry defaults
	if cfg.Telemetry.Logging.Level == "" {
		cfg.Telemetry.Logging.Level = DefaultLoggingLevel
	}
	if cfg.Telemetry.Logging.Format == "" {
		cfg.Telemetry.Logging.Format = DefaultLoggingFormat
	}
	if cfg.Telemetry.Metrics.Path == "" {
		cfg.Telemetry.Metrics.Path = DefaultPrometheusPath
	}
	if cfg.Telemetry.Metrics.Namespace == "" {
		cfg.Telemetry.Metrics.Namespace = DefaultMetricsNamespace
	}
	if len(cfg.Telemetry.Metrics.DurationBuckets) == 0 {
		cfg.Telemetry.Metrics.DurationBuckets = append([]float64(nil), DefaultDurationBuckets...)
	}
	if len(cfg.Telemetry.Metrics.RowBuckets) == 0 {
		cfg.Telemetry.Metrics.RowBuckets = append([]float64(nil), DefaultRowBuckets...)
	}
	if cfg.Telemetry.Tracing.Sampler == "" {
		cfg.Telemetry.Tracing.Sampler = DefaultTracingSampler
	}
	if cfg.Telemetry.Tracing.SampleRatio == 0 {
		cfg.Telemetry.Tracing.SampleRatio = DefaultTracingSamplingRate
	}
	if cfg.Telemetry.Tracing.ServiceName == "" {
		cfg.Telemetry.Tracing.ServiceName = DefaultTracingServiceName
	}
	if cfg.Telemetry.Tracing.Timeout == 0 {
		cfg.Telemetry.Tracing.Timeout = DefaultTracingTimeout
	}
	if cfg.Telemetry.Health.LivenessPath == "" {
		cfg.Telemetry.Health.LivenessPath = DefaultLivenessPath
	}
	if cfg.Telemetry.Health.ReadinessPath == "" {
		cfg.Telemetry.Health.ReadinessPath = DefaultReadinessPath
	}
	if cfg.Telemetry.Health.VersionPath == "" {
		cfg.Telemetry.Health.VersionPath = DefaultVersionPath
	}
	if cfg.Telemetry.Health.CheckTimeout == 0 {
		cfg.Telemetry.Health.CheckTimeout = DefaultHealthCheckTimeout
	}
}
