package metrics

import (
	"database/sql"
	"sync"
	"time"

	"mercator-hq/quarry/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// otherQuery replaces query names beyond the cardinality limit.
const otherQuery = "other"

// DefaultMaxQueryNames bounds the number of distinct query label values.
const DefaultMaxQueryNames = 1000

// Collector owns the Prometheus registry and every quarry metric. It
// satisfies repository.Recorder and datasource.StatementObserver, so it can
// be handed directly to both.
type Collector struct {
	config   *config.MetricsConfig
	registry *prometheus.Registry

	queryMetrics     *QueryMetrics
	statementMetrics *StatementMetrics
	httpMetrics      *HTTPMetrics
	catalogMetrics   *CatalogMetrics

	// Cardinality tracking for query names
	cardinalityLimiter *CardinalityLimiter
}

// NewCollector creates a new metrics collector with the specified
// configuration and Prometheus registry. If registry is nil, a fresh
// registry is created. Go runtime and process collectors are registered
// alongside the quarry metrics.
//
// Example:
//
//	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
//	repo := repository.New(db, repository.WithRecorder(collector))
func NewCollector(cfg *config.MetricsConfig, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	if cfg.Namespace == "" {
		cfg.Namespace = config.DefaultMetricsNamespace
	}
	if len(cfg.DurationBuckets) == 0 {
		cfg.DurationBuckets = append([]float64(nil), config.DefaultDurationBuckets...)
	}
	if len(cfg.RowBuckets) == 0 {
		cfg.RowBuckets = append([]float64(nil), config.DefaultRowBuckets...)
	}

	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return &Collector{
		config:             cfg,
		registry:           registry,
		queryMetrics:       NewQueryMetrics(cfg, registry),
		statementMetrics:   NewStatementMetrics(cfg, registry),
		httpMetrics:        NewHTTPMetrics(cfg, registry),
		catalogMetrics:     NewCatalogMetrics(cfg, registry),
		cardinalityLimiter: NewCardinalityLimiter(DefaultMaxQueryNames),
	}
}

// RecordQuery records metrics for a completed repository invocation.
//
// Parameters:
//   - name: Query name (e.g., "products.by_names")
//   - shape: Invocation shape ("list", "single", "count", "update", ...)
//   - status: Outcome ("success", "error", "canceled")
//   - duration: Invocation duration
//   - rows: Rows returned or affected, negative when unknown
func (c *Collector) RecordQuery(name, shape, status string, duration time.Duration, rows int) {
	if !c.config.Enabled {
		return
	}

	if !c.cardinalityLimiter.Allow(name) {
		name = otherQuery
	}

	c.queryMetrics.RecordQuery(name, shape, status, duration, rows)
}

// ObserveStatement records metrics for one SQL statement.
func (c *Collector) ObserveStatement(operation string, duration time.Duration, rowsAffected int64, err error) {
	if !c.config.Enabled {
		return
	}

	c.statementMetrics.ObserveStatement(operation, duration, rowsAffected, err)
}

// RegisterDBStats exports the connection pool statistics of db under the
// given name.
func (c *Collector) RegisterDBStats(db *sql.DB, name string) error {
	return c.registry.Register(collectors.NewDBStatsCollector(db, name))
}

// Registry returns the Prometheus registry used by this collector.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// CardinalityLimiter prevents metric cardinality explosion by limiting
// the number of unique label values.
type CardinalityLimiter struct {
	maxCardinality int
	current        map[string]struct{}
	mu             sync.RWMutex
}

// NewCardinalityLimiter creates a new cardinality limiter with the specified
// maximum cardinality.
func NewCardinalityLimiter(maxCardinality int) *CardinalityLimiter {
	return &CardinalityLimiter{
		maxCardinality: maxCardinality,
		current:        make(map[string]struct{}),
	}
}

// Allow checks if a label value is allowed. Returns true if the value
// already exists or if the limit has not been reached yet.
func (cl *CardinalityLimiter) Allow(value string) bool {
	cl.mu.RLock()
	if _, exists := cl.current[value]; exists {
		cl.mu.RUnlock()
		return true
	}
	cl.mu.RUnlock()

	cl.mu.Lock()
	defer cl.mu.Unlock()

	// Double-check after acquiring write lock
	if _, exists := cl.current[value]; exists {
		return true
	}

	if len(cl.current) >= cl.maxCardinality {
		return false
	}

	cl.current[value] = struct{}{}
	return true
}

// Count returns the current cardinality.
func (cl *CardinalityLimiter) Count() int {
	cl.mu.RLock()
	defer cl.mu.RUnlock()
	return len(cl.current)
}
