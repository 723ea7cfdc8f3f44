package metrics

import (
	"time"

	"mercator-hq/quarry/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// QueryMetrics tracks repository query invocations.
//
// Metrics:
//   - quarry_queries_total: Invocation count by query, shape and status
//   - quarry_query_duration_seconds: Invocation duration histogram
//   - quarry_query_rows: Rows returned per successful invocation
type QueryMetrics struct {
	queriesTotal  *prometheus.CounterVec
	queryDuration *prometheus.HistogramVec
	queryRows     *prometheus.HistogramVec
}

// NewQueryMetrics creates and registers query metrics with the provided registry.
func NewQueryMetrics(cfg *config.MetricsConfig, registry prometheus.Registerer) *QueryMetrics {
	qm := &QueryMetrics{
		queriesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "queries_total",
				Help:      "Total number of repository query invocations",
			},
			[]string{"query", "shape", "status"},
		),

		queryDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Name:      "query_duration_seconds",
				Help:      "Duration of repository query invocations in seconds",
				Buckets:   cfg.DurationBuckets,
			},
			[]string{"query", "shape"},
		),

		queryRows: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Name:      "query_rows",
				Help:      "Number of rows returned or affected by successful invocations",
				Buckets:   cfg.RowBuckets,
			},
			[]string{"query", "shape"},
		),
	}

	registry.MustRegister(
		qm.queriesTotal,
		qm.queryDuration,
		qm.queryRows,
	)

	return qm
}

// RecordQuery records one invocation. rows is negative when the shape
// yields no row count or the invocation failed.
func (qm *QueryMetrics) RecordQuery(query, shape, status string, duration time.Duration, rows int) {
	qm.queriesTotal.WithLabelValues(query, shape, status).Inc()
	qm.queryDuration.WithLabelValues(query, shape).Observe(duration.Seconds())

	if rows >= 0 {
		qm.queryRows.WithLabelValues(query, shape).Observe(float64(rows))
	}
}
