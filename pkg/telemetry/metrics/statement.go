package metrics

import (
	"context"
	"errors"
	"time"

	"mercator-hq/quarry/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/gorm"
)

// Statement outcomes.
const (
	StatementSuccess  = "success"
	StatementNotFound = "not_found"
	StatementCanceled = "canceled"
	StatementError    = "error"
)

// StatementMetrics tracks the SQL statements the data source executes.
//
// Metrics:
//   - quarry_statements_total: Statement count by operation and status
//   - quarry_statement_duration_seconds: Statement duration histogram
//   - quarry_statement_rows_affected_total: Rows written by statements
type StatementMetrics struct {
	statementsTotal   *prometheus.CounterVec
	statementDuration *prometheus.HistogramVec
	rowsAffected      *prometheus.CounterVec
}

// NewStatementMetrics creates and registers statement metrics with the
// provided registry.
func NewStatementMetrics(cfg *config.MetricsConfig, registry prometheus.Registerer) *StatementMetrics {
	sm := &StatementMetrics{
		statementsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "statements_total",
				Help:      "Total number of SQL statements executed",
			},
			[]string{"operation", "status"},
		),

		statementDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Name:      "statement_duration_seconds",
				Help:      "Duration of SQL statements in seconds",
				Buckets:   cfg.DurationBuckets,
			},
			[]string{"operation"},
		),

		rowsAffected: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "statement_rows_affected_total",
				Help:      "Total number of rows affected by write statements",
			},
			[]string{"operation"},
		),
	}

	registry.MustRegister(
		sm.statementsTotal,
		sm.statementDuration,
		sm.rowsAffected,
	)

	return sm
}

// ObserveStatement records one statement.
func (sm *StatementMetrics) ObserveStatement(operation string, duration time.Duration, rowsAffected int64, err error) {
	sm.statementsTotal.WithLabelValues(operation, statementStatus(err)).Inc()
	sm.statementDuration.WithLabelValues(operation).Observe(duration.Seconds())

	if err == nil && rowsAffected > 0 && operation != "select" {
		sm.rowsAffected.WithLabelValues(operation).Add(float64(rowsAffected))
	}
}

func statementStatus(err error) string {
	switch {
	case err == nil:
		return StatementSuccess
	case errors.Is(err, gorm.ErrRecordNotFound):
		return StatementNotFound
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return StatementCanceled
	default:
		return StatementError
	}
}
