package metrics

import (
	"time"

	"mercator-hq/quarry/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// CatalogMetrics tracks the size of the catalog as last observed by the
// stats refresh job.
//
// Metrics:
//   - quarry_catalog_rows: Row count by table
//   - quarry_catalog_refreshed_timestamp_seconds: Time of the last refresh
type CatalogMetrics struct {
	rows        *prometheus.GaugeVec
	refreshedAt prometheus.Gauge
}

// NewCatalogMetrics creates and registers catalog metrics with the provided registry.
func NewCatalogMetrics(cfg *config.MetricsConfig, registry prometheus.Registerer) *CatalogMetrics {
	cm := &CatalogMetrics{
		rows: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: cfg.Namespace,
				Name:      "catalog_rows",
				Help:      "Number of rows per catalog table at the last refresh",
			},
			[]string{"table"},
		),
		refreshedAt: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: cfg.Namespace,
				Name:      "catalog_refreshed_timestamp_seconds",
				Help:      "Unix time of the last successful catalog refresh",
			},
		),
	}

	registry.MustRegister(cm.rows, cm.refreshedAt)
	return cm
}

// SetCatalogSize records the row count of each table at time at.
func (c *Collector) SetCatalogSize(tables map[string]int64, at time.Time) {
	if !c.config.Enabled {
		return
	}

	for table, n := range tables {
		c.catalogMetrics.rows.WithLabelValues(table).Set(float64(n))
	}
	c.catalogMetrics.refreshedAt.Set(float64(at.Unix()))
}
