package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handler returns an HTTP handler for the Prometheus metrics endpoint.
//
// This handler exposes all registered metrics in the standard Prometheus
// exposition format. It should be mounted at the path specified in the
// MetricsConfig (typically "/metrics").
//
// Example:
//
//	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
//	mux.Handle("/metrics", collector.Handler())
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(
		c.registry,
		promhttp.HandlerOpts{
			// Enable OpenMetrics encoding (preferred over Prometheus text format)
			EnableOpenMetrics: true,

			// Error handling
			ErrorHandling: promhttp.ContinueOnError,

			// Scrapes are counted in promhttp_metric_handler_requests_total
			Registry: c.registry,
		},
	)
}
