package metrics

import (
	"net/http"

	"mercator-hq/quarry/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// HTTPMetrics tracks requests served by the query API.
//
// Metrics:
//   - quarry_http_requests_total: Request count by route, method and code
//   - quarry_http_request_duration_seconds: Request duration histogram
//   - quarry_http_requests_in_flight: Requests currently being served
type HTTPMetrics struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	inFlight        prometheus.Gauge
}

// NewHTTPMetrics creates and registers HTTP metrics with the provided registry.
func NewHTTPMetrics(cfg *config.MetricsConfig, registry prometheus.Registerer) *HTTPMetrics {
	hm := &HTTPMetrics{
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests served",
			},
			[]string{"route", "method", "code"},
		),

		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Name:      "http_request_duration_seconds",
				Help:      "Duration of HTTP requests in seconds",
				Buckets:   cfg.DurationBuckets,
			},
			[]string{"route", "method"},
		),

		inFlight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: cfg.Namespace,
				Name:      "http_requests_in_flight",
				Help:      "Number of HTTP requests currently being served",
			},
		),
	}

	registry.MustRegister(
		hm.requestsTotal,
		hm.requestDuration,
		hm.inFlight,
	)

	return hm
}

// Instrument wraps next so that its requests are counted and timed under
// the given route label.
func (c *Collector) Instrument(route string, next http.Handler) http.Handler {
	if !c.config.Enabled {
		return next
	}

	labels := prometheus.Labels{"route": route}
	counter := c.httpMetrics.requestsTotal.MustCurryWith(labels)
	duration := c.httpMetrics.requestDuration.MustCurryWith(labels)

	return promhttp.InstrumentHandlerInFlight(c.httpMetrics.inFlight,
		promhttp.InstrumentHandlerDuration(duration,
			promhttp.InstrumentHandlerCounter(counter, next),
		),
	)
}
