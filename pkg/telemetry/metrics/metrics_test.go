package metrics

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"mercator-hq/quarry/pkg/catalog/catalogtest"
	"mercator-hq/quarry/pkg/catalog/queries"
	"mercator-hq/quarry/pkg/config"
	"mercator-hq/quarry/pkg/datasource"
	"mercator-hq/quarry/pkg/repository"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"gorm.io/gorm"
)

var (
	_ repository.Recorder          = (*Collector)(nil)
	_ datasource.StatementObserver = (*Collector)(nil)
)

// Helper function to create test config
func testConfig() *config.MetricsConfig {
	return &config.MetricsConfig{
		Enabled:         true,
		Namespace:       "test",
		DurationBuckets: []float64{0.001, 0.01, 0.1, 1},
		RowBuckets:      []float64{0, 1, 10, 100},
	}
}

// TestCollector_NewCollector tests collector creation
func TestCollector_NewCollector(t *testing.T) {
	cfg := testConfig()
	registry := prometheus.NewRegistry()

	collector := NewCollector(cfg, registry)

	if collector == nil {
		t.Fatal("Expected non-nil collector")
	}
	if collector.config != cfg {
		t.Error("Collector config not set correctly")
	}
	if collector.Registry() != registry {
		t.Error("Collector registry not set correctly")
	}
}

// TestCollector_NewCollector_Defaults tests that missing settings are filled.
func TestCollector_NewCollector_Defaults(t *testing.T) {
	cfg := &config.MetricsConfig{Enabled: true}
	collector := NewCollector(cfg, nil)

	if collector.Registry() == nil {
		t.Fatal("Expected a registry to be created")
	}
	if cfg.Namespace != config.DefaultMetricsNamespace {
		t.Errorf("Expected namespace %q, got %q", config.DefaultMetricsNamespace, cfg.Namespace)
	}
	if len(cfg.DurationBuckets) == 0 || len(cfg.RowBuckets) == 0 {
		t.Error("Expected default buckets")
	}
}

// TestCollector_RecordQuery tests query recording
func TestCollector_RecordQuery(t *testing.T) {
	collector := NewCollector(testConfig(), prometheus.NewRegistry())

	tests := []struct {
		name   string
		query  string
		shape  string
		status string
		rows   int
	}{
		{"list success", "products.by_names", "list", "success", 2},
		{"single success", "products.by_names", "single", "success", 1},
		{"error", "products.by_names", "list", "error", -1},
		{"canceled", "stats", "single", "canceled", -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			collector.RecordQuery(tt.query, tt.shape, tt.status, 5*time.Millisecond, tt.rows)

			count := testutil.ToFloat64(collector.queryMetrics.queriesTotal.WithLabelValues(tt.query, tt.shape, tt.status))
			if count != 1 {
				t.Errorf("Expected query counter 1, got %f", count)
			}
		})
	}

	// Failed invocations are timed but carry no row count.
	rows := testutil.CollectAndCount(collector.queryMetrics.queryRows)
	if rows != 2 {
		t.Errorf("Expected 2 row histograms, got %d", rows)
	}
	durations := testutil.CollectAndCount(collector.queryMetrics.queryDuration)
	if durations != 3 {
		t.Errorf("Expected 3 duration histograms, got %d", durations)
	}
}

// TestCollector_ObserveStatement tests statement classification
func TestCollector_ObserveStatement(t *testing.T) {
	collector := NewCollector(testConfig(), prometheus.NewRegistry())

	tests := []struct {
		name      string
		operation string
		rows      int64
		err       error
		status    string
	}{
		{"select", "select", 3, nil, StatementSuccess},
		{"not found", "select", 0, gorm.ErrRecordNotFound, StatementNotFound},
		{"canceled", "select", 0, context.Canceled, StatementCanceled},
		{"deadline", "update", 0, context.DeadlineExceeded, StatementCanceled},
		{"failure", "insert", 0, errors.New("constraint failed"), StatementError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			collector.ObserveStatement(tt.operation, time.Millisecond, tt.rows, tt.err)

			count := testutil.ToFloat64(collector.statementMetrics.statementsTotal.WithLabelValues(tt.operation, tt.status))
			if count < 1 {
				t.Errorf("Expected statement counter >= 1, got %f", count)
			}
		})
	}

	collector.ObserveStatement("delete", time.Millisecond, 4, nil)
	if got := testutil.ToFloat64(collector.statementMetrics.rowsAffected.WithLabelValues("delete")); got != 4 {
		t.Errorf("Expected 4 rows affected, got %f", got)
	}
	if got := testutil.CollectAndCount(collector.statementMetrics.rowsAffected); got != 1 {
		t.Errorf("Expected selects to be excluded from rows affected, got %d series", got)
	}
}

// TestCollector_Disabled tests that a disabled collector records nothing
func TestCollector_Disabled(t *testing.T) {
	cfg := testConfig()
	cfg.Enabled = false
	collector := NewCollector(cfg, prometheus.NewRegistry())

	collector.RecordQuery("products.by_names", "list", "success", time.Millisecond, 2)
	collector.ObserveStatement("select", time.Millisecond, 2, nil)

	if got := testutil.CollectAndCount(collector.queryMetrics.queriesTotal); got != 0 {
		t.Errorf("Expected no query series, got %d", got)
	}
	if got := testutil.CollectAndCount(collector.statementMetrics.statementsTotal); got != 0 {
		t.Errorf("Expected no statement series, got %d", got)
	}
}

// TestCollector_CardinalityOverflow tests that excess names become "other"
func TestCollector_CardinalityOverflow(t *testing.T) {
	collector := NewCollector(testConfig(), prometheus.NewRegistry())
	collector.cardinalityLimiter = NewCardinalityLimiter(1)

	collector.RecordQuery("first", "list", "success", time.Millisecond, 1)
	collector.RecordQuery("second", "list", "success", time.Millisecond, 1)

	if got := testutil.ToFloat64(collector.queryMetrics.queriesTotal.WithLabelValues("first", "list", "success")); got != 1 {
		t.Errorf("Expected first query counted under its name, got %f", got)
	}
	if got := testutil.ToFloat64(collector.queryMetrics.queriesTotal.WithLabelValues(otherQuery, "list", "success")); got != 1 {
		t.Errorf("Expected second query counted as other, got %f", got)
	}
}

func TestCardinalityLimiter(t *testing.T) {
	limiter := NewCardinalityLimiter(3)

	for _, v := range []string{"a", "b", "c"} {
		if !limiter.Allow(v) {
			t.Errorf("Expected %q to be allowed", v)
		}
	}
	if !limiter.Allow("a") {
		t.Error("Expected existing value to be allowed")
	}
	if limiter.Allow("d") {
		t.Error("Expected value beyond limit to be rejected")
	}
	if limiter.Count() != 3 {
		t.Errorf("Expected count 3, got %d", limiter.Count())
	}
}

// TestCollector_Instrument tests HTTP request instrumentation
func TestCollector_Instrument(t *testing.T) {
	collector := NewCollector(testConfig(), prometheus.NewRegistry())

	handler := collector.Instrument("products", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/products", nil))
	}

	got := testutil.ToFloat64(collector.httpMetrics.requestsTotal.WithLabelValues("products", "get", "418"))
	if got != 2 {
		t.Errorf("Expected 2 requests counted, got %f", got)
	}
	if inFlight := testutil.ToFloat64(collector.httpMetrics.inFlight); inFlight != 0 {
		t.Errorf("Expected no requests in flight, got %f", inFlight)
	}
}

// TestCollector_Handler tests the exposition endpoint
func TestCollector_Handler(t *testing.T) {
	collector := NewCollector(testConfig(), prometheus.NewRegistry())
	collector.RecordQuery("products.by_names", "list", "success", time.Millisecond, 2)

	server := httptest.NewServer(collector.Handler())
	defer server.Close()

	resp, err := http.Get(server.URL)
	if err != nil {
		t.Fatalf("GET failed: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed to read body: %v", err)
	}

	for _, want := range []string{
		`test_queries_total{query="products.by_names",shape="list",status="success"} 1`,
		"go_goroutines",
	} {
		if !strings.Contains(string(body), want) {
			t.Errorf("Expected exposition to contain %q", want)
		}
	}
}

// TestCollector_Wired tests the collector attached to a real data source
// and repository.
func TestCollector_Wired(t *testing.T) {
	collector := NewCollector(testConfig(), prometheus.NewRegistry())

	db := catalogtest.Open(t, datasource.WithStatementObserver(collector))
	if err := collector.RegisterDBStats(db.SQL(), "catalog"); err != nil {
		t.Fatalf("RegisterDBStats failed: %v", err)
	}

	repo := repository.New(db, repository.WithRecorder(collector), repository.WithLogger(catalogtest.Logger()))
	if _, err := repository.GetList(context.Background(), repo, queries.BananasOrApplesOrderedByPrice()); err != nil {
		t.Fatalf("GetList failed: %v", err)
	}

	if got := testutil.ToFloat64(collector.queryMetrics.queriesTotal.WithLabelValues("products.by_names", "list", "success")); got != 1 {
		t.Errorf("Expected one recorded invocation, got %f", got)
	}
	if got := testutil.ToFloat64(collector.statementMetrics.statementsTotal.WithLabelValues("select", StatementSuccess)); got < 1 {
		t.Errorf("Expected at least one observed select, got %f", got)
	}

	if err := collector.RegisterDBStats(db.SQL(), "catalog"); err == nil {
		t.Error("Expected duplicate DB stats registration to fail")
	}
}

// TestCollector_ConcurrentRecording tests thread safety
func TestCollector_ConcurrentRecording(t *testing.T) {
	collector := NewCollector(testConfig(), prometheus.NewRegistry())

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				collector.RecordQuery("products.by_names", "list", "success", time.Millisecond, 2)
				collector.ObserveStatement("select", time.Millisecond, 2, nil)
			}
		}()
	}
	wg.Wait()

	if got := testutil.ToFloat64(collector.queryMetrics.queriesTotal.WithLabelValues("products.by_names", "list", "success")); got != 1000 {
		t.Errorf("Expected 1000 invocations, got %f", got)
	}
}

// TestCollector_SetCatalogSize tests the catalog gauges
func TestCollector_SetCatalogSize(t *testing.T) {
	collector := NewCollector(testConfig(), prometheus.NewRegistry())
	at := time.Unix(1700000000, 0)

	collector.SetCatalogSize(map[string]int64{"products": 3, "categories": 1}, at)
	collector.SetCatalogSize(map[string]int64{"products": 4}, at.Add(time.Minute))

	if got := testutil.ToFloat64(collector.catalogMetrics.rows.WithLabelValues("products")); got != 4 {
		t.Errorf("Expected 4 products, got %f", got)
	}
	if got := testutil.ToFloat64(collector.catalogMetrics.rows.WithLabelValues("categories")); got != 1 {
		t.Errorf("Expected 1 category, got %f", got)
	}
	if got := testutil.ToFloat64(collector.catalogMetrics.refreshedAt); got != float64(at.Add(time.Minute).Unix()) {
		t.Errorf("Expected refresh timestamp of the last call, got %f", got)
	}
}
