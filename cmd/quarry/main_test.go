package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"mercator-hq/quarry/pkg/catalog"
	"mercator-hq/quarry/pkg/cli"
	"mercator-hq/quarry/pkg/telemetry/health"
)

// writeConfig writes a config file using a fresh SQLite database in a
// temporary directory and returns its path.
func writeConfig(t *testing.T, extra string) string {
	t.Helper()
	return writeConfigSeeded(t, false, extra)
}

func writeConfigSeeded(t *testing.T, seed bool, extra string) string {
	t.Helper()
	dir := t.TempDir()
	content := fmt.Sprintf(`datasource:
  driver: sqlite
  dsn: %q
  seed: %t
telemetry:
  logging:
    level: error
%s`, filepath.Join(dir, "quarry.db"), seed, extra)

	path := filepath.Join(dir, "quarry.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

// run executes the command line and returns its stdout.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	return runContext(context.Background(), t, args...)
}

func runContext(ctx context.Context, t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(ctx)
	return stdout.String(), err
}

// mustRun fails the test when the command fails.
func mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := run(t, args...)
	if err != nil {
		t.Fatalf("quarry %s failed: %v", strings.Join(args, " "), err)
	}
	return out
}

func TestVersionCmd(t *testing.T) {
	out := mustRun(t, "version")
	if !strings.Contains(out, "Quarry "+Version) || !strings.Contains(out, "Go Version:") {
		t.Errorf("version output = %q", out)
	}

	out = mustRun(t, "version", "-o", "json")
	var info health.VersionInfo
	if err := json.Unmarshal([]byte(out), &info); err != nil {
		t.Fatalf("invalid JSON %q: %v", out, err)
	}
	if info.Version != Version || info.Commit != GitCommit {
		t.Errorf("version info = %+v", info)
	}
}

func TestValidateCmd(t *testing.T) {
	path := writeConfig(t, "")

	out := mustRun(t, "validate", "--config", path)
	if !strings.Contains(out, "✓ Configuration valid") || !strings.Contains(out, "sqlite") {
		t.Errorf("validate output = %q", out)
	}

	if _, err := run(t, "validate", "--config", path, "--connect"); err == nil {
		t.Error("Expected --connect to fail before the schema exists")
	}

	mustRun(t, "migrate", "--config", path)
	out = mustRun(t, "validate", "--config", path, "--connect")
	if !strings.Contains(out, "✓ database") || !strings.Contains(out, "✓ schema") {
		t.Errorf("validate --connect output = %q", out)
	}
}

func TestValidateCmd_Invalid(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"missing file", []string{"validate", "--config", filepath.Join(t.TempDir(), "missing.yaml")}},
		{"invalid value", []string{"validate", "--config", writeConfig(t, "query:\n  max_page_size: -1\n")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, tt.args...)
			if err == nil {
				t.Fatal("Expected validate to fail")
			}
			if code := cli.ExitCode(err); code != cli.ExitConfig {
				t.Errorf("ExitCode() = %d, want %d (%v)", code, cli.ExitConfig, err)
			}
		})
	}
}

func TestMigrateAndQuery(t *testing.T) {
	path := writeConfig(t, "")

	out := mustRun(t, "migrate", "--seed", "--config", path)
	if !strings.Contains(out, "✓ Schema migrated") || !strings.Contains(out, "3 products in 1 category") {
		t.Errorf("migrate output = %q", out)
	}
	// Seeding twice leaves the catalog unchanged.
	out = mustRun(t, "migrate", "--seed", "--config", path)
	if !strings.Contains(out, "3 products in 1 category") {
		t.Errorf("second migrate output = %q", out)
	}

	t.Run("products", func(t *testing.T) {
		var got []catalog.Product
		decode(t, mustRun(t, "query", "products", "-c", path, "-o", "json"), &got)
		if len(got) != 2 || got[0].Name != "Apple" || got[1].Name != "Banana" {
			t.Errorf("products = %+v", got)
		}
	})

	t.Run("async projected", func(t *testing.T) {
		var got []catalog.ProductProjection
		decode(t, mustRun(t, "query", "products", "-c", path, "-o", "json", "--projected", "--async", "-n", "Cherry,Banana"), &got)
		if len(got) != 2 || got[0].Name != "Cherry" || got[0].CategoryName != "Fruit" {
			t.Errorf("projected = %+v", got)
		}
	})

	t.Run("first", func(t *testing.T) {
		var got catalog.ProductProjection
		decode(t, mustRun(t, "query", "products", "-c", path, "-o", "json", "--projected", "--first"), &got)
		if got.Name != "Apple" || got.Price != 10 {
			t.Errorf("first = %+v", got)
		}

		out := mustRun(t, "query", "products", "-c", path, "-o", "json", "--first", "-n", "Durian")
		if strings.TrimSpace(out) != "null" {
			t.Errorf("first without match = %q, want null", out)
		}
	})

	t.Run("page as csv", func(t *testing.T) {
		out := mustRun(t, "query", "products", "-c", path, "-o", "csv", "--skip", "1", "--take", "1")
		want := "id,name,price,category_id\n2,Banana,15,1\n"
		if out != want {
			t.Errorf("csv = %q, want %q", out, want)
		}
	})

	t.Run("summary as text", func(t *testing.T) {
		out := mustRun(t, "query", "summary", "-c", path, "-o", "text")
		if !strings.Contains(out, "PRODUCT_COUNT") || !strings.Contains(out, "Fruit") {
			t.Errorf("summary = %q", out)
		}
	})

	t.Run("stats", func(t *testing.T) {
		var got catalog.Stats
		decode(t, mustRun(t, "query", "stats", "-c", path, "-o", "json"), &got)
		if got.Products != 3 || got.Categories != 1 {
			t.Errorf("stats = %+v", got)
		}
	})
}

func TestQueryCmd_InvalidFlags(t *testing.T) {
	path := writeConfig(t, "")

	tests := []struct {
		name string
		args []string
	}{
		{"first with take", []string{"query", "products", "-c", path, "--first", "--take", "1"}},
		{"negative skip", []string{"query", "products", "-c", path, "--skip", "-1"}},
		{"unknown output", []string{"query", "stats", "-c", path, "-o", "yaml"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, tt.args...)
			if code := cli.ExitCode(err); code != cli.ExitConfig {
				t.Errorf("ExitCode() = %d, want %d (%v)", code, cli.ExitConfig, err)
			}
		})
	}

	// Querying before migrate is a command failure, not a config error.
	_, err := run(t, "query", "stats", "-c", path)
	if code := cli.ExitCode(err); code != cli.ExitFailure {
		t.Errorf("ExitCode() = %d, want %d (%v)", code, cli.ExitFailure, err)
	}
}

func TestExplainCmd(t *testing.T) {
	path := writeConfig(t, "")

	tests := []struct {
		name string
		args []string
		want []string
	}{
		{"products", []string{"explain", "-c", path, "-n", "Apple"}, []string{"SELECT", "Apple", "ORDER BY"}},
		{"projected page", []string{"explain", "products", "-c", path, "--projected", "--take", "5"}, []string{"category_name", "JOIN categories", "LIMIT 5"}},
		{"summary", []string{"explain", "summary", "-c", path}, []string{"LEFT JOIN products", "GROUP BY"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := mustRun(t, tt.args...)
			for _, w := range tt.want {
				if !strings.Contains(out, w) {
					t.Errorf("explain output %q missing %q", out, w)
				}
			}
		})
	}

	if _, err := run(t, "explain", "orders", "-c", path); err == nil {
		t.Error("Expected unknown explain target to fail")
	}
}

func TestServeCmd(t *testing.T) {
	path := writeConfigSeeded(t, true, "server:\n  stats_schedule: \"@every 1m\"\n")

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen failed: %v", err)
	}
	addr := ln.Addr().String()
	ln.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		_, err := runContext(ctx, t, "serve", "-c", path, "--listen", addr, "--watch")
		done <- err
	}()

	var resp *http.Response
	for i := 0; i < 100; i++ {
		resp, err = http.Get("http://" + addr + "/v1/stats")
		if err == nil {
			break
		}
		time.Sleep(50 * time.Millisecond)
	}
	if err != nil {
		t.Fatalf("server did not come up: %v", err)
	}
	var stats catalog.Stats
	err = json.NewDecoder(resp.Body).Decode(&stats)
	resp.Body.Close()
	if err != nil || stats.Products != 3 {
		t.Errorf("stats = %+v, err %v", stats, err)
	}

	resp, err = http.Get("http://" + addr + "/metrics")
	if err != nil {
		t.Fatalf("GET /metrics failed: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if want := `quarry_catalog_rows{table="products"} 3`; !strings.Contains(string(body), want) {
		t.Errorf("metrics missing %q", want)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("serve returned %v", err)
		}
	case <-time.After(10 * time.Second):
		t.Fatal("serve did not stop after cancel")
	}
}

func TestServeCmd_WatchRequiresConfig(t *testing.T) {
	_, err := run(t, "serve", "--watch")
	if code := cli.ExitCode(err); code != cli.ExitConfig {
		t.Errorf("ExitCode() = %d, want %d (%v)", code, cli.ExitConfig, err)
	}
}

func decode(t *testing.T, out string, v any) {
	t.Helper()
	if err := json.Unmarshal([]byte(out), v); err != nil {
		t.Fatalf("invalid JSON %q: %v", out, err)
	}
}
