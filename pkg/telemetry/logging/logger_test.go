package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{
			name:    "valid JSON config",
			config:  Config{Level: "info", Format: "json", RedactSecrets: true},
			wantErr: false,
		},
		{
			name:    "valid text config",
			config:  Config{Level: "debug", Format: "text"},
			wantErr: false,
		},
		{
			name:    "valid console config",
			config:  Config{Level: "WARN", Format: "console", RedactSecrets: true},
			wantErr: false,
		},
		{
			name:    "empty config uses defaults",
			config:  Config{},
			wantErr: false,
		},
		{
			name:    "invalid log level",
			config:  Config{Level: "invalid", Format: "json"},
			wantErr: true,
		},
		{
			name:    "invalid format",
			config:  Config{Level: "info", Format: "invalid"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.config.Writer = &bytes.Buffer{}
			_, err := New(tt.config)
			if (err != nil) != tt.wantErr {
				t.Errorf("New() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

// decode parses the single JSON record in buf.
func decode(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("failed to decode log entry %q: %v", buf.String(), err)
	}
	return entry
}

func TestLogger_LevelFiltering(t *testing.T) {
	tests := []struct {
		name      string
		logLevel  string
		logMethod func(*Logger, string)
		wantLog   bool
	}{
		{"debug level logs debug", "debug", func(l *Logger, msg string) { l.Debug(msg) }, true},
		{"info level filters debug", "info", func(l *Logger, msg string) { l.Debug(msg) }, false},
		{"info level logs info", "info", func(l *Logger, msg string) { l.Info(msg) }, true},
		{"warn level filters info", "warn", func(l *Logger, msg string) { l.Info(msg) }, false},
		{"warn level logs warn", "warn", func(l *Logger, msg string) { l.Warn(msg) }, true},
		{"error level filters warn", "error", func(l *Logger, msg string) { l.Warn(msg) }, false},
		{"error level logs error", "error", func(l *Logger, msg string) { l.Error(msg) }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			logger, err := New(Config{Level: tt.logLevel, Format: "json", Writer: buf})
			if err != nil {
				t.Fatalf("New() error = %v", err)
			}

			tt.logMethod(logger, "test message")

			logged := strings.Contains(buf.String(), "test message")
			if logged != tt.wantLog {
				t.Errorf("logged = %v, want %v (output %q)", logged, tt.wantLog, buf.String())
			}
		})
	}
}

// TestLogger_SetLevel tests that level changes reach derived loggers.
func TestLogger_SetLevel(t *testing.T) {
	buf := &bytes.Buffer{}
	logger, err := New(Config{Level: "info", Writer: buf})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	derived := logger.With("component", "test")

	derived.Debug("hidden")
	if buf.Len() != 0 {
		t.Fatalf("expected debug to be filtered, got %q", buf.String())
	}

	if err := logger.SetLevel("debug"); err != nil {
		t.Fatalf("SetLevel() error = %v", err)
	}
	if logger.Level() != slog.LevelDebug {
		t.Errorf("expected level debug, got %v", logger.Level())
	}

	derived.Debug("visible")
	if !strings.Contains(buf.String(), "visible") {
		t.Errorf("expected debug record after SetLevel, got %q", buf.String())
	}

	if err := logger.SetLevel("loud"); err == nil {
		t.Error("expected error for unknown level")
	}
	if logger.Level() != slog.LevelDebug {
		t.Errorf("expected level to stay debug after failed SetLevel, got %v", logger.Level())
	}
}

func TestLogger_StructuredFields(t *testing.T) {
	buf := &bytes.Buffer{}
	logger, err := New(Config{Level: "info", Format: "json", Writer: buf})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	logger.With("component", "repository").Info("Query completed", "query", "products.by_names", "rows", 2)

	entry := decode(t, buf)
	if entry["msg"] != "Query completed" {
		t.Errorf("expected msg %q, got %v", "Query completed", entry["msg"])
	}
	if entry["component"] != "repository" {
		t.Errorf("expected component field, got %v", entry["component"])
	}
	if entry["query"] != "products.by_names" {
		t.Errorf("expected query field, got %v", entry["query"])
	}
	if entry["rows"] != float64(2) {
		t.Errorf("expected rows 2, got %v", entry["rows"])
	}
}

func TestLogger_Redaction(t *testing.T) {
	tests := []struct {
		name    string
		redact  bool
		args    []any
		key     string
		want    string
	}{
		{
			name:   "dsn password in value",
			redact: true,
			args:   []any{"dsn", "postgres://quarry:hunter22@db:5432/quarry"},
			key:    "dsn",
			want:   "postgres://quarry:***@db:5432/quarry",
		},
		{
			name:   "sensitive key",
			redact: true,
			args:   []any{"password", "correct-horse-battery"},
			key:    "password",
			want:   "corr***",
		},
		{
			name:   "error value",
			redact: true,
			args:   []any{"error", errors.New("connect failed: password=hunter22 host=db")},
			key:    "error",
			want:   "connect failed: password=*** host=db",
		},
		{
			name:   "disabled",
			redact: false,
			args:   []any{"dsn", "postgres://quarry:hunter22@db/quarry"},
			key:    "dsn",
			want:   "postgres://quarry:hunter22@db/quarry",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			logger, err := New(Config{Level: "info", Format: "json", RedactSecrets: tt.redact, Writer: buf})
			if err != nil {
				t.Fatalf("New() error = %v", err)
			}

			logger.Info("test", tt.args...)

			entry := decode(t, buf)
			if entry[tt.key] != tt.want {
				t.Errorf("expected %s %q, got %v", tt.key, tt.want, entry[tt.key])
			}
		})
	}
}

// TestLogger_RedactsWithAndGroups tests redaction of attributes bound with
// With and nested in groups.
func TestLogger_RedactsWithAndGroups(t *testing.T) {
	buf := &bytes.Buffer{}
	logger, err := New(Config{Level: "info", Format: "json", RedactSecrets: true, Writer: buf})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	logger.With("dsn", "postgres://u:p4ss@h/db").Info("opened",
		slog.Group("auth", slog.String("token", "abcdefghijkl")))

	out := buf.String()
	if strings.Contains(out, "p4ss") || strings.Contains(out, "abcdefghijkl") {
		t.Errorf("expected secrets to be redacted, got %s", out)
	}
}

// TestLogger_Slog tests that the exposed *slog.Logger shares enrichment and
// redaction.
func TestLogger_Slog(t *testing.T) {
	buf := &bytes.Buffer{}
	logger, err := New(Config{Level: "info", Format: "json", RedactSecrets: true, Writer: buf})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	ctx := WithRequestID(context.Background(), "req-42")
	logger.Slog().InfoContext(ctx, "served", "dsn", "postgres://u:secret@h/db")

	entry := decode(t, buf)
	if entry["request_id"] != "req-42" {
		t.Errorf("expected request_id req-42, got %v", entry["request_id"])
	}
	if entry["dsn"] != "postgres://u:***@h/db" {
		t.Errorf("expected redacted dsn, got %v", entry["dsn"])
	}
}

// TestLogger_TraceContext tests that the active span's IDs are logged.
func TestLogger_TraceContext(t *testing.T) {
	buf := &bytes.Buffer{}
	logger, err := New(Config{Level: "info", Format: "json", Writer: buf})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	tp := sdktrace.NewTracerProvider()
	defer tp.Shutdown(context.Background())

	ctx, span := tp.Tracer("test").Start(context.Background(), "op")
	logger.InfoContext(ctx, "inside span")
	span.End()

	entry := decode(t, buf)
	if entry["trace_id"] != span.SpanContext().TraceID().String() {
		t.Errorf("expected trace_id %s, got %v", span.SpanContext().TraceID(), entry["trace_id"])
	}
	if entry["span_id"] != span.SpanContext().SpanID().String() {
		t.Errorf("expected span_id %s, got %v", span.SpanContext().SpanID(), entry["span_id"])
	}
}

func TestLogger_WithContext(t *testing.T) {
	buf := &bytes.Buffer{}
	logger, err := New(Config{Level: "info", Format: "json", Writer: buf})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if logger.WithContext(context.Background()) != logger {
		t.Error("expected WithContext without fields to return the same logger")
	}

	ctx := WithCommand(context.Background(), "query")
	logger.WithContext(ctx).Info("running")

	entry := decode(t, buf)
	if entry["command"] != "query" {
		t.Errorf("expected command field, got %v", entry["command"])
	}
}

func TestLogger_Formats(t *testing.T) {
	tests := []struct {
		format string
		want   string
	}{
		{"json", `"msg":"hello"`},
		{"text", "msg=hello"},
		{"console", "msg=hello"},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			buf := &bytes.Buffer{}
			logger, err := New(Config{Level: "info", Format: tt.format, Writer: buf})
			if err != nil {
				t.Fatalf("New() error = %v", err)
			}
			logger.Info("hello")
			if !strings.Contains(buf.String(), tt.want) {
				t.Errorf("expected output to contain %q, got %q", tt.want, buf.String())
			}
		})
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input   string
		want    slog.Level
		wantErr bool
	}{
		{"debug", slog.LevelDebug, false},
		{"DEBUG", slog.LevelDebug, false},
		{"", slog.LevelInfo, false},
		{"warning", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"trace", slog.LevelInfo, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := parseLevel(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseLevel() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("parseLevel() = %v, want %v", got, tt.want)
			}
		})
	}
}
