package scheduler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func noop(context.Context) error { return nil }

func TestScheduler_Start(t *testing.T) {
	tests := []struct {
		name        string
		schedule    string
		wantRunning bool
		wantError   bool
	}{
		{
			name:        "valid daily schedule",
			schedule:    "0 3 * * *",
			wantRunning: true,
		},
		{
			name:        "descriptor",
			schedule:    "@every 5m",
			wantRunning: true,
		},
		{
			name:     "empty schedule - no error, not running",
			schedule: "",
		},
		{
			name:      "invalid schedule",
			schedule:  "invalid cron",
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New("test", tt.schedule, noop, testLogger())

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			err := s.Start(ctx)
			if (err != nil) != tt.wantError {
				t.Errorf("Start() error = %v, wantError %v", err, tt.wantError)
			}
			if s.IsRunning() != tt.wantRunning {
				t.Errorf("IsRunning() = %v, want %v", s.IsRunning(), tt.wantRunning)
			}

			if tt.wantRunning {
				if s.NextRun() == nil {
					t.Error("NextRun() returned nil for running scheduler")
				}
			} else if s.NextRun() != nil {
				t.Error("NextRun() should be nil when not running")
			}

			s.Stop()
			if s.IsRunning() {
				t.Error("scheduler still running after Stop()")
			}
		})
	}
}

func TestScheduler_StartTwice(t *testing.T) {
	s := New("test", "@hourly", noop, testLogger())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := s.Start(ctx); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer s.Stop()

	if err := s.Start(ctx); err == nil {
		t.Error("expected second Start() to fail")
	}
}

// TestScheduler_Runs tests that the job fires on schedule.
func TestScheduler_Runs(t *testing.T) {
	var runs atomic.Int32
	s := New("test", "@every 1s", func(context.Context) error {
		runs.Add(1)
		return nil
	}, testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := s.Start(ctx); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	deadline := time.Now().Add(5 * time.Second)
	for runs.Load() == 0 && time.Now().Before(deadline) {
		time.Sleep(50 * time.Millisecond)
	}
	if runs.Load() == 0 {
		t.Fatal("job did not run within 5s")
	}
	s.Stop()
}

// TestScheduler_StopsOnCancel tests that cancelling the start context stops
// the scheduler.
func TestScheduler_StopsOnCancel(t *testing.T) {
	s := New("test", "@hourly", noop, testLogger())
	ctx, cancel := context.WithCancel(context.Background())

	if err := s.Start(ctx); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	cancel()

	deadline := time.Now().Add(2 * time.Second)
	for s.IsRunning() && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if s.IsRunning() {
		t.Error("scheduler still running after context cancellation")
	}
}

func TestScheduler_RunNow(t *testing.T) {
	boom := errors.New("boom")
	s := New("refresh", "", func(context.Context) error { return boom }, testLogger())

	err := s.RunNow(context.Background())
	if !errors.Is(err, boom) {
		t.Fatalf("RunNow() error = %v, want %v", err, boom)
	}
	if err.Error() != "refresh: boom" {
		t.Errorf("RunNow() error = %q", err.Error())
	}

	var ran bool
	s = New("refresh", "", func(context.Context) error { ran = true; return nil }, nil)
	if err := s.RunNow(context.Background()); err != nil || !ran {
		t.Errorf("RunNow() = %v, ran = %v", err, ran)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		schedule string
		wantErr  bool
	}{
		{"", false},
		{"*/5 * * * *", false},
		{"@every 30s", false},
		{"@daily", false},
		{"* * *", true},
		{"@sometimes", true},
	}

	for _, tt := range tests {
		t.Run(tt.schedule, func(t *testing.T) {
			if err := Validate(tt.schedule); (err != nil) != tt.wantErr {
				t.Errorf("Validate(%q) error = %v, wantErr %v", tt.schedule, err, tt.wantErr)
			}
		})
	}
}
