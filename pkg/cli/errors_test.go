package cli

import (
	"errors"
	"fmt"
	"testing"
)

func TestConfigError(t *testing.T) {
	tests := []struct {
		name string
		err  *ConfigError
		want string
	}{
		{
			name: "with field",
			err:  NewConfigError("datasource.driver", "unsupported driver"),
			want: "config error in datasource.driver: unsupported driver",
		},
		{
			name: "without field",
			err:  NewConfigError("", "failed to load config"),
			want: "config error: failed to load config",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCommandError(t *testing.T) {
	underlying := errors.New("database is locked")
	err := NewCommandError("migrate", underlying)

	want := "command migrate failed: database is locked"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
	if err.Unwrap() != underlying {
		t.Errorf("Unwrap() = %v, want %v", err.Unwrap(), underlying)
	}
	if !errors.Is(err, underlying) {
		t.Error("errors.Is() should work with CommandError.Unwrap()")
	}
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitOK},
		{"config error", NewConfigError("output", "bad"), ExitConfig},
		{"wrapped config error", fmt.Errorf("startup: %w", NewConfigError("", "bad")), ExitConfig},
		{"command error", NewCommandError("query", errors.New("boom")), ExitFailure},
		{"plain error", errors.New("boom"), ExitFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExitCode(tt.err); got != tt.want {
				t.Errorf("ExitCode() = %d, want %d", got, tt.want)
			}
		})
	}
}
