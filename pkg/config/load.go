package config

import (
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is the prefix of every environment variable override.
const EnvPrefix = "QUARRY_"

// LoadConfig loads configuration from a YAML file at the specified path.
// Values missing from the file keep their defaults. The result is validated.
// Environment variables are not consulted; use LoadConfigWithEnvOverrides
// for that.
func LoadConfig(path string) (*Config, error) {
	cfg, err := loadFile(path)
	if err != nil {
		return nil, err
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// LoadConfigWithEnvOverrides loads configuration from a YAML file and applies
// environment variable overrides. Variables follow the naming convention
// QUARRY_SECTION_FIELD (e.g., QUARRY_DATASOURCE_DSN,
// QUARRY_TELEMETRY_LOGGING_LEVEL) and always take precedence over the file.
//
// An empty path skips the file and starts from the defaults.
//
// The loading sequence is:
// 1. Start from defaults
// 2. Load YAML from file
// 3. Apply environment variable overrides
// 4. Validate final configuration
func LoadConfigWithEnvOverrides(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		var err error
		if cfg, err = loadFile(path); err != nil {
			return nil, err
		}
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// loadFile reads path over the defaults.
func loadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}

	ApplyDefaults(cfg)
	return cfg, nil
}

// applyEnvOverrides overwrites fields whose QUARRY_* variable is set.
func applyEnvOverrides(cfg *Config) error {
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return fmt.Errorf("failed to apply environment overrides: %w", err)
	}
	return nil
}
