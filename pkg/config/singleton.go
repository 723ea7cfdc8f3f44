package config

import (
	"fmt"
	"sync"
)

var (
	// globalConfig holds the singleton configuration instance.
	globalConfig *Config

	// configMutex protects access to globalConfig.
	configMutex sync.RWMutex
)

// Initialize loads configuration from the specified path with environment
// variable overrides and stores it as the global configuration. An empty
// path starts from the defaults.
//
// Returns an error if loading or validation fails, in which case the global
// configuration is left unchanged.
func Initialize(path string) error {
	cfg, err := LoadConfigWithEnvOverrides(path)
	if err != nil {
		return err
	}
	SetConfig(cfg)
	return nil
}

// GetConfig returns the global configuration instance, or nil if Initialize
// has not been called successfully. It is safe for concurrent use.
//
// For testing, prefer passing explicit Config instances rather than relying
// on the global singleton.
func GetConfig() *Config {
	configMutex.RLock()
	defer configMutex.RUnlock()
	return globalConfig
}

// SetConfig replaces the global configuration instance.
func SetConfig(cfg *Config) {
	configMutex.Lock()
	defer configMutex.Unlock()
	globalConfig = cfg
}

// ReloadConfig reloads the configuration from the specified path. The new
// configuration replaces the global instance only if loading and validation
// succeed.
func ReloadConfig(path string) error {
	cfg, err := LoadConfigWithEnvOverrides(path)
	if err != nil {
		return fmt.Errorf("failed to reload configuration: %w", err)
	}
	SetConfig(cfg)
	return nil
}

// MustGetConfig returns the global configuration instance.
// It panics if the configuration has not been initialized.
func MustGetConfig() *Config {
	cfg := GetConfig()
	if cfg == nil {
		panic("configuration not initialized: call Initialize first")
	}
	return cfg
}
