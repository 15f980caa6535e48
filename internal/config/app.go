// Package config loads application-level configuration from the environment.
package config

import (
	"fmt"
	"time"

	"credible-backend/pkg/config"
)

// AppConfig holds the runtime settings for the API server.
type AppConfig struct {
	// AnalyzerMode selects how /verify is served.
	// One of: heuristic, gemini, openai, claude, noop. Default: heuristic.
	AnalyzerMode string

	// SettingsPath is the YAML file where the API key and other settings
	// are persisted. Default: "settings.yaml".
	SettingsPath string

	// Addr is the listen address for the HTTP server. Default: ":8080".
	Addr string

	// MaxBodyBytes caps the size of accepted request bodies. Default: 1MB.
	MaxBodyBytes int

	// ShutdownTimeout bounds graceful shutdown. Default: 5s.
	ShutdownTimeout time.Duration
}

var validModes = map[string]bool{
	"heuristic": true,
	"gemini":    true,
	"openai":    true,
	"claude":    true,
	"noop":      true,
}

// Load reads the application configuration from environment variables.
// Returns an error when ANALYZER_MODE names an unknown mode (fail-closed:
// a typo should not silently serve heuristic results).
func Load() (*AppConfig, error) {
	cfg := &AppConfig{
		AnalyzerMode:    config.GetEnvString("ANALYZER_MODE", "heuristic"),
		SettingsPath:    config.GetEnvString("SETTINGS_PATH", "settings.yaml"),
		Addr:            config.GetEnvString("LISTEN_ADDR", ":8080"),
		MaxBodyBytes:    config.GetEnvInt("MAX_BODY_BYTES", 1<<20),
		ShutdownTimeout: config.GetEnvDuration("SHUTDOWN_TIMEOUT", 5*time.Second),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid application configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks configuration correctness.
func (c *AppConfig) Validate() error {
	if !validModes[c.AnalyzerMode] {
		return fmt.Errorf("ANALYZER_MODE must be one of heuristic, gemini, openai, claude, noop; got %q", c.AnalyzerMode)
	}
	if c.SettingsPath == "" {
		return fmt.Errorf("SETTINGS_PATH cannot be empty")
	}
	if c.Addr == "" {
		return fmt.Errorf("LISTEN_ADDR cannot be empty")
	}
	if c.MaxBodyBytes <= 0 {
		return fmt.Errorf("MAX_BODY_BYTES must be positive, got %d", c.MaxBodyBytes)
	}
	if c.ShutdownTimeout <= 0 {
		return fmt.Errorf("SHUTDOWN_TIMEOUT must be positive, got %v", c.ShutdownTimeout)
	}
	return nil
}
