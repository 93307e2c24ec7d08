package config

import "time"

// Config is the top-level configuration structure for solarops.
type Config struct {
	// Endpoint is the base URL of the monitoring API, without the
	// /api/v1 suffix (e.g. "https://solar.example.com").
	Endpoint string `yaml:"endpoint"`

	// TokenDir overrides the directory holding the persisted bearer
	// token. Defaults to <config dir>/token.
	TokenDir string `yaml:"tokenDir,omitempty"`

	// Output is the default output format for list commands
	// (table, wide, json, yaml, template).
	Output string `yaml:"output,omitempty"`

	// Timeout is the per-request timeout for remote calls.
	Timeout time.Duration `yaml:"timeout,omitempty"`

	// LogLevel is the minimum log level (debug, info, warn, error).
	LogLevel string `yaml:"logLevel,omitempty"`

	// InsecureSkipVerify disables TLS certificate verification.
	// Intended for lab plants with self-signed certificates only.
	InsecureSkipVerify bool `yaml:"insecureSkipVerify,omitempty"`
}

// DefaultTimeout is the per-request timeout applied when the config
// file does not set one.
const DefaultTimeout = 30 * time.Second

// GetDefaultConfig returns the default configuration for solarops.
func GetDefaultConfig() Config {
	return Config{
		Output:   "table",
		Timeout:  DefaultTimeout,
		LogLevel: "info",
	}
}
