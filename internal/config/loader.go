package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"solarops/pkg/logging"

	"gopkg.in/yaml.v3"
)

const (
	userConfigDir  = ".config/solarops"
	configFileName = "config.yaml"
)

// EndpointEnvVar overrides the configured API endpoint.
const EndpointEnvVar = "SOLAROPS_ENDPOINT"

// GetDefaultConfigPathOrPanic returns the user configuration directory.
// It panics when the home directory cannot be resolved, which only
// happens in broken environments where nothing else would work either.
func GetDefaultConfigPathOrPanic() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		panic(fmt.Errorf("could not determine user config directory: %w", err))
	}
	return filepath.Join(homeDir, userConfigDir)
}

// LoadConfig loads configuration from the specified directory.
// A missing config.yaml is not an error: defaults apply, and the
// SOLAROPS_ENDPOINT environment variable can still supply the endpoint.
func LoadConfig(configPath string) (Config, error) {
	configFilePath := filepath.Join(configPath, configFileName)
	cfg := GetDefaultConfig()

	data, err := os.ReadFile(configFilePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logging.Debug("Config", "No config.yaml at %s, using defaults", configFilePath)
			return applyEnv(cfg, configPath), nil
		}
		return Config{}, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("error loading config from %s: %w", configFilePath, err)
	}
	logging.Debug("Config", "Loaded configuration from %s", configFilePath)
	return applyEnv(cfg, configPath), nil
}

// applyEnv fills environment overrides and derived defaults.
func applyEnv(cfg Config, configPath string) Config {
	if env := os.Getenv(EndpointEnvVar); env != "" {
		cfg.Endpoint = env
	}
	if cfg.TokenDir == "" {
		cfg.TokenDir = filepath.Join(configPath, "token")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	return cfg
}

// ErrNoEndpoint is returned when neither the config file nor the
// environment provides an API endpoint.
var ErrNoEndpoint = errors.New("no API endpoint configured: set 'endpoint' in config.yaml or SOLAROPS_ENDPOINT")

// RequireEndpoint returns the configured endpoint or ErrNoEndpoint.
func (c Config) RequireEndpoint() (string, error) {
	if c.Endpoint == "" {
		return "", ErrNoEndpoint
	}
	return c.Endpoint, nil
}
