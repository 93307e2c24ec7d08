package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	dir := t.TempDir()

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, "table", cfg.Output)
	assert.Equal(t, DefaultTimeout, cfg.Timeout)
	assert.Equal(t, filepath.Join(dir, "token"), cfg.TokenDir)
	assert.Empty(t, cfg.Endpoint)
}

func TestLoadConfigReadsYAML(t *testing.T) {
	dir := t.TempDir()
	content := []byte("endpoint: https://solar.example.com\noutput: json\ntimeout: 5s\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), content, 0o600))

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, "https://solar.example.com", cfg.Endpoint)
	assert.Equal(t, "json", cfg.Output)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
}

func TestLoadConfigMalformedYAML(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("endpoint: [unclosed"), 0o600))

	_, err := LoadConfig(dir)
	assert.Error(t, err)
}

func TestEndpointEnvOverride(t *testing.T) {
	dir := t.TempDir()
	content := []byte("endpoint: https://from-file.example.com\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), content, 0o600))

	t.Setenv(EndpointEnvVar, "https://from-env.example.com")

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, "https://from-env.example.com", cfg.Endpoint)
}

func TestRequireEndpoint(t *testing.T) {
	_, err := Config{}.RequireEndpoint()
	assert.ErrorIs(t, err, ErrNoEndpoint)

	ep, err := Config{Endpoint: "https://solar.example.com"}.RequireEndpoint()
	require.NoError(t, err)
	assert.Equal(t, "https://solar.example.com", ep)
}
