package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	t.Setenv("CONFIG_PATH", filepath.Join(t.TempDir(), "nope.yaml"))

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8980", cfg.Backend.BaseURL)
	assert.Equal(t, 30, cfg.Backend.TimeoutSeconds)
	assert.Equal(t, "TRY", cfg.Defaults.Currency)
	assert.Equal(t, ":8980", cfg.Sandbox.Addr)
}

func TestLoadConfig_FileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "payment-console.yaml")
	data := []byte(`
backend:
  base_url: "https://pay.example.com"
  timeout_seconds: 10
log:
  level: "debug"
`)
	require.NoError(t, os.WriteFile(path, data, 0644))
	t.Setenv("CONFIG_PATH", path)

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "https://pay.example.com", cfg.Backend.BaseURL)
	assert.Equal(t, 10, cfg.Backend.TimeoutSeconds)
	assert.Equal(t, "debug", cfg.Log.Level)
	// untouched sections keep their defaults
	assert.Equal(t, "CRAFTGATE", cfg.Defaults.Provider)
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.yaml")
	require.NoError(t, os.WriteFile(path, []byte("backend: ["), 0644))
	t.Setenv("CONFIG_PATH", path)

	_, err := LoadConfig()
	assert.Error(t, err)
}
