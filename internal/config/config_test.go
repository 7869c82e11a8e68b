package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pastaa/internal/config"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := config.Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, config.Defaults(), cfg)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pastaad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("listen: \":9999\"\nlogLevel: debug\n"), 0o600))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":9999", cfg.Listen)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "./data", cfg.DataDir)
}

func TestLoad_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pastaad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("listen: [broken\n"), 0o600))

	_, err := config.Load(path)
	assert.Error(t, err)
}
