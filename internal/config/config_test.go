package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "./data", cfg.DBPath)
	assert.Equal(t, 5000, cfg.Port)
	assert.Equal(t, 5001, cfg.FallbackPort)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 5000, cfg.Port)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "port: 8080\nfallback_port: 8081\nlog_level: debug\ndb_path: /tmp/taskline\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, 8081, cfg.FallbackPort)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "/tmp/taskline", cfg.DBPath)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("port: 8080\n"), 0o644))

	t.Setenv("TASKLINE_PORT", "9090")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Port)
}

func TestLoadRejectsInvalidPort(t *testing.T) {
	t.Setenv("TASKLINE_PORT", "-1")

	_, err := Load("")
	assert.Error(t, err)
}
