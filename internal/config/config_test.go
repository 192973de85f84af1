package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_FileAndEnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := `listen: 127.0.0.1:9000
due_source_url: http://localhost:5000
check_interval: 10m
presenters:
  - console
metrics: false
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0600))

	t.Setenv("REVIEWNAG_CHECK_TIMEOUT", "3s")
	t.Setenv("REVIEWNAG_PRESENTERS", "console,websocket")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:9000", cfg.Listen)
	assert.Equal(t, "http://localhost:5000", cfg.DueSourceURL)
	assert.Equal(t, 10*time.Minute, cfg.CheckInterval)
	assert.Equal(t, 3*time.Second, cfg.CheckTimeout)
	assert.Equal(t, []string{"console", "websocket"}, cfg.Presenters)
	assert.False(t, cfg.Metrics)
	assert.True(t, cfg.Has(PresenterConsole))
	assert.False(t, cfg.Has(PresenterTray))
}

func TestLoad_RejectsInvalid(t *testing.T) {
	dir := t.TempDir()

	tests := map[string]string{
		"unknown presenter": "presenters: [carrier-pigeon]\n",
		"zero interval":     "check_interval: 0s\n",
		"empty listen":      "listen: \"\"\n",
		"malformed yaml":    "listen: [unterminated\n",
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name+".yaml")
			require.NoError(t, os.WriteFile(path, []byte(body), 0600))
			_, err := Load(path)
			assert.Error(t, err)
		})
	}
}

func TestWriteDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	require.NoError(t, WriteDefault(path))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Default().Listen, cfg.Listen)
	assert.Equal(t, Default().CheckInterval, cfg.CheckInterval)

	// Existing files are left alone
	require.NoError(t, os.WriteFile(path, []byte("listen: 127.0.0.1:1\n"), 0600))
	require.NoError(t, WriteDefault(path))
	cfg, err = Load(path)
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:1", cfg.Listen)
}
