package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg, v, err := Load(nil)
	require.NoError(t, err)
	require.NotNil(t, v)

	assert.Equal(t, DefaultBaseURL, cfg.API.BaseURL)
	assert.Equal(t, "/api/v1", cfg.API.BasePath)
	assert.Equal(t, 5*time.Second, cfg.API.Timeout)
	assert.Equal(t, filepath.Join(home, ".nebuloviz", "session.toml"), cfg.Session.Path)
	assert.Equal(t, SessionBackendFile, cfg.Session.Backend)
	assert.Equal(t, "nebuloviz/session", cfg.Session.PassEntry)
	assert.Equal(t, 5*time.Minute, cfg.Cache.Retention)
	assert.Equal(t, time.Duration(0), cfg.Cache.StaleTime)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Empty(t, cfg.Metrics.Addr)
}

func TestLoadReadsConfigFileAndEnvOverrides(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("NEBULOVIZ_API_TIMEOUT", "250ms")

	dir := filepath.Join(home, ".nebuloviz")
	require.NoError(t, os.MkdirAll(dir, 0o700))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(`
[api]
base_url = "http://sales.internal:9000/"

[log]
level = "debug"
format = "console"
`), 0o600))

	cfg, _, err := Load(nil)
	require.NoError(t, err)

	assert.Equal(t, "http://sales.internal:9000", cfg.API.BaseURL)
	assert.Equal(t, 250*time.Millisecond, cfg.API.Timeout)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("NEBULOVIZ_API_BASE_URL", "not a url")

	_, _, err := Load(nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "BaseURL (url)")
}

func TestValidateRejectsNonPositiveTimeout(t *testing.T) {
	cfg := Config{
		API:     APIConfig{BaseURL: DefaultBaseURL, BasePath: DefaultBasePath},
		Session: SessionConfig{Path: "/tmp/session.toml"},
		Log:     LogConfig{Level: "info", Format: "json"},
	}

	err := Validate(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Timeout (gt)")
}

func TestLoadRejectsUnknownSessionBackend(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("NEBULOVIZ_SESSION_BACKEND", "keychain")

	_, _, err := Load(nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Backend (oneof)")
}
