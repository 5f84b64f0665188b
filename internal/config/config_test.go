package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"ARCHIVIST_LABEL_TEMPLATE", "ARCHIVIST_REGISTRY_TEMPLATE", "ARCHIVIST_REDIS_ADDR"} {
		t.Setenv(k, "")
	}
}

func TestLoadConfigFrom_MissingFileUsesDefaults(t *testing.T) {
	clearEnv(t)

	cfg, info, err := LoadConfigFrom(filepath.Join(t.TempDir(), "config.toml"))
	require.NoError(t, err)
	assert.False(t, info.FileFound)
	assert.False(t, info.PortSpecified)
	assert.Equal(t, DefaultConfig(), cfg)
	assert.True(t, cfg.Import.Atomic)
	assert.Equal(t, 72*time.Hour, cfg.Audit.Retention())
}

func TestLoadConfigFrom_FileAndEnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[server]
port = 8088

[import]
atomic = false

[labels]
spine_format = "a4-9"

[redis]
addr = "localhost:6379"
lock_ttl_seconds = 60
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	t.Setenv("ARCHIVIST_LABEL_TEMPLATE", "/srv/etichete.xlsx")
	t.Setenv("ARCHIVIST_REGISTRY_TEMPLATE", "")
	t.Setenv("ARCHIVIST_REDIS_ADDR", "redis:6379")

	cfg, info, err := LoadConfigFrom(path)
	require.NoError(t, err)
	assert.True(t, info.FileFound)
	assert.True(t, info.PortSpecified)
	assert.Equal(t, 8088, cfg.Server.Port)
	assert.False(t, cfg.Import.Atomic)
	assert.Equal(t, int64(20), cfg.Import.MaxUploadMB)
	assert.Equal(t, "a4-9", cfg.Labels.SpineFormat)
	assert.Equal(t, "/srv/etichete.xlsx", cfg.Labels.TemplatePath)
	assert.Equal(t, "redis:6379", cfg.Redis.Addr)
	assert.Equal(t, time.Minute, cfg.Redis.LockTTL())
}

func TestLoadConfigFrom_InvalidToml(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[server\nport = "), 0644))

	_, _, err := LoadConfigFrom(path)
	assert.Error(t, err)
}

func TestSaveConfigRoundTrip(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.toml")
	cfg := DefaultConfig()
	cfg.Log.Level = "debug"
	require.NoError(t, SaveConfig(cfg, path))

	loaded, _, err := LoadConfigFrom(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestEnsureDataDir_Absolute(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Data.DataDir = filepath.Join(t.TempDir(), "nested", "data")

	dir, err := EnsureDataDir(cfg)
	require.NoError(t, err)
	assert.DirExists(t, dir)
}
