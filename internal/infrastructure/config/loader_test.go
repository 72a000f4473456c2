package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isolateXDG(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(root, "config"))
	t.Setenv("XDG_CACHE_HOME", filepath.Join(root, "cache"))
	t.Setenv("XDG_STATE_HOME", filepath.Join(root, "state"))
	return root
}

func TestSetDefaults(t *testing.T) {
	mgr := &Manager{viper: viper.New()}
	mgr.setDefaults()

	assert.Equal(t, int64(100), mgr.viper.GetInt64("cache.max_size_mb"))
	assert.Equal(t, 30, mgr.viper.GetInt("cache.max_age_days"))
	assert.Equal(t, 50, mgr.viper.GetInt("cache.keep_most_accessed"))
	assert.Equal(t, "1m0s", mgr.viper.GetString("batch.task_timeout"))
	assert.Equal(t, 20, mgr.viper.GetInt("batch.sample_size"))
	assert.InDelta(t, 0.4, mgr.viper.GetFloat64("scoring.contrast_weight"), 1e-9)
	assert.Equal(t, "magick", mgr.viper.GetString("backends.imagemagick.binary"))
}

func TestManagerLoad_CreatesDefaultFile(t *testing.T) {
	root := isolateXDG(t)
	configDir := filepath.Join(root, "config", "walcache")

	mgr, err := NewManagerAt(configDir)
	require.NoError(t, err)
	require.NoError(t, mgr.Load())

	assert.FileExists(t, filepath.Join(configDir, "config.toml"))
	cfg := mgr.Get()
	assert.Equal(t, filepath.Join(root, "cache", "walcache"), cfg.Cache.Dir)
	assert.Equal(t, 60*time.Second, cfg.Batch.TaskTimeout.Std())
	assert.Equal(t, DefaultConfig().Scoring, cfg.Scoring)
	assert.Equal(t, DefaultConfig().Backends, cfg.Backends)
	assert.Empty(t, cfg.Batch.Backends)

	// A second load reads the file it just wrote.
	again, err := NewManagerAt(configDir)
	require.NoError(t, err)
	require.NoError(t, again.Load())
	assert.Equal(t, cfg, again.Get())
}

func TestManagerLoad_FileValues(t *testing.T) {
	isolateXDG(t)
	configDir := t.TempDir()
	content := `
[cache]
  dir = "/tmp/walcache-test"
  max_size_mb = 42
  compress = true

[batch]
  workers = 2
  task_timeout = "2m30s"
  backends = ["wal", " colorz ", "wal", ""]

[logging]
  level = "DEBUG"
  format = "text"
`
	require.NoError(t, os.WriteFile(filepath.Join(configDir, "config.toml"), []byte(content), 0o600))

	mgr, err := NewManagerAt(configDir)
	require.NoError(t, err)
	require.NoError(t, mgr.Load())

	cfg := mgr.Get()
	assert.Equal(t, "/tmp/walcache-test", cfg.Cache.Dir)
	assert.Equal(t, int64(42), cfg.Cache.MaxSizeMB)
	assert.True(t, cfg.Cache.Compress)
	assert.Equal(t, 30, cfg.Cache.MaxAgeDays)
	assert.Equal(t, 2, cfg.Batch.Workers)
	assert.Equal(t, 150*time.Second, cfg.Batch.TaskTimeout.Std())
	assert.Equal(t, []string{"wal", "colorz"}, cfg.Batch.Backends)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Format)
}

func TestManagerLoad_EnvironmentOverrides(t *testing.T) {
	isolateXDG(t)
	t.Setenv("WALCACHE_BATCH_WORKERS", "3")
	t.Setenv("WALCACHE_LOG_LEVEL", "warn")
	t.Setenv("WALCACHE_CACHE_MAX_SIZE_MB", "7")

	mgr, err := NewManagerAt(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, mgr.Load())

	cfg := mgr.Get()
	assert.Equal(t, 3, cfg.Batch.Workers)
	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.Equal(t, int64(7), cfg.Cache.MaxSizeMB)
}

func TestManagerLoad_InvalidValues(t *testing.T) {
	isolateXDG(t)
	configDir := t.TempDir()
	content := `
[cache]
  max_size_mb = -1

[scoring]
  contrast_weight = 2.5
`
	require.NoError(t, os.WriteFile(filepath.Join(configDir, "config.toml"), []byte(content), 0o600))

	mgr, err := NewManagerAt(configDir)
	require.NoError(t, err)

	err = mgr.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cache.max_size_mb")
	assert.Contains(t, err.Error(), "scoring.contrast_weight")
}

func TestManagerLoad_MalformedFile(t *testing.T) {
	isolateXDG(t)
	configDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(configDir, "config.toml"), []byte("[cache\nmax_size_mb ="), 0o600))

	mgr, err := NewManagerAt(configDir)
	require.NoError(t, err)

	err = mgr.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "valid TOML")
}

func TestManagerGet_BeforeLoadReturnsDefaults(t *testing.T) {
	mgr, err := NewManagerAt(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().Cache.MaxSizeMB, mgr.Get().Cache.MaxSizeMB)
}

func TestNormalizeConfig_ExpandsHome(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	cfg := DefaultConfig()
	cfg.Cache.Dir = "~/wallpapers/.cache"
	normalizeConfig(cfg)

	assert.Equal(t, filepath.Join(home, "wallpapers", ".cache"), cfg.Cache.Dir)
}
