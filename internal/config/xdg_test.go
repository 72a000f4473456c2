package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetXDGDirs_FromEnvironment(t *testing.T) {
	root := t.TempDir()
	t.Setenv("WALCACHE_ENV", "")
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(root, "cfg"))
	t.Setenv("XDG_CACHE_HOME", filepath.Join(root, "cache"))
	t.Setenv("XDG_STATE_HOME", filepath.Join(root, "state"))

	dirs, err := GetXDGDirs()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "cfg", "walcache"), dirs.ConfigHome)
	assert.Equal(t, filepath.Join(root, "cache", "walcache"), dirs.CacheHome)
	assert.Equal(t, filepath.Join(root, "state", "walcache"), dirs.StateHome)

	logDir, err := GetLogDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "state", "walcache", "logs"), logDir)

	file, err := GetConfigFile()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "cfg", "walcache", "config.toml"), file)

	require.NoError(t, EnsureDirectories())
	assert.DirExists(t, dirs.ConfigHome)
	assert.DirExists(t, dirs.CacheHome)
	assert.DirExists(t, dirs.StateHome)
}

func TestGetXDGDirs_HomeFallback(t *testing.T) {
	home := t.TempDir()
	t.Setenv("WALCACHE_ENV", "")
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", "")
	t.Setenv("XDG_CACHE_HOME", "")
	t.Setenv("XDG_STATE_HOME", "")

	dirs, err := GetXDGDirs()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".config", "walcache"), dirs.ConfigHome)
	assert.Equal(t, filepath.Join(home, ".cache", "walcache"), dirs.CacheHome)
	assert.Equal(t, filepath.Join(home, ".local", "state", "walcache"), dirs.StateHome)
}

func TestGetXDGDirs_DevMode(t *testing.T) {
	t.Setenv("WALCACHE_ENV", "dev")
	cwd, err := os.Getwd()
	require.NoError(t, err)

	dir, err := GetCacheDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(cwd, ".dev", "walcache", "cache"), dir)
}

func TestDatabaseFile(t *testing.T) {
	assert.Equal(t, filepath.Join("/c", "index.sqlite"), DatabaseFile("/c"))
}

func TestGetManDir(t *testing.T) {
	root := t.TempDir()
	t.Setenv("XDG_DATA_HOME", root)

	dir, err := GetManDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "man", "man1"), dir)
}
