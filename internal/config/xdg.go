// Package config provides XDG Base Directory specification compliance utilities.
package config

import (
	"os"
	"path/filepath"
)

const (
	appName      = "walcache"
	databaseName = "index.sqlite"
	dirPerm      = 0o755
)

// XDGDirs holds the XDG Base Directory paths for the application.
type XDGDirs struct {
	ConfigHome string
	CacheHome  string
	StateHome  string
}

// GetXDGDirs returns the XDG Base Directory paths for walcache:
// - $XDG_CONFIG_HOME/walcache (default: ~/.config/walcache)
// - $XDG_CACHE_HOME/walcache (default: ~/.cache/walcache)
// - $XDG_STATE_HOME/walcache (default: ~/.local/state/walcache)
func GetXDGDirs() (*XDGDirs, error) {
	// Development mode: use .dev directory in current working directory
	if os.Getenv("WALCACHE_ENV") == "dev" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, err
		}
		devDir := filepath.Join(cwd, ".dev", appName)
		return &XDGDirs{
			ConfigHome: devDir,
			CacheHome:  filepath.Join(devDir, "cache"),
			StateHome:  devDir,
		}, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}

	return &XDGDirs{
		ConfigHome: xdgDir("XDG_CONFIG_HOME", homeDir, ".config"),
		CacheHome:  xdgDir("XDG_CACHE_HOME", homeDir, ".cache"),
		StateHome:  xdgDir("XDG_STATE_HOME", homeDir, ".local", "state"),
	}, nil
}

func xdgDir(env, homeDir string, fallback ...string) string {
	base := os.Getenv(env)
	if base == "" {
		base = filepath.Join(append([]string{homeDir}, fallback...)...)
	}
	return filepath.Join(base, appName)
}

// GetConfigDir returns the XDG config directory for walcache.
func GetConfigDir() (string, error) {
	dirs, err := GetXDGDirs()
	if err != nil {
		return "", err
	}
	return dirs.ConfigHome, nil
}

// GetCacheDir returns the default artifact cache directory.
func GetCacheDir() (string, error) {
	dirs, err := GetXDGDirs()
	if err != nil {
		return "", err
	}
	return dirs.CacheHome, nil
}

// GetStateDir returns the XDG state directory for walcache.
func GetStateDir() (string, error) {
	dirs, err := GetXDGDirs()
	if err != nil {
		return "", err
	}
	return dirs.StateHome, nil
}

// GetLogDir returns the XDG-compliant log directory for walcache.
// Logs are stored in XDG_STATE_HOME as per specification.
func GetLogDir() (string, error) {
	stateDir, err := GetStateDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(stateDir, "logs"), nil
}

// GetConfigFile returns the path to the main configuration file.
func GetConfigFile() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.toml"), nil
}

// GetManDir returns the user man page directory for section 1
// ($XDG_DATA_HOME/man/man1, default ~/.local/share/man/man1).
func GetManDir() (string, error) {
	base := os.Getenv("XDG_DATA_HOME")
	if base == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(homeDir, ".local", "share")
	}
	return filepath.Join(base, "man", "man1"), nil
}

// DatabaseFile returns the cache index path inside a cache directory. The
// index lives next to the artifacts it describes.
func DatabaseFile(cacheDir string) string {
	return filepath.Join(cacheDir, databaseName)
}

// EnsureDirectories creates the XDG directories if they don't exist.
func EnsureDirectories() error {
	dirs, err := GetXDGDirs()
	if err != nil {
		return err
	}

	for _, dir := range []string{dirs.ConfigHome, dirs.CacheHome, dirs.StateHome} {
		if err := os.MkdirAll(dir, dirPerm); err != nil {
			return err
		}
	}
	return nil
}
