// Package config loads walcache configuration with Viper.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	xdg "github.com/bnema/walcache/internal/config"
	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
)

// File permission constants
const (
	dirPerm = 0o755
)

const (
	configName = "config"
	configType = "toml"
	envPrefix  = "WALCACHE"
)

// Manager handles configuration loading.
type Manager struct {
	config    *Config
	viper     *viper.Viper
	configDir string
	mu        sync.RWMutex
}

// NewManager creates a configuration manager reading from the XDG config directory.
func NewManager() (*Manager, error) {
	configDir, err := xdg.GetConfigDir()
	if err != nil {
		return nil, fmt.Errorf("failed to determine config directory: %w\nCheck XDG_CONFIG_HOME environment variable or HOME directory", err)
	}
	return NewManagerAt(configDir)
}

// NewManagerAt creates a configuration manager reading config.toml from configDir.
func NewManagerAt(configDir string) (*Manager, error) {
	v := viper.New()

	v.SetConfigName(configName)
	v.SetConfigType(configType)
	v.AddConfigPath(configDir)

	// WALCACHE_CACHE_DIR, WALCACHE_BATCH_WORKERS, ...
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Short forms for the logging keys
	if err := v.BindEnv("logging.level", envPrefix+"_LOG_LEVEL", envPrefix+"_LOGGING_LEVEL"); err != nil {
		return nil, fmt.Errorf("failed to bind %s_LOG_LEVEL: %w", envPrefix, err)
	}
	if err := v.BindEnv("logging.format", envPrefix+"_LOG_FORMAT", envPrefix+"_LOGGING_FORMAT"); err != nil {
		return nil, fmt.Errorf("failed to bind %s_LOG_FORMAT: %w", envPrefix, err)
	}

	return &Manager{viper: v, configDir: configDir}, nil
}

// Load loads the configuration from file and environment variables. A
// missing config file is created with the defaults.
func (m *Manager) Load() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := os.MkdirAll(m.configDir, dirPerm); err != nil {
		return fmt.Errorf("failed to create config directory %s: %w", m.configDir, err)
	}

	m.setDefaults()

	if err := m.readConfigFile(); err != nil {
		return err
	}

	config, err := m.unmarshalConfig()
	if err != nil {
		return err
	}
	if err := ensureCacheDir(config); err != nil {
		return err
	}
	normalizeConfig(config)

	if err := validateConfig(config); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	m.config = config
	return nil
}

func (m *Manager) readConfigFile() error {
	err := m.viper.ReadInConfig()
	if err == nil {
		return nil
	}

	var configFileNotFoundError viper.ConfigFileNotFoundError
	if !errors.As(err, &configFileNotFoundError) {
		configFile := m.viper.ConfigFileUsed()
		if configFile == "" {
			configFile = m.configFilePath()
		}
		return fmt.Errorf("failed to read config file at %s: %w\nCheck the file format (must be valid TOML) and permissions", configFile, err)
	}

	if createErr := m.createDefaultConfig(); createErr != nil {
		return fmt.Errorf(
			"failed to create default config at %s: %w\nTry creating the directory manually or check permissions",
			m.configDir,
			createErr,
		)
	}
	if rereadErr := m.viper.ReadInConfig(); rereadErr != nil {
		return fmt.Errorf(
			"failed to read newly created config file: %w\nThe config file was created but couldn't be read. Please check the file format",
			rereadErr,
		)
	}
	return nil
}

func (m *Manager) unmarshalConfig() (*Config, error) {
	config := &Config{}
	hook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.TextUnmarshallerHookFunc(),
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	))
	if err := m.viper.Unmarshal(config, hook); err != nil {
		return nil, fmt.Errorf(
			"failed to parse config file at %s: %w\nCheck for syntax errors, invalid values, or type mismatches",
			m.viper.ConfigFileUsed(),
			err,
		)
	}
	return config, nil
}

func ensureCacheDir(config *Config) error {
	if config.Cache.Dir != "" {
		return nil
	}
	dir, err := xdg.GetCacheDir()
	if err != nil {
		return fmt.Errorf("failed to get cache directory: %w", err)
	}
	config.Cache.Dir = dir
	return nil
}

func normalizeConfig(config *Config) {
	config.Cache.Dir = expandHome(strings.TrimSpace(config.Cache.Dir))
	config.Logging.LogDir = expandHome(strings.TrimSpace(config.Logging.LogDir))

	switch strings.ToLower(strings.TrimSpace(config.Logging.Format)) {
	case "json":
		config.Logging.Format = "json"
	case "", "console", "text":
		config.Logging.Format = "console"
	}
	config.Logging.Level = strings.ToLower(strings.TrimSpace(config.Logging.Level))

	backends := make([]string, 0, len(config.Batch.Backends))
	seen := make(map[string]bool, len(config.Batch.Backends))
	for _, name := range config.Batch.Backends {
		name = strings.TrimSpace(name)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		backends = append(backends, name)
	}
	config.Batch.Backends = backends
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

// Get returns a copy of the current configuration (thread-safe). Before Load
// it returns the defaults.
func (m *Manager) Get() *Config {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.config == nil {
		return DefaultConfig()
	}
	configCopy := *m.config
	configCopy.Batch.Backends = append([]string(nil), m.config.Batch.Backends...)
	return &configCopy
}

// GetConfigFile returns the path to the configuration file being used.
func (m *Manager) GetConfigFile() string {
	if used := m.viper.ConfigFileUsed(); used != "" {
		return used
	}
	return m.configFilePath()
}

func (m *Manager) configFilePath() string {
	return filepath.Join(m.configDir, configName+"."+configType)
}

// createDefaultConfig writes the defaults to config.toml.
func (m *Manager) createDefaultConfig() error {
	configFile := m.configFilePath()
	if err := os.MkdirAll(filepath.Dir(configFile), dirPerm); err != nil {
		return err
	}
	if err := WriteConfigOrdered(DefaultConfig(), configFile); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "Created default configuration file: %s\n", configFile)
	return nil
}

// setDefaults sets default configuration values in Viper.
func (m *Manager) setDefaults() {
	defaults := DefaultConfig()

	// Note: Cache.Dir is set dynamically in Load(), no defaults needed

	m.setCacheDefaults(defaults)
	m.setBatchDefaults(defaults)
	m.setScoringDefaults(defaults)
	m.setBackendDefaults(defaults)
	m.setLoggingDefaults(defaults)
}

func (m *Manager) setCacheDefaults(defaults *Config) {
	m.viper.SetDefault("cache.dir", "")
	m.viper.SetDefault("cache.max_size_mb", defaults.Cache.MaxSizeMB)
	m.viper.SetDefault("cache.max_age_days", defaults.Cache.MaxAgeDays)
	m.viper.SetDefault("cache.keep_most_accessed", defaults.Cache.KeepMostAccessed)
	m.viper.SetDefault("cache.compress", defaults.Cache.Compress)
}

func (m *Manager) setBatchDefaults(defaults *Config) {
	m.viper.SetDefault("batch.workers", defaults.Batch.Workers)
	m.viper.SetDefault("batch.task_timeout", defaults.Batch.TaskTimeout.Std().String())
	m.viper.SetDefault("batch.sample_size", defaults.Batch.SampleSize)
	m.viper.SetDefault("batch.backends", defaults.Batch.Backends)
}

func (m *Manager) setScoringDefaults(defaults *Config) {
	m.viper.SetDefault("scoring.diversity_weight", defaults.Scoring.DiversityWeight)
	m.viper.SetDefault("scoring.contrast_weight", defaults.Scoring.ContrastWeight)
	m.viper.SetDefault("scoring.saturation_variance_weight", defaults.Scoring.SaturationVarianceWeight)
}

func (m *Manager) setBackendDefaults(defaults *Config) {
	m.viper.SetDefault("backends.imagemagick.binary", defaults.Backends.ImageMagick.Binary)
	m.viper.SetDefault("backends.imagemagick.colors", defaults.Backends.ImageMagick.Colors)
	m.viper.SetDefault("backends.imagemagick.resize", defaults.Backends.ImageMagick.Resize)
}

func (m *Manager) setLoggingDefaults(defaults *Config) {
	m.viper.SetDefault("logging.level", defaults.Logging.Level)
	m.viper.SetDefault("logging.format", defaults.Logging.Format)
	m.viper.SetDefault("logging.log_dir", defaults.Logging.LogDir)
	m.viper.SetDefault("logging.enable_file_log", defaults.Logging.EnableFileLog)
	m.viper.SetDefault("logging.max_age", defaults.Logging.MaxAge)
}
