package config

import (
	"fmt"
	"time"
)

// Config represents the complete configuration for walcache.
type Config struct {
	// Cache controls where artifacts are stored and how the cache is bounded.
	Cache CacheConfig `mapstructure:"cache" yaml:"cache" toml:"cache"`
	// Batch tunes the worker pool and backend fallback order.
	Batch BatchConfig `mapstructure:"batch" yaml:"batch" toml:"batch"`
	// Scoring weights the palette quality components.
	Scoring ScoringConfig `mapstructure:"scoring" yaml:"scoring" toml:"scoring"`
	// Backends configures the color extraction backends.
	Backends BackendsConfig `mapstructure:"backends" yaml:"backends" toml:"backends"`
	Logging  LoggingConfig  `mapstructure:"logging" yaml:"logging" toml:"logging"`
}

// CacheConfig holds artifact cache configuration.
type CacheConfig struct {
	// Dir is the cache root. Empty means $XDG_CACHE_HOME/walcache.
	Dir              string `mapstructure:"dir" yaml:"dir" toml:"dir"`
	MaxSizeMB        int64  `mapstructure:"max_size_mb" yaml:"max_size_mb" toml:"max_size_mb"`
	MaxAgeDays       int    `mapstructure:"max_age_days" yaml:"max_age_days" toml:"max_age_days"`
	KeepMostAccessed int    `mapstructure:"keep_most_accessed" yaml:"keep_most_accessed" toml:"keep_most_accessed"`
	// Compress stores new artifacts gzip-compressed.
	Compress bool `mapstructure:"compress" yaml:"compress" toml:"compress"`
}

// BatchConfig holds batch processing configuration.
type BatchConfig struct {
	// Workers is the pool size. 0 means min(4, NumCPU+1).
	Workers     int      `mapstructure:"workers" yaml:"workers" toml:"workers"`
	TaskTimeout Duration `mapstructure:"task_timeout" yaml:"task_timeout" toml:"task_timeout"`
	// SampleSize caps how many images of a directory are ranked.
	SampleSize int `mapstructure:"sample_size" yaml:"sample_size" toml:"sample_size"`
	// Backends is the fallback order. Empty means the first three available.
	Backends []string `mapstructure:"backends" yaml:"backends" toml:"backends"`
}

// ScoringConfig holds the palette scorer weights.
type ScoringConfig struct {
	DiversityWeight          float64 `mapstructure:"diversity_weight" yaml:"diversity_weight" toml:"diversity_weight"`
	ContrastWeight           float64 `mapstructure:"contrast_weight" yaml:"contrast_weight" toml:"contrast_weight"`
	SaturationVarianceWeight float64 `mapstructure:"saturation_variance_weight" yaml:"saturation_variance_weight" toml:"saturation_variance_weight"`
}

// BackendsConfig holds per-backend settings.
type BackendsConfig struct {
	ImageMagick ImageMagickConfig `mapstructure:"imagemagick" yaml:"imagemagick" toml:"imagemagick"`
}

// ImageMagickConfig configures the ImageMagick backend.
type ImageMagickConfig struct {
	// Binary is the executable name or path. Falls back to "convert" when
	// "magick" is not installed.
	Binary string `mapstructure:"binary" yaml:"binary" toml:"binary"`
	Colors int    `mapstructure:"colors" yaml:"colors" toml:"colors"`
	Resize string `mapstructure:"resize" yaml:"resize" toml:"resize"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `mapstructure:"level" yaml:"level" toml:"level"`
	Format string `mapstructure:"format" yaml:"format" toml:"format"`

	// File output configuration
	LogDir        string `mapstructure:"log_dir" yaml:"log_dir" toml:"log_dir"`
	EnableFileLog bool   `mapstructure:"enable_file_log" yaml:"enable_file_log" toml:"enable_file_log"`
	MaxAge        int    `mapstructure:"max_age" yaml:"max_age" toml:"max_age"`
}

// Duration is a time.Duration written as "1m30s" in the config file.
type Duration time.Duration

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", text, err)
	}
	*d = Duration(v)
	return nil
}
