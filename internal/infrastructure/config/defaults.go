package config

import (
	"time"

	xdg "github.com/bnema/walcache/internal/config"
)

// Default configuration constants
const (
	// Cache defaults
	defaultMaxSizeMB        = 100
	defaultMaxAgeDays       = 30
	defaultKeepMostAccessed = 50

	// Batch defaults
	defaultTaskTimeout = 60 * time.Second
	defaultSampleSize  = 20

	// Scoring defaults
	defaultDiversityWeight          = 0.3
	defaultContrastWeight           = 0.4
	defaultSaturationVarianceWeight = 0.3

	// ImageMagick defaults
	defaultImageMagickBinary = "magick"
	defaultImageMagickColors = 16
	defaultImageMagickResize = "25%"

	// Logging defaults
	defaultMaxLogAgeDays = 7 // days
)

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Cache: CacheConfig{
			// Dir is resolved in Load()
			MaxSizeMB:        defaultMaxSizeMB,
			MaxAgeDays:       defaultMaxAgeDays,
			KeepMostAccessed: defaultKeepMostAccessed,
			Compress:         false,
		},
		Batch: BatchConfig{
			Workers:     0,
			TaskTimeout: Duration(defaultTaskTimeout),
			SampleSize:  defaultSampleSize,
			Backends:    []string{},
		},
		Scoring: ScoringConfig{
			DiversityWeight:          defaultDiversityWeight,
			ContrastWeight:           defaultContrastWeight,
			SaturationVarianceWeight: defaultSaturationVarianceWeight,
		},
		Backends: BackendsConfig{
			ImageMagick: ImageMagickConfig{
				Binary: defaultImageMagickBinary,
				Colors: defaultImageMagickColors,
				Resize: defaultImageMagickResize,
			},
		},
		Logging: LoggingConfig{
			Level:         "info",
			Format:        "console", // console or json
			LogDir:        getDefaultLogDir(),
			EnableFileLog: false,
			MaxAge:        defaultMaxLogAgeDays,
		},
	}
}

func getDefaultLogDir() string {
	dir, err := xdg.GetLogDir()
	if err != nil {
		return ""
	}
	return dir
}
