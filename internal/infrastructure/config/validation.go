package config

import (
	"fmt"
	"regexp"
	"strings"
)

const (
	maxWorkers     = 64
	minPaletteSize = 16
	maxPaletteSize = 256
)

var resizePattern = regexp.MustCompile(`^\d+(\.\d+)?%?$|^\d+x\d+[!<>^]?$`)

// validateConfig performs comprehensive validation of configuration values
func validateConfig(config *Config) error {
	var validationErrors []string

	validationErrors = append(validationErrors, validateCache(config)...)
	validationErrors = append(validationErrors, validateBatch(config)...)
	validationErrors = append(validationErrors, validateScoring(config)...)
	validationErrors = append(validationErrors, validateImageMagick(config)...)
	validationErrors = append(validationErrors, validateLogging(config)...)

	// If there are validation errors, return them
	if len(validationErrors) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(validationErrors, "\n  - "))
	}

	return nil
}

func validateCache(config *Config) []string {
	var validationErrors []string
	if config.Cache.MaxSizeMB < 0 {
		validationErrors = append(validationErrors, "cache.max_size_mb must be non-negative")
	}
	if config.Cache.MaxAgeDays < 0 {
		validationErrors = append(validationErrors, "cache.max_age_days must be non-negative")
	}
	if config.Cache.KeepMostAccessed < 0 {
		validationErrors = append(validationErrors, "cache.keep_most_accessed must be non-negative")
	}
	return validationErrors
}

func validateBatch(config *Config) []string {
	var validationErrors []string
	if config.Batch.Workers < 0 || config.Batch.Workers > maxWorkers {
		validationErrors = append(validationErrors, fmt.Sprintf("batch.workers must be between 0 and %d", maxWorkers))
	}
	if config.Batch.TaskTimeout.Std() <= 0 {
		validationErrors = append(validationErrors, "batch.task_timeout must be positive")
	}
	if config.Batch.SampleSize < 1 {
		validationErrors = append(validationErrors, "batch.sample_size must be at least 1")
	}
	return validationErrors
}

func validateScoring(config *Config) []string {
	var validationErrors []string
	weights := []struct {
		key   string
		value float64
	}{
		{"scoring.diversity_weight", config.Scoring.DiversityWeight},
		{"scoring.contrast_weight", config.Scoring.ContrastWeight},
		{"scoring.saturation_variance_weight", config.Scoring.SaturationVarianceWeight},
	}
	for _, w := range weights {
		if w.value < 0 || w.value > 1 {
			validationErrors = append(validationErrors, fmt.Sprintf("%s must be between 0 and 1 (got: %g)", w.key, w.value))
		}
	}
	return validationErrors
}

func validateImageMagick(config *Config) []string {
	var validationErrors []string
	im := config.Backends.ImageMagick
	if strings.TrimSpace(im.Binary) == "" {
		validationErrors = append(validationErrors, "backends.imagemagick.binary must not be empty")
	}
	if im.Colors < minPaletteSize || im.Colors > maxPaletteSize {
		validationErrors = append(validationErrors, fmt.Sprintf(
			"backends.imagemagick.colors must be between %d and %d", minPaletteSize, maxPaletteSize,
		))
	}
	if !resizePattern.MatchString(im.Resize) {
		validationErrors = append(validationErrors, fmt.Sprintf(
			"backends.imagemagick.resize must be a percentage or WxH geometry (got: %s)", im.Resize,
		))
	}
	return validationErrors
}

func validateLogging(config *Config) []string {
	var validationErrors []string
	if config.Logging.MaxAge < 0 {
		validationErrors = append(validationErrors, "logging.max_age must be non-negative")
	}
	switch config.Logging.Level {
	case "trace", "debug", "info", "warn", "error", "fatal", "":
	default:
		validationErrors = append(validationErrors, fmt.Sprintf(
			"logging.level must be one of: trace, debug, info, warn, error, fatal (got: %s)",
			config.Logging.Level,
		))
	}
	switch config.Logging.Format {
	case "text", "json", "console", "":
	default:
		validationErrors = append(validationErrors, fmt.Sprintf(
			"logging.format must be one of: text, json, console (got: %s)",
			config.Logging.Format,
		))
	}
	return validationErrors
}
