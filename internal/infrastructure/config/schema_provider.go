package config

import (
	"fmt"
	"strings"

	"github.com/bnema/walcache/internal/domain/entity"
)

// Section names for grouping config keys.
const (
	SectionCache    = "Cache"
	SectionBatch    = "Batch"
	SectionScoring  = "Scoring"
	SectionBackends = "Backends"
	SectionLogging  = "Logging"
)

// SchemaProvider lists every configuration key with its default.
type SchemaProvider struct{}

// NewSchemaProvider creates a new SchemaProvider.
func NewSchemaProvider() *SchemaProvider {
	return &SchemaProvider{}
}

// GetSchema returns all configuration keys with their metadata.
func (p *SchemaProvider) GetSchema() []entity.ConfigKeyInfo {
	defaults := DefaultConfig()

	keys := make([]entity.ConfigKeyInfo, 0, 24)
	keys = append(keys, p.getCacheKeys(defaults)...)
	keys = append(keys, p.getBatchKeys(defaults)...)
	keys = append(keys, p.getScoringKeys(defaults)...)
	keys = append(keys, p.getBackendKeys(defaults)...)
	keys = append(keys, p.getLoggingKeys(defaults)...)
	return keys
}

func (*SchemaProvider) getCacheKeys(defaults *Config) []entity.ConfigKeyInfo {
	return []entity.ConfigKeyInfo{
		{
			Key:         "cache.dir",
			Type:        "string",
			Default:     "$XDG_CACHE_HOME/walcache",
			Description: "Directory holding the artifact files and the cache index",
			Section:     SectionCache,
		},
		{
			Key:         "cache.max_size_mb",
			Type:        "int",
			Default:     fmt.Sprintf("%d", defaults.Cache.MaxSizeMB),
			Description: "Size the cache is shrunk to by cleanup",
			Range:       ">=0",
			Section:     SectionCache,
		},
		{
			Key:         "cache.max_age_days",
			Type:        "int",
			Default:     fmt.Sprintf("%d", defaults.Cache.MaxAgeDays),
			Description: "Entries not accessed for this many days are removed by cleanup (0 disables)",
			Range:       ">=0",
			Section:     SectionCache,
		},
		{
			Key:         "cache.keep_most_accessed",
			Type:        "int",
			Default:     fmt.Sprintf("%d", defaults.Cache.KeepMostAccessed),
			Description: "Number of most accessed entries cleanup never removes",
			Range:       ">=0",
			Section:     SectionCache,
		},
		{
			Key:         "cache.compress",
			Type:        "bool",
			Default:     fmt.Sprintf("%t", defaults.Cache.Compress),
			Description: "Store new artifacts gzip-compressed",
			Section:     SectionCache,
		},
	}
}

func (*SchemaProvider) getBatchKeys(defaults *Config) []entity.ConfigKeyInfo {
	return []entity.ConfigKeyInfo{
		{
			Key:         "batch.workers",
			Type:        "int",
			Default:     fmt.Sprintf("%d", defaults.Batch.Workers),
			Description: "Worker pool size (0 means min(4, CPUs+1))",
			Range:       fmt.Sprintf("0-%d", maxWorkers),
			Section:     SectionBatch,
		},
		{
			Key:         "batch.task_timeout",
			Type:        "duration",
			Default:     defaults.Batch.TaskTimeout.Std().String(),
			Description: "Time limit for a single backend call",
			Section:     SectionBatch,
		},
		{
			Key:         "batch.sample_size",
			Type:        "int",
			Default:     fmt.Sprintf("%d", defaults.Batch.SampleSize),
			Description: "Maximum number of images ranked by 'best'",
			Range:       ">=1",
			Section:     SectionBatch,
		},
		{
			Key:         "batch.backends",
			Type:        "[]string",
			Default:     "[" + strings.Join(defaults.Batch.Backends, ", ") + "]",
			Description: "Backend fallback order (empty uses the first three available)",
			Section:     SectionBatch,
		},
	}
}

func (*SchemaProvider) getScoringKeys(defaults *Config) []entity.ConfigKeyInfo {
	return []entity.ConfigKeyInfo{
		{
			Key:         "scoring.diversity_weight",
			Type:        "float64",
			Default:     fmt.Sprintf("%g", defaults.Scoring.DiversityWeight),
			Description: "Weight of the distinct palette color count",
			Range:       "0-1",
			Section:     SectionScoring,
		},
		{
			Key:         "scoring.contrast_weight",
			Type:        "float64",
			Default:     fmt.Sprintf("%g", defaults.Scoring.ContrastWeight),
			Description: "Weight of the background/foreground contrast ratio",
			Range:       "0-1",
			Section:     SectionScoring,
		},
		{
			Key:         "scoring.saturation_variance_weight",
			Type:        "float64",
			Default:     fmt.Sprintf("%g", defaults.Scoring.SaturationVarianceWeight),
			Description: "Weight of the saturation variance of the first 8 colors",
			Range:       "0-1",
			Section:     SectionScoring,
		},
	}
}

func (*SchemaProvider) getBackendKeys(defaults *Config) []entity.ConfigKeyInfo {
	return []entity.ConfigKeyInfo{
		{
			Key:         "backends.imagemagick.binary",
			Type:        "string",
			Default:     defaults.Backends.ImageMagick.Binary,
			Description: "ImageMagick executable (falls back to convert)",
			Section:     SectionBackends,
		},
		{
			Key:         "backends.imagemagick.colors",
			Type:        "int",
			Default:     fmt.Sprintf("%d", defaults.Backends.ImageMagick.Colors),
			Description: "Initial number of colors quantized from the image",
			Range:       fmt.Sprintf("%d-%d", minPaletteSize, maxPaletteSize),
			Section:     SectionBackends,
		},
		{
			Key:         "backends.imagemagick.resize",
			Type:        "string",
			Default:     defaults.Backends.ImageMagick.Resize,
			Description: "Resize geometry applied before quantization",
			Section:     SectionBackends,
		},
	}
}

func (*SchemaProvider) getLoggingKeys(defaults *Config) []entity.ConfigKeyInfo {
	return []entity.ConfigKeyInfo{
		{
			Key:         "logging.level",
			Type:        "string",
			Default:     defaults.Logging.Level,
			Description: "Log verbosity level",
			Values:      []string{"trace", "debug", "info", "warn", "error", "fatal"},
			Section:     SectionLogging,
		},
		{
			Key:         "logging.format",
			Type:        "string",
			Default:     defaults.Logging.Format,
			Description: "Log output format",
			Values:      []string{"text", "json", "console"},
			Section:     SectionLogging,
		},
		{
			Key:         "logging.log_dir",
			Type:        "string",
			Default:     "$XDG_STATE_HOME/walcache/logs",
			Description: "Directory for log files",
			Section:     SectionLogging,
		},
		{
			Key:         "logging.enable_file_log",
			Type:        "bool",
			Default:     fmt.Sprintf("%t", defaults.Logging.EnableFileLog),
			Description: "Also write logs to a rotated file",
			Section:     SectionLogging,
		},
		{
			Key:         "logging.max_age",
			Type:        "int",
			Default:     fmt.Sprintf("%d", defaults.Logging.MaxAge),
			Description: "Maximum age of log files in days",
			Range:       ">=0",
			Section:     SectionLogging,
		},
	}
}
