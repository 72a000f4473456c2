package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateConfig_Defaults(t *testing.T) {
	require.NoError(t, validateConfig(DefaultConfig()))
}

func TestValidateConfig_Fields(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantKey string
	}{
		{name: "negative age", mutate: func(c *Config) { c.Cache.MaxAgeDays = -1 }, wantKey: "cache.max_age_days"},
		{name: "negative keep", mutate: func(c *Config) { c.Cache.KeepMostAccessed = -5 }, wantKey: "cache.keep_most_accessed"},
		{name: "too many workers", mutate: func(c *Config) { c.Batch.Workers = 1000 }, wantKey: "batch.workers"},
		{name: "zero timeout", mutate: func(c *Config) { c.Batch.TaskTimeout = 0 }, wantKey: "batch.task_timeout"},
		{name: "zero sample", mutate: func(c *Config) { c.Batch.SampleSize = 0 }, wantKey: "batch.sample_size"},
		{name: "negative weight", mutate: func(c *Config) { c.Scoring.DiversityWeight = -0.1 }, wantKey: "scoring.diversity_weight"},
		{name: "empty binary", mutate: func(c *Config) { c.Backends.ImageMagick.Binary = " " }, wantKey: "backends.imagemagick.binary"},
		{name: "few colors", mutate: func(c *Config) { c.Backends.ImageMagick.Colors = 4 }, wantKey: "backends.imagemagick.colors"},
		{name: "bad resize", mutate: func(c *Config) { c.Backends.ImageMagick.Resize = "half" }, wantKey: "backends.imagemagick.resize"},
		{name: "bad level", mutate: func(c *Config) { c.Logging.Level = "verbose" }, wantKey: "logging.level"},
		{name: "bad format", mutate: func(c *Config) { c.Logging.Format = "xml" }, wantKey: "logging.format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)

			err := validateConfig(cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantKey)
		})
	}
}

func TestValidateConfig_ResizeForms(t *testing.T) {
	for _, resize := range []string{"25%", "12.5%", "800x600", "640x480!", "300"} {
		cfg := DefaultConfig()
		cfg.Backends.ImageMagick.Resize = resize
		assert.NoError(t, validateConfig(cfg), resize)
	}
}
