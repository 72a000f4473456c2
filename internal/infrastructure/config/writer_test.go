package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteConfigOrdered(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.toml")

	require.NoError(t, WriteConfigOrdered(DefaultConfig(), configPath))

	content, err := os.ReadFile(configPath)
	require.NoError(t, err)

	var sections []string
	for _, line := range strings.Split(string(content), "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			sections = append(sections, strings.Trim(line, "[]"))
		}
	}
	require.NotEmpty(t, sections)
	assert.IsNonDecreasing(t, sections)
	assert.Contains(t, string(content), "1m0s")

	var decoded map[string]any
	require.NoError(t, toml.Unmarshal(content, &decoded))
	assert.Contains(t, decoded, "cache")
	assert.Contains(t, decoded, "backends")
}

func TestWriteConfigOrdered_NilConfig(t *testing.T) {
	assert.Error(t, WriteConfigOrdered(nil, filepath.Join(t.TempDir(), "config.toml")))
}

func TestSortTOMLSections(t *testing.T) {
	in := "title = 'x'\n\n[zeta]\n  a = 1\n\n[alpha]\n  b = 2\n"
	want := "title = 'x'\n\n[alpha]\n  b = 2\n\n[zeta]\n  a = 1\n"
	assert.Equal(t, want, sortTOMLSections(in))
}
