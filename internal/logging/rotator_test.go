package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func listLogs(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func TestLogRotator_RotatesAndCompresses(t *testing.T) {
	dir := t.TempDir()
	r, err := NewLogRotator(dir, 1, 10, 0, true)
	require.NoError(t, err)
	t.Cleanup(func() { _ = r.Close() })

	tick := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	r.now = func() time.Time {
		tick = tick.Add(time.Second)
		return tick
	}

	chunk := bytes.Repeat([]byte("x"), 600*1024)
	for range 3 {
		_, err := r.Write(chunk)
		require.NoError(t, err)
	}

	names := listLogs(t, dir)
	assert.Contains(t, names, "walcache.log")
	gz := 0
	for _, n := range names {
		if strings.HasSuffix(n, ".gz") {
			gz++
		}
	}
	assert.Equal(t, 2, gz)

	info, err := os.Stat(r.Path())
	require.NoError(t, err)
	assert.Equal(t, int64(len(chunk)), info.Size())
}

func TestLogRotator_KeepsMaxBackups(t *testing.T) {
	dir := t.TempDir()
	r, err := NewLogRotator(dir, 1, 2, 0, false)
	require.NoError(t, err)
	t.Cleanup(func() { _ = r.Close() })

	tick := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	r.now = func() time.Time {
		tick = tick.Add(time.Second)
		return tick
	}

	chunk := bytes.Repeat([]byte("y"), 700*1024)
	for range 6 {
		_, err := r.Write(chunk)
		require.NoError(t, err)
	}

	backups := 0
	for _, n := range listLogs(t, dir) {
		if strings.HasPrefix(n, "walcache.log.") {
			backups++
		}
	}
	assert.Equal(t, 2, backups)
}

func TestNewWithFile_WritesJSONLines(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	var console bytes.Buffer

	logger, closer, err := NewWithFile(Config{Level: zerolog.InfoLevel, Format: "console", Output: &console}, dir, 7)
	require.NoError(t, err)

	logger.Info().Str("component", "batch").Msg("processed")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(filepath.Join(dir, "walcache.log"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"component":"batch"`)
	assert.Contains(t, console.String(), "processed")
}

func TestListLogFiles(t *testing.T) {
	dir := t.TempDir()

	files, err := ListLogFiles(filepath.Join(dir, "missing"))
	require.NoError(t, err)
	assert.Empty(t, files)

	old := time.Now().Add(-time.Hour)
	backup := filepath.Join(dir, "walcache.log.2024-01-01-00-00-00.000.gz")
	require.NoError(t, os.WriteFile(backup, []byte("x"), 0o600))
	require.NoError(t, os.Chtimes(backup, old, old))
	require.NoError(t, os.WriteFile(LogFilePath(dir), []byte("line\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.txt"), []byte("x"), 0o600))

	files, err = ListLogFiles(dir)
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.True(t, files[0].Active)
	assert.Equal(t, "walcache.log", files[0].Name)
	assert.False(t, files[1].Active)
	assert.Equal(t, backup, files[1].Path)
}
