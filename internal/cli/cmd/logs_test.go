package cmd

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/walcache/internal/cli/styles"
	"github.com/bnema/walcache/internal/logging"
)

func TestColorizeLogLine_JSON(t *testing.T) {
	theme := styles.NewTheme()
	line := `{"level":"warn","time":"2026-03-01T10:20:30Z","component":"batch","message":"backend failed","error":"exit status 1"}`

	got := colorizeLogLine(line, theme)

	assert.Contains(t, got, "10:20:30")
	assert.Contains(t, got, "WRN")
	assert.Contains(t, got, "[batch]")
	assert.Contains(t, got, "backend failed")
	assert.Contains(t, got, "exit status 1")
}

func TestColorizeLogLine_PlainText(t *testing.T) {
	theme := styles.NewTheme()

	assert.Contains(t, colorizeLogLine("10:00:00 INF started", theme), "started")
	assert.Contains(t, colorizeLogLine("not json {", theme), "not json {")
}

func TestPrintLastLines(t *testing.T) {
	theme := styles.NewTheme()
	in := strings.NewReader("one\ntwo\nthree\nfour\n")

	var out bytes.Buffer
	require.NoError(t, printLastLines(&out, in, 2, theme))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "three")
	assert.Contains(t, lines[1], "four")
}

func TestPrintLastLines_ZeroPrintsNothing(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, printLastLines(&out, strings.NewReader("a\nb\n"), 0, styles.NewTheme()))
	assert.Empty(t, out.String())
}

func TestStaleLogs(t *testing.T) {
	now := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	cutoff := now.AddDate(0, 0, -7)
	files := []logging.LogFile{
		{Name: "walcache.log", ModTime: now.AddDate(0, 0, -30), Active: true},
		{Name: "walcache-1.log.gz", ModTime: now.AddDate(0, 0, -1)},
		{Name: "walcache-2.log.gz", ModTime: now.AddDate(0, 0, -10)},
	}

	t.Run("keeps active and recent", func(t *testing.T) {
		stale := staleLogs(files, cutoff, false)
		require.Len(t, stale, 1)
		assert.Equal(t, "walcache-2.log.gz", stale[0].Name)
	})

	t.Run("all removes everything", func(t *testing.T) {
		assert.Len(t, staleLogs(files, cutoff, true), 3)
	})
}
