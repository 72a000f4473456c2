package styles

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"github.com/bnema/walcache/internal/application/usecase"
	"github.com/bnema/walcache/internal/domain/entity"
)

// CacheRenderer renders artifact cache maintenance output.
type CacheRenderer struct {
	theme *Theme
	now   func() time.Time
}

// NewCacheRenderer creates a new cache renderer with the given theme.
func NewCacheRenderer(theme *Theme) *CacheRenderer {
	return &CacheRenderer{theme: theme, now: time.Now}
}

// RenderInfo renders the cache statistics.
func (r *CacheRenderer) RenderInfo(dir string, stats entity.CacheStats) string {
	iconStyle := lipgloss.NewStyle().Foreground(r.theme.Accent)
	keyStyle := r.theme.Subtle
	valStyle := r.theme.Highlight

	line := func(icon, key, val string) string {
		return fmt.Sprintf("  %s %s %s", iconStyle.Render(icon), keyStyle.Render(key), valStyle.Render(val))
	}

	lines := []string{
		line(IconFolder, "Directory", dir),
		line(IconDatabase, "Entries", fmt.Sprintf("%d", stats.TotalEntries)),
		line(IconCache, "Size", HumanBytes(stats.TotalSize)),
		line(IconGauge, "Hit rate", fmt.Sprintf("%s (%d hits, %d misses)", Percent(stats.HitRate()), stats.HitCount, stats.MissCount)),
		line(IconClock, "Avg access", roundDuration(stats.AvgAccessTime)),
		line(IconTrash, "Cleanups", fmt.Sprintf("%d", stats.CleanupCount)),
		line(IconCopy, "Compression saved", HumanBytes(stats.CompressionSaved)),
	}

	if len(stats.BackendUsage) > 0 {
		names := make([]string, 0, len(stats.BackendUsage))
		for name := range stats.BackendUsage {
			names = append(names, name)
		}
		slices.Sort(names)
		usage := make([]string, 0, len(names))
		for _, name := range names {
			usage = append(usage, fmt.Sprintf("%s %d", r.theme.MutedBadge(name), stats.BackendUsage[name]))
		}
		lines = append(lines, line(IconImage, "Backends", strings.Join(usage, "  ")))
	}

	out := "\n" + strings.Join(lines, "\n") + "\n"
	if len(stats.MostAccessed) > 0 {
		rows := make([]table.Row, 0, len(stats.MostAccessed))
		for _, kc := range stats.MostAccessed {
			rows = append(rows, table.Row{kc.Key, fmt.Sprintf("%d", kc.Count)})
		}
		out += "\n" + NewStyledTable(r.theme, MostAccessedColumns(), rows).View() + "\n"
	}
	return out
}

// RenderCleanup renders the outcome of a cleanup run.
func (r *CacheRenderer) RenderCleanup(out usecase.CleanupCacheOutput) string {
	if out.Skipped && out.Deduplicated == 0 {
		return fmt.Sprintf("\n  %s Cache is %s, under every limit. Nothing to evict.\n",
			r.theme.SuccessStyle.Render(IconCheck), r.theme.Highlight.Render(HumanBytes(out.SizeBefore)))
	}

	if out.DryRun {
		return fmt.Sprintf(
			"\n  %s Would remove %s entries, freeing %s\n    %s\n",
			r.theme.WarningStyle.Render(IconInfo),
			r.theme.Highlight.Render(fmt.Sprintf("%d", out.TotalRemoved())),
			r.theme.Highlight.Render(HumanBytes(out.BytesFreed)),
			r.theme.Subtle.Render(fmt.Sprintf("age %d, size %d", out.RemovedByAge, out.RemovedBySize)),
		)
	}

	iconStyle := lipgloss.NewStyle().Foreground(r.theme.Success)
	return fmt.Sprintf(
		"\n  %s Removed %s entries, freed %s\n    %s\n",
		iconStyle.Render(IconTrash),
		r.theme.Highlight.Render(fmt.Sprintf("%d", out.TotalRemoved())),
		r.theme.Highlight.Render(HumanBytes(out.BytesFreed)),
		r.theme.Subtle.Render(fmt.Sprintf("age %d, size %d, duplicates %d",
			out.RemovedByAge, out.RemovedBySize, out.Deduplicated)),
	)
}

// RenderDeduplicated renders the outcome of a deduplication pass.
func (r *CacheRenderer) RenderDeduplicated(removed int) string {
	if removed == 0 {
		return fmt.Sprintf("\n  %s No duplicate artifacts found.\n", r.theme.SuccessStyle.Render(IconCheck))
	}
	return fmt.Sprintf("\n  %s Removed %s duplicate artifacts.\n",
		r.theme.SuccessStyle.Render(IconCopy), r.theme.Highlight.Render(fmt.Sprintf("%d", removed)))
}

// RenderCleared renders the message after the cache was emptied.
func (r *CacheRenderer) RenderCleared(dir string) string {
	return fmt.Sprintf("\n  %s Cleared %s\n", r.theme.SuccessStyle.Render(IconTrash), r.theme.Subtle.Render(dir))
}

// RenderExported renders the message after a report was written.
func (r *CacheRenderer) RenderExported(path string) string {
	return fmt.Sprintf("\n  %s Report written to %s\n", r.theme.SuccessStyle.Render(IconCheck), r.theme.Highlight.Render(path))
}

// RenderSnapshots renders recorded statistics snapshots, newest first.
func (r *CacheRenderer) RenderSnapshots(snaps []*entity.StatsSnapshot) string {
	if len(snaps) == 0 {
		return fmt.Sprintf("\n  %s\n", r.theme.Subtle.Render("No statistics recorded yet."))
	}

	now := r.now()
	rows := make([]table.Row, 0, len(snaps))
	for _, s := range snaps {
		rate := 0.0
		if total := s.HitCount + s.MissCount; total > 0 {
			rate = float64(s.HitCount) / float64(total)
		}
		rows = append(rows, table.Row{
			RelativeTime(s.Timestamp, now),
			fmt.Sprintf("%d", s.TotalEntries),
			HumanBytes(s.TotalSize),
			fmt.Sprintf("%d", s.HitCount),
			fmt.Sprintf("%d", s.MissCount),
			Percent(rate),
		})
	}
	return "\n" + NewStyledTable(r.theme, SnapshotColumns(), rows).View() + "\n"
}

// RenderError renders an error message.
func (r *CacheRenderer) RenderError(err error) string {
	return fmt.Sprintf("\n  %s Cache error: %v\n", r.theme.ErrorStyle.Render(IconX), err)
}

// RenderUnavailable warns that statistics could not be read from the index.
func (r *CacheRenderer) RenderUnavailable(err error) string {
	return fmt.Sprintf("\n  %s Cache index unavailable, showing empty statistics: %v\n",
		r.theme.WarningStyle.Render(IconWarning), err)
}
