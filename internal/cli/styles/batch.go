package styles

import (
	"cmp"
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"github.com/bnema/walcache/internal/domain/entity"
)

// BatchRenderer renders batch, ranking and benchmark results.
type BatchRenderer struct {
	theme *Theme
}

// NewBatchRenderer creates a new batch renderer with the given theme.
func NewBatchRenderer(theme *Theme) *BatchRenderer {
	return &BatchRenderer{theme: theme}
}

// RenderResults lists every requested image in order, marking the ones no
// backend could handle.
func (r *BatchRenderer) RenderResults(images []string, results map[string]entity.BatchResult) string {
	rows := make([]table.Row, 0, len(images))
	for _, img := range images {
		res, ok := results[img]
		if !ok || !res.Succeeded() {
			rows = append(rows, table.Row{filepath.Base(img), "-", "failed", "-"})
			continue
		}
		source := "computed"
		if res.FromCache {
			source = "cached"
		}
		rows = append(rows, table.Row{filepath.Base(img), res.Backend, source, res.Artifact.Special.Background})
	}
	return NewStyledTable(r.theme, BatchResultColumns(), rows).View()
}

// RenderStats renders the batch statistics block.
func (r *BatchRenderer) RenderStats(stats entity.BatchStats) string {
	keyStyle := r.theme.Subtle
	valStyle := r.theme.Highlight
	iconStyle := lipgloss.NewStyle().Foreground(r.theme.Accent)

	line := func(icon, key, val string) string {
		return fmt.Sprintf("  %s %s %s", iconStyle.Render(icon), keyStyle.Render(key), valStyle.Render(val))
	}

	lines := []string{
		line(IconImage, "Images", fmt.Sprintf("%d", stats.ImagesProcessed)),
		line(IconCache, "Cache hits", fmt.Sprintf("%d/%d (%s)", stats.CacheHits, stats.CacheHits+stats.CacheMisses, Percent(stats.CacheHitRate()))),
		line(IconClock, "Total", roundDuration(stats.TotalTime)),
		line(IconClock, "Per image", roundDuration(stats.AvgPerImage())),
	}

	rates := stats.BackendSuccessRates()
	names := make([]string, 0, len(stats.BackendAttempts))
	for name := range stats.BackendAttempts {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		lines = append(lines, line(IconGauge, name, fmt.Sprintf("%d/%d (%s)",
			stats.BackendSuccesses[name], stats.BackendAttempts[name], Percent(rates[name]))))
	}

	return "\n" + strings.Join(lines, "\n") + "\n"
}

// RenderBest renders the ranked images with their palettes.
func (r *BatchRenderer) RenderBest(best []entity.ScoredImage, evaluated int) string {
	if len(best) == 0 {
		return fmt.Sprintf("\n  %s %s\n", r.theme.WarningStyle.Render(IconWarning), r.theme.Subtle.Render("No image could be scored."))
	}

	rows := make([]table.Row, 0, len(best))
	for i, s := range best {
		rows = append(rows, table.Row{fmt.Sprintf("%d", i+1), filepath.Base(s.Image), fmt.Sprintf("%.3f", s.Score)})
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("\n  %s Best %d of %d evaluated\n\n",
		lipgloss.NewStyle().Foreground(r.theme.Accent).Render(IconStar), len(best), evaluated))
	sb.WriteString(NewStyledTable(r.theme, ScoredImageColumns(), rows).View())
	sb.WriteString("\n\n")
	for i, s := range best {
		sb.WriteString(fmt.Sprintf("  %2d %s\n", i+1, r.RenderPalette(s.Artifact)))
	}
	return sb.String()
}

// RenderPalette renders the 16 palette slots as swatches.
func (r *BatchRenderer) RenderPalette(a *entity.Artifact) string {
	if a == nil {
		return ""
	}
	var sb strings.Builder
	for _, c := range a.Colors {
		sb.WriteString(r.theme.Swatch(c))
	}
	return sb.String()
}

// RenderBenchmark renders one row per backend, fastest average first.
// Unavailable backends are listed after the measured ones.
func (r *BatchRenderer) RenderBenchmark(reports []entity.BackendBenchmark) string {
	measured := make([]entity.BackendBenchmark, 0, len(reports))
	var unavailable []string
	for _, rep := range reports {
		if !rep.Available {
			unavailable = append(unavailable, rep.Backend)
			continue
		}
		measured = append(measured, rep)
	}
	slices.SortStableFunc(measured, func(a, b entity.BackendBenchmark) int {
		return cmp.Compare(a.AvgTime, b.AvgTime)
	})

	rows := make([]table.Row, 0, len(measured))
	for _, rep := range measured {
		rows = append(rows, table.Row{
			rep.Backend,
			roundDuration(rep.AvgTime),
			roundDuration(rep.MinTime),
			roundDuration(rep.MaxTime),
			Percent(rep.SuccessRate),
		})
	}

	out := "\n" + NewStyledTable(r.theme, BenchmarkColumns(), rows).View() + "\n"
	if len(unavailable) > 0 {
		out += fmt.Sprintf("\n  %s %s %s\n",
			r.theme.WarningStyle.Render(IconWarning),
			r.theme.Subtle.Render("Unavailable:"),
			strings.Join(unavailable, ", "))
	}
	return out
}

// RenderError renders an error message.
func (r *BatchRenderer) RenderError(err error) string {
	return fmt.Sprintf("\n  %s %v\n", r.theme.ErrorStyle.Render(IconX), err)
}

func roundDuration(d time.Duration) string {
	switch {
	case d == 0:
		return "-"
	case d < time.Millisecond:
		return d.Round(time.Microsecond).String()
	default:
		return d.Round(time.Millisecond).String()
	}
}
