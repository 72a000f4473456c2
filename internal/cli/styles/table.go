package styles

import (
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
)

// NewStyledTable creates a themed, unfocused table sized to show every row.
func NewStyledTable(theme *Theme, columns []table.Column, rows []table.Row) table.Model {
	width := 0
	for _, c := range columns {
		width += c.Width + 2
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(false),
		table.WithHeight(len(rows)+1),
		table.WithWidth(width),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(theme.Border).
		BorderBottom(true).
		Foreground(theme.Accent).
		Bold(true)
	s.Cell = s.Cell.
		Foreground(theme.Text)
	// Static output has no cursor row.
	s.Selected = s.Cell

	t.SetStyles(s)
	return t
}

// BatchResultColumns returns columns for per-image batch results.
func BatchResultColumns() []table.Column {
	return []table.Column{
		{Title: "Image", Width: 40},
		{Title: "Backend", Width: 12},
		{Title: "Source", Width: 10},
		{Title: "Background", Width: 12},
	}
}

// ScoredImageColumns returns columns for ranked images.
func ScoredImageColumns() []table.Column {
	return []table.Column{
		{Title: "#", Width: 3},
		{Title: "Image", Width: 44},
		{Title: "Score", Width: 8},
	}
}

// BenchmarkColumns returns columns for backend benchmark reports.
func BenchmarkColumns() []table.Column {
	return []table.Column{
		{Title: "Backend", Width: 14},
		{Title: "Avg", Width: 10},
		{Title: "Min", Width: 10},
		{Title: "Max", Width: 10},
		{Title: "Success", Width: 8},
	}
}

// SnapshotColumns returns columns for recorded statistics snapshots.
func SnapshotColumns() []table.Column {
	return []table.Column{
		{Title: "When", Width: 12},
		{Title: "Entries", Width: 8},
		{Title: "Size", Width: 10},
		{Title: "Hits", Width: 8},
		{Title: "Misses", Width: 8},
		{Title: "Hit rate", Width: 9},
	}
}

// MostAccessedColumns returns columns for the access leaderboard.
func MostAccessedColumns() []table.Column {
	return []table.Column{
		{Title: "Key", Width: 66},
		{Title: "Hits", Width: 8},
	}
}
