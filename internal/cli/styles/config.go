package styles

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/bnema/walcache/internal/application/port"
)

// ConfigRenderer renders config status messages with styled output.
type ConfigRenderer struct {
	theme *Theme
}

// NewConfigRenderer creates a new config renderer with the given theme.
func NewConfigRenderer(theme *Theme) *ConfigRenderer {
	return &ConfigRenderer{theme: theme}
}

// RenderConfigInfo renders the config file info with status.
func (r *ConfigRenderer) RenderConfigInfo(path string, missingCount int) string {
	iconStyle := lipgloss.NewStyle().Foreground(r.theme.Accent)
	pathStyle := r.theme.Subtle

	var status string
	if missingCount > 0 {
		countStyle := lipgloss.NewStyle().Foreground(r.theme.Warning)
		status = fmt.Sprintf("\n  %s %s new settings available",
			iconStyle.Render(IconInfo),
			countStyle.Render(fmt.Sprintf("%d", missingCount)),
		)
	}

	return fmt.Sprintf(
		"\n  %s Config %s%s\n",
		iconStyle.Render(IconConfig),
		pathStyle.Render(path),
		status,
	)
}

// RenderMissingKeys renders the list of missing keys with their types and default values.
func (r *ConfigRenderer) RenderMissingKeys(keys []port.KeyInfo) string {
	if len(keys) == 0 {
		return ""
	}

	iconStyle := lipgloss.NewStyle().Foreground(r.theme.Accent)
	keyStyle := r.theme.Highlight
	typeStyle := r.theme.Subtle
	valueStyle := lipgloss.NewStyle().Foreground(r.theme.Text)

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("\n  Missing settings (%d):\n", len(keys)))

	for _, key := range keys {
		sb.WriteString(fmt.Sprintf(
			"    %s %s\n      Type: %s | Default: %s\n",
			iconStyle.Render(IconCursor),
			keyStyle.Render(key.Key),
			typeStyle.Render(key.Type),
			valueStyle.Render(key.DefaultValue),
		))
	}

	return sb.String()
}

// RenderMigrationSuccess renders the success message after migration.
func (r *ConfigRenderer) RenderMigrationSuccess(count int, path string) string {
	iconStyle := lipgloss.NewStyle().Foreground(r.theme.Success)
	countStyle := r.theme.Highlight
	pathStyle := r.theme.Subtle

	filename := filepath.Base(path)

	return fmt.Sprintf(
		"\n  %s Added %s new settings to %s\n",
		iconStyle.Render(IconCheck),
		countStyle.Render(fmt.Sprintf("%d", count)),
		pathStyle.Render(filename),
	)
}

// RenderUpToDate renders the "config is up to date" message.
func (r *ConfigRenderer) RenderUpToDate(path string) string {
	iconStyle := lipgloss.NewStyle().Foreground(r.theme.Success)
	pathStyle := r.theme.Subtle

	return fmt.Sprintf(
		"\n  %s Config %s\n  %s Config is up to date\n",
		iconStyle.Render(IconConfig),
		pathStyle.Render(path),
		iconStyle.Render(IconCheck),
	)
}

// RenderError renders an error message.
func (r *ConfigRenderer) RenderError(err error) string {
	iconStyle := lipgloss.NewStyle().Foreground(r.theme.Error)

	return fmt.Sprintf(
		"\n  %s Config error: %v\n",
		iconStyle.Render(IconX),
		err,
	)
}

// RenderUnknownKeys lists keys present in the file that walcache ignores.
func (r *ConfigRenderer) RenderUnknownKeys(keys []string) string {
	if len(keys) == 0 {
		return ""
	}

	iconStyle := lipgloss.NewStyle().Foreground(r.theme.Warning)
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("\n  Ignored settings (%d):\n", len(keys)))
	for _, key := range keys {
		sb.WriteString(fmt.Sprintf("    %s %s\n", iconStyle.Render(IconWarning), r.theme.Subtle.Render(key)))
	}
	return sb.String()
}

// RenderMigrateHint renders a hint to run the migrate command.
func (r *ConfigRenderer) RenderMigrateHint() string {
	hintStyle := r.theme.Subtle

	return fmt.Sprintf(
		"\n  %s\n",
		hintStyle.Render("Run 'walcache config migrate' to add missing defaults."),
	)
}

// RenderNoConfigFile renders message when config file doesn't exist yet.
func (r *ConfigRenderer) RenderNoConfigFile(path string) string {
	iconStyle := lipgloss.NewStyle().Foreground(r.theme.Accent)
	pathStyle := r.theme.Subtle
	hintStyle := r.theme.Subtle

	return fmt.Sprintf(
		"\n  %s Config %s\n  %s\n",
		iconStyle.Render(IconConfig),
		pathStyle.Render(path),
		hintStyle.Render("Config file will be created on first run with all defaults."),
	)
}
