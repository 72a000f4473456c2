package cmd

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/spf13/cobra"

	"github.com/bnema/walcache/internal/cli/styles"
	"github.com/bnema/walcache/internal/logging"
)

var (
	logsFollow   bool
	logsLines    int
	logsClearAll bool
)

const (
	defaultLogsLines  = 50
	defaultLogsMaxAge = 7
	followInterval    = 100 * time.Millisecond
)

var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "View application logs",
	Long: `Show the tail of the walcache log file.

File logging must be enabled with logging.enable_file_log.

Examples:
  walcache logs             # Last 50 lines
  walcache logs -n 200      # Last 200 lines
  walcache logs -f          # Follow new lines
  walcache logs list        # Active log and rotated backups`,
	Args: cobra.NoArgs,
	RunE: runLogs,
}

var logsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the active log file and its backups",
	Args:  cobra.NoArgs,
	RunE:  runLogsList,
}

var logsClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Clear old log files",
	Long: `Remove rotated log files older than logging.max_age days (default 7).
Use --all to remove every log file, the active one included.`,
	Args: cobra.NoArgs,
	RunE: runLogsClear,
}

func init() {
	rootCmd.AddCommand(logsCmd)
	logsCmd.AddCommand(logsListCmd, logsClearCmd)

	logsCmd.Flags().BoolVarP(&logsFollow, "follow", "f", false, "follow log output in real-time")
	logsCmd.Flags().IntVarP(&logsLines, "lines", "n", defaultLogsLines, "number of lines to show")
	logsClearCmd.Flags().BoolVar(&logsClearAll, "all", false, "remove all log files")
}

func runLogs(_ *cobra.Command, _ []string) (retErr error) {
	app := GetApp()
	if app == nil {
		return fmt.Errorf("app not initialized")
	}

	path := logging.LogFilePath(app.Config.Logging.LogDir)
	file, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		fmt.Println(app.Theme.Subtle.Render("No log file at " + path))
		return nil
	}
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil && retErr == nil {
			retErr = fmt.Errorf("close log file: %w", closeErr)
		}
	}()

	if err := printLastLines(os.Stdout, file, logsLines, app.Theme); err != nil {
		return err
	}
	if !logsFollow {
		return nil
	}

	fmt.Println(app.Theme.Subtle.Render("Following logs... (Ctrl+C to stop)"))
	return followLog(app.Ctx(), os.Stdout, file, app.Theme)
}

// printLastLines writes the last n lines of r, colorized.
func printLastLines(w io.Writer, r io.Reader, n int, theme *styles.Theme) error {
	lines := make([]string, 0, n)
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if n <= 0 {
			continue
		}
		if len(lines) == n {
			lines = lines[1:]
		}
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read log file: %w", err)
	}

	for _, line := range lines {
		if _, err := fmt.Fprintln(w, colorizeLogLine(line, theme)); err != nil {
			return err
		}
	}
	return nil
}

// followLog prints lines appended to r until ctx is done. Partial lines are
// held until their newline arrives.
func followLog(ctx context.Context, w io.Writer, r io.Reader, theme *styles.Theme) error {
	reader := bufio.NewReader(r)
	pending := ""
	for {
		chunk, err := reader.ReadString('\n')
		pending += chunk
		if err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("read log file: %w", err)
		}
		if err == nil {
			fmt.Fprintln(w, colorizeLogLine(strings.TrimSuffix(pending, "\n"), theme))
			pending = ""
			continue
		}

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(followInterval):
		}
	}
}

// logEntry is one zerolog JSON line.
type logEntry struct {
	Level     string `json:"level"`
	Time      string `json:"time"`
	Message   string `json:"message"`
	Component string `json:"component"`
	Error     string `json:"error"`
}

// colorizeLogLine adds color based on log level. Console-format lines are
// matched by their level marker.
func colorizeLogLine(line string, theme *styles.Theme) string {
	var entry logEntry
	if err := json.Unmarshal([]byte(line), &entry); err == nil && entry.Level != "" {
		return formatJSONLogLine(entry, theme)
	}

	switch {
	case containsAny(line, " ERR ", "ERROR"):
		return theme.ErrorStyle.Render(line)
	case containsAny(line, " WRN ", "WARN"):
		return theme.WarningStyle.Render(line)
	case containsAny(line, " DBG ", " TRC "):
		return theme.Subtle.Render(line)
	default:
		return line
	}
}

func formatJSONLogLine(entry logEntry, theme *styles.Theme) string {
	timeStr := entry.Time
	if t, err := time.Parse(time.RFC3339, entry.Time); err == nil {
		timeStr = t.Format("15:04:05")
	}

	var level string
	switch entry.Level {
	case "error", "fatal", "panic":
		level = theme.ErrorStyle.Render("ERR")
	case "warn":
		level = theme.WarningStyle.Render("WRN")
	case "info":
		level = theme.Highlight.Render("INF")
	case "debug":
		level = theme.Subtle.Render("DBG")
	case "trace":
		level = theme.Subtle.Render("TRC")
	default:
		level = entry.Level
	}

	var sb strings.Builder
	sb.WriteString(theme.Subtle.Render(timeStr))
	sb.WriteString(" ")
	sb.WriteString(level)
	if entry.Component != "" {
		sb.WriteString(" ")
		sb.WriteString(theme.Subtle.Render("[" + entry.Component + "]"))
	}
	sb.WriteString(" ")
	sb.WriteString(entry.Message)
	if entry.Error != "" {
		sb.WriteString(" ")
		sb.WriteString(theme.ErrorStyle.Render(entry.Error))
	}
	return sb.String()
}

func containsAny(s string, substrs ...string) bool {
	for _, substr := range substrs {
		if strings.Contains(s, substr) {
			return true
		}
	}
	return false
}

func runLogsList(_ *cobra.Command, _ []string) error {
	app := GetApp()
	if app == nil {
		return fmt.Errorf("app not initialized")
	}

	files, err := logging.ListLogFiles(app.Config.Logging.LogDir)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		fmt.Println(app.Theme.Subtle.Render("No log files in " + app.Config.Logging.LogDir))
		return nil
	}

	now := time.Now()
	rows := make([]table.Row, 0, len(files))
	for _, f := range files {
		state := ""
		if f.Active {
			state = "active"
		}
		rows = append(rows, table.Row{f.Name, styles.HumanBytes(f.Size), styles.RelativeTime(f.ModTime, now), state})
	}
	columns := []table.Column{
		{Title: "File", Width: 36},
		{Title: "Size", Width: 10},
		{Title: "Modified", Width: 14},
		{Title: "", Width: 8},
	}
	fmt.Println(styles.NewStyledTable(app.Theme, columns, rows).View())
	return nil
}

// staleLogs picks the files to remove. The active log is only removed with all.
func staleLogs(files []logging.LogFile, cutoff time.Time, all bool) []logging.LogFile {
	var stale []logging.LogFile
	for _, f := range files {
		if all || (!f.Active && f.ModTime.Before(cutoff)) {
			stale = append(stale, f)
		}
	}
	return stale
}

func runLogsClear(_ *cobra.Command, _ []string) error {
	app := GetApp()
	if app == nil {
		return fmt.Errorf("app not initialized")
	}

	files, err := logging.ListLogFiles(app.Config.Logging.LogDir)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		fmt.Println(app.Theme.Subtle.Render("No logs to clear"))
		return nil
	}

	maxAge := defaultLogsMaxAge
	if app.Config.Logging.MaxAge > 0 {
		maxAge = app.Config.Logging.MaxAge
	}
	cutoff := time.Now().AddDate(0, 0, -maxAge)

	removed := 0
	for _, f := range staleLogs(files, cutoff, logsClearAll) {
		if err := os.Remove(f.Path); err != nil {
			fmt.Printf("%s %s: %v\n", app.Theme.ErrorStyle.Render(styles.IconX), f.Name, err)
			continue
		}
		fmt.Printf("%s %s (%s)\n", app.Theme.SuccessStyle.Render(styles.IconCheck), f.Name, styles.HumanBytes(f.Size))
		removed++
	}

	if removed == 0 {
		fmt.Println(app.Theme.Subtle.Render(fmt.Sprintf("No log files older than %d days", maxAge)))
		return nil
	}
	fmt.Printf("\n%s\n", app.Theme.SuccessStyle.Render(fmt.Sprintf("Cleared %d log file(s)", removed)))
	return nil
}
