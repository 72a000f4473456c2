package cmd

import (
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/bnema/walcache/internal/application/usecase"
	"github.com/bnema/walcache/internal/cli/styles"
	"github.com/bnema/walcache/internal/infrastructure/artifactstore"
	"github.com/bnema/walcache/internal/logging"
)

const defaultHistoryLimit = 10

var (
	cacheJSON bool

	cleanupMaxSize int64
	cleanupMaxAge  int
	cleanupKeep    int
	cleanupDedup   bool
	cleanupDryRun  bool

	clearYes     bool
	historyLimit int
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect and maintain the artifact cache",
}

var cacheInfoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show cache size, hit rate and most used entries",
	Args:  cobra.NoArgs,
	RunE:  runCacheInfo,
}

var cacheCleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Evict entries by age and size",
	Long: `Remove entries not accessed within --max-age days, then evict the least
recently used entries until the cache fits in --max-size MB. The --keep most
accessed entries are never evicted.

Defaults come from the [cache] section of the config file. With --dry-run
the plan is printed and the cache is left untouched.`,
	Args: cobra.NoArgs,
	RunE: runCacheCleanup,
}

var cacheDedupCmd = &cobra.Command{
	Use:   "dedup",
	Short: "Drop entries whose artifacts are identical",
	Args:  cobra.NoArgs,
	RunE:  runCacheDedup,
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every cached artifact",
	Args:  cobra.NoArgs,
	RunE:  runCacheClear,
}

var cacheExportCmd = &cobra.Command{
	Use:   "export <path>",
	Short: "Write a JSON report of the cache",
	Args:  cobra.ExactArgs(1),
	RunE:  runCacheExport,
}

var cacheHistoryCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded statistics snapshots",
	Args:  cobra.NoArgs,
	RunE:  runCacheHistory,
}

func init() {
	rootCmd.AddCommand(cacheCmd)
	cacheCmd.AddCommand(cacheInfoCmd, cacheCleanupCmd, cacheDedupCmd, cacheClearCmd, cacheExportCmd, cacheHistoryCmd)

	cacheInfoCmd.Flags().BoolVar(&cacheJSON, "json", false, "print the full report as JSON")

	f := cacheCleanupCmd.Flags()
	f.Int64Var(&cleanupMaxSize, "max-size", 0, "target size in MB (default from config)")
	f.IntVar(&cleanupMaxAge, "max-age", 0, "maximum age in days, 0 disables (default from config)")
	f.IntVar(&cleanupKeep, "keep", 0, "most accessed entries to protect (default from config)")
	f.BoolVar(&cleanupDedup, "dedup", false, "deduplicate after eviction")
	f.BoolVarP(&cleanupDryRun, "dry-run", "n", false, "show what would be evicted without removing anything")

	cacheClearCmd.Flags().BoolVarP(&clearYes, "yes", "y", false, "skip confirmation prompt")
	cacheHistoryCmd.Flags().IntVarP(&historyLimit, "limit", "n", defaultHistoryLimit, "number of snapshots to show")
}

func runCacheInfo(_ *cobra.Command, _ []string) error {
	app := GetApp()
	if app == nil {
		return fmt.Errorf("app not initialized")
	}
	renderer := styles.NewCacheRenderer(app.Theme)

	store, err := app.Store()
	if err != nil {
		logging.FromContext(app.Ctx()).Warn().Err(err).Msg("cache index unavailable, reporting empty statistics")
		stats := artifactstore.Passthrough{}.Analytics(app.Ctx())
		if cacheJSON {
			return writeJSON(artifactstore.NewReport(app.BuildInfo.Version, time.Now(), stats))
		}
		fmt.Fprint(os.Stderr, renderer.RenderUnavailable(err))
		fmt.Println(renderer.RenderInfo(app.Config.Cache.Dir, stats))
		return nil
	}

	if cacheJSON {
		return writeJSON(store.BuildReport(app.Ctx()))
	}

	fmt.Println(renderer.RenderInfo(store.Dir(), store.Analytics(app.Ctx())))
	return nil
}

func runCacheCleanup(cmd *cobra.Command, _ []string) error {
	app := GetApp()
	if app == nil {
		return fmt.Errorf("app not initialized")
	}
	uc, err := app.CleanupCacheUC()
	if err != nil {
		return err
	}

	input := usecase.CleanupCacheInput{
		MaxSizeMB:        app.Config.Cache.MaxSizeMB,
		MaxAgeDays:       app.Config.Cache.MaxAgeDays,
		KeepMostAccessed: app.Config.Cache.KeepMostAccessed,
		Deduplicate:      cleanupDedup,
		DryRun:           cleanupDryRun,
	}
	f := cmd.Flags()
	if f.Changed("max-size") {
		input.MaxSizeMB = cleanupMaxSize
	}
	if f.Changed("max-age") {
		input.MaxAgeDays = cleanupMaxAge
	}
	if f.Changed("keep") {
		input.KeepMostAccessed = cleanupKeep
	}

	out, err := uc.Execute(app.Ctx(), input)
	if err != nil {
		return err
	}
	fmt.Println(styles.NewCacheRenderer(app.Theme).RenderCleanup(out))
	return nil
}

func runCacheDedup(_ *cobra.Command, _ []string) error {
	app := GetApp()
	if app == nil {
		return fmt.Errorf("app not initialized")
	}
	store, err := app.Store()
	if err != nil {
		return err
	}

	removed, err := store.Deduplicate(app.Ctx())
	if err != nil {
		return err
	}
	fmt.Println(styles.NewCacheRenderer(app.Theme).RenderDeduplicated(removed))
	return nil
}

func runCacheClear(_ *cobra.Command, _ []string) error {
	app := GetApp()
	if app == nil {
		return fmt.Errorf("app not initialized")
	}
	store, err := app.Store()
	if err != nil {
		return err
	}

	if !clearYes {
		ok, err := confirm(app.Theme, fmt.Sprintf("Remove every artifact under %s?", store.Dir()))
		if err != nil || !ok {
			return err
		}
	}

	if err := store.Clear(app.Ctx()); err != nil {
		return err
	}
	fmt.Println(styles.NewCacheRenderer(app.Theme).RenderCleared(store.Dir()))
	return nil
}

func runCacheExport(_ *cobra.Command, args []string) error {
	app := GetApp()
	if app == nil {
		return fmt.Errorf("app not initialized")
	}
	store, err := app.Store()
	if err != nil {
		return err
	}

	if err := store.ExportInfo(app.Ctx(), args[0]); err != nil {
		return err
	}
	fmt.Println(styles.NewCacheRenderer(app.Theme).RenderExported(args[0]))
	return nil
}

func runCacheHistory(_ *cobra.Command, _ []string) error {
	app := GetApp()
	if app == nil {
		return fmt.Errorf("app not initialized")
	}
	store, err := app.Store()
	if err != nil {
		return err
	}

	snaps, err := store.Snapshots(app.Ctx(), historyLimit)
	if err != nil {
		return err
	}
	fmt.Println(styles.NewCacheRenderer(app.Theme).RenderSnapshots(snaps))
	return nil
}

// confirmModel adapts styles.ConfirmModel to tea.Model.
type confirmModel struct {
	styles.ConfirmModel
}

func (m confirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok && k.String() == "ctrl+c" {
		m.Canceled = true
		return m, tea.Quit
	}
	var cmd tea.Cmd
	m.ConfirmModel, cmd = m.ConfirmModel.Update(msg)
	if m.Done() {
		return m, tea.Quit
	}
	return m, cmd
}

func (m confirmModel) View() string {
	if m.Done() {
		return ""
	}
	return m.ConfirmModel.View()
}

// confirm asks a yes/no question and reports whether the user said yes.
func confirm(theme *styles.Theme, message string) (bool, error) {
	final, err := tea.NewProgram(confirmModel{styles.NewConfirm(theme, message)}).Run()
	if err != nil {
		return false, err
	}
	m, ok := final.(confirmModel)
	return ok && m.Result(), nil
}
