package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/bnema/walcache/internal/application/usecase"
	"github.com/bnema/walcache/internal/cli/styles"
	xdg "github.com/bnema/walcache/internal/config"
	"github.com/bnema/walcache/internal/infrastructure/config"
)

var (
	configYes     bool
	configSection string
	configJSON    bool
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long:  `View configuration status, list every setting and migrate to add new defaults.`,
}

var configStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show config file status and migration availability",
	Long:  `Display the config file path and check if any new settings are available.`,
	RunE:  runConfigStatus,
}

var configMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Add missing default settings to config file",
	Long: `Compares your config file with available defaults and adds any missing settings.

Existing settings are never modified - only missing keys are added with default values.`,
	RunE: runConfigMigrate,
}

var configKeysCmd = &cobra.Command{
	Use:   "keys",
	Short: "List every configuration key with its default",
	Long: `List configuration keys grouped by section.

Examples:
  walcache config keys
  walcache config keys --section cache
  walcache config keys --json`,
	RunE: runConfigKeys,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file path",
	Args:  cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		path, err := xdg.GetConfigFile()
		if err != nil {
			return err
		}
		fmt.Println(path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configStatusCmd, configMigrateCmd, configKeysCmd, configPathCmd)
	configMigrateCmd.Flags().BoolVarP(&configYes, "yes", "y", false, "skip confirmation prompt")
	configKeysCmd.Flags().StringVarP(&configSection, "section", "s", "", "only list keys of this section")
	configKeysCmd.Flags().BoolVar(&configJSON, "json", false, "print keys as JSON")
}

// migrateUseCase resolves the config file. ok is false when there is nothing
// to check yet.
func migrateUseCase(renderer *styles.ConfigRenderer) (uc *usecase.MigrateConfigUseCase, ok bool, err error) {
	configFile, err := xdg.GetConfigFile()
	if err != nil {
		return nil, false, err
	}

	if _, statErr := os.Stat(configFile); errors.Is(statErr, os.ErrNotExist) {
		fmt.Println(renderer.RenderNoConfigFile(configFile))
		return nil, false, nil
	}

	return usecase.NewMigrateConfigUseCase(config.NewMigrator(configFile)), true, nil
}

// runConfigStatus shows config file path and migration status.
func runConfigStatus(_ *cobra.Command, _ []string) error {
	app := GetApp()
	if app == nil {
		return fmt.Errorf("app not initialized")
	}

	renderer := styles.NewConfigRenderer(app.Theme)
	uc, ok, err := migrateUseCase(renderer)
	if err != nil || !ok {
		return err
	}

	result, err := uc.Check(app.Ctx(), usecase.CheckConfigMigrationInput{})
	if err != nil {
		fmt.Println(renderer.RenderError(err))
		return nil
	}

	if unknown := renderer.RenderUnknownKeys(result.UnknownKeys); unknown != "" {
		defer fmt.Print(unknown)
	}

	if !result.NeedsMigration {
		fmt.Println(renderer.RenderUpToDate(result.ConfigFile))
		return nil
	}

	fmt.Println(renderer.RenderConfigInfo(result.ConfigFile, len(result.MissingKeys)))
	fmt.Println(renderer.RenderMigrateHint())
	return nil
}

// runConfigMigrate runs the migration with optional confirmation.
func runConfigMigrate(_ *cobra.Command, _ []string) error {
	app := GetApp()
	if app == nil {
		return fmt.Errorf("app not initialized")
	}

	renderer := styles.NewConfigRenderer(app.Theme)
	uc, ok, err := migrateUseCase(renderer)
	if err != nil || !ok {
		return err
	}

	ctx := app.Ctx()
	result, err := uc.Check(ctx, usecase.CheckConfigMigrationInput{})
	if err != nil {
		fmt.Println(renderer.RenderError(err))
		return nil
	}

	if !result.NeedsMigration {
		fmt.Println(renderer.RenderUpToDate(result.ConfigFile))
		return nil
	}

	fmt.Println(renderer.RenderConfigInfo(result.ConfigFile, len(result.MissingKeys)))
	fmt.Println(renderer.RenderMissingKeys(result.MissingKeys))

	if configYes {
		return executeMigration(ctx, uc, renderer)
	}

	m := newMigrateModel(ctx, renderer, app.Theme, uc)
	if _, err := tea.NewProgram(m).Run(); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	return nil
}

// executeMigration performs the actual migration.
func executeMigration(ctx context.Context, uc *usecase.MigrateConfigUseCase, renderer *styles.ConfigRenderer) error {
	result, err := uc.Execute(ctx, usecase.MigrateConfigInput{})
	if err != nil {
		fmt.Println(renderer.RenderError(err))
		return nil
	}

	if len(result.AddedKeys) > 0 {
		fmt.Println(renderer.RenderMigrationSuccess(len(result.AddedKeys), result.ConfigFile))
	}
	return nil
}

func runConfigKeys(_ *cobra.Command, _ []string) error {
	app := GetApp()
	if app == nil {
		return fmt.Errorf("app not initialized")
	}

	uc := usecase.NewGetConfigSchemaUseCase(config.NewSchemaProvider())
	out, err := uc.Execute(app.Ctx(), usecase.GetConfigSchemaInput{Section: configSection})
	if err != nil {
		return err
	}
	if len(out.Keys) == 0 {
		return fmt.Errorf("no configuration keys in section %q", configSection)
	}

	renderer := styles.NewConfigSchemaRenderer(app.Theme)
	if configJSON {
		s, err := renderer.RenderJSON(out.Keys)
		if err != nil {
			return err
		}
		fmt.Println(s)
		return nil
	}

	fmt.Print(renderer.Render(out.Keys))
	return nil
}

type migrateState int

const (
	migrateStateConfirm migrateState = iota
	migrateStateRunning
	migrateStateDone
)

// migrateModel asks for confirmation, then applies the migration.
type migrateModel struct {
	ctx      context.Context
	spinner  spinner.Model
	renderer *styles.ConfigRenderer
	confirm  styles.ConfirmModel
	state    migrateState
	uc       *usecase.MigrateConfigUseCase

	result   string
	err      error
	quitting bool
}

type migrateResultMsg struct {
	output *usecase.MigrateConfigOutput
	err    error
}

func newMigrateModel(
	ctx context.Context,
	renderer *styles.ConfigRenderer,
	theme *styles.Theme,
	uc *usecase.MigrateConfigUseCase,
) migrateModel {
	return migrateModel{
		ctx:      ctx,
		spinner:  styles.NewDefaultSpinner(theme),
		renderer: renderer,
		confirm:  styles.NewConfirm(theme, "Add these settings with default values?"),
		state:    migrateStateConfirm,
		uc:       uc,
	}
}

func (m migrateModel) Init() tea.Cmd {
	return nil
}

func (m migrateModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.quitting = true
			return m, tea.Quit
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case migrateResultMsg:
		m.state = migrateStateDone
		if msg.err != nil {
			m.err = msg.err
			return m, tea.Quit
		}
		if len(msg.output.AddedKeys) > 0 {
			m.result = m.renderer.RenderMigrationSuccess(len(msg.output.AddedKeys), msg.output.ConfigFile)
		}
		return m, tea.Quit
	}

	if m.state != migrateStateConfirm {
		return m, nil
	}

	var cmd tea.Cmd
	m.confirm, cmd = m.confirm.Update(msg)
	if !m.confirm.Done() {
		return m, cmd
	}
	if !m.confirm.Result() {
		m.quitting = true
		return m, tea.Quit
	}

	m.state = migrateStateRunning
	return m, tea.Batch(m.spinner.Tick, m.runMigration())
}

func (m migrateModel) View() string {
	switch {
	case m.quitting:
		return ""
	case m.err != nil:
		return m.renderer.RenderError(m.err)
	case m.state == migrateStateDone:
		return m.result
	case m.state == migrateStateRunning:
		return "  " + m.spinner.View() + " Migrating...\n"
	default:
		return m.confirm.View()
	}
}

func (m migrateModel) runMigration() tea.Cmd {
	return func() tea.Msg {
		result, err := m.uc.Execute(m.ctx, usecase.MigrateConfigInput{})
		return migrateResultMsg{output: result, err: err}
	}
}
