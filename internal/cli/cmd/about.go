package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bnema/walcache/internal/cli/styles"
)

var aboutCmd = &cobra.Command{
	Use:     "about",
	Aliases: []string{"version"},
	Short:   "Show version and build information",
	Long:    `Display version, build info, repository URL, and contributors.`,
	RunE:    runAbout,
}

func init() {
	rootCmd.AddCommand(aboutCmd)
}

func runAbout(_ *cobra.Command, _ []string) error {
	// about does not need the app; it only renders build info.
	fmt.Println(styles.NewAboutRenderer(styles.NewTheme()).Render(buildInfo))
	return nil
}
