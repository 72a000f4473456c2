package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bnema/walcache/internal/application/usecase"
	"github.com/bnema/walcache/internal/cli/styles"
	"github.com/bnema/walcache/internal/domain/entity"
)

const defaultBestCount = 5

var (
	bestFlags     generationFlags
	bestCount     int
	bestRecursive bool
)

var bestCmd = &cobra.Command{
	Use:   "best <directory>",
	Short: "Rank the images of a directory by palette quality",
	Long: `Sample a directory, compute each candidate's palette and print the images
whose palettes score best on color diversity, contrast and saturation spread.

At most batch.sample_size images are evaluated; cached palettes make repeated
runs cheap.

Examples:
  walcache best ~/wallpapers
  walcache best -n 3 --recursive ~/wallpapers
  walcache best --light --json ~/wallpapers`,
	Args: cobra.ExactArgs(1),
	RunE: runBest,
}

func init() {
	rootCmd.AddCommand(bestCmd)
	bestFlags.register(bestCmd)
	bestCmd.Flags().IntVarP(&bestCount, "count", "n", defaultBestCount, "number of images to return")
	bestCmd.Flags().BoolVarP(&bestRecursive, "recursive", "r", false, "descend into subdirectories")
}

func runBest(_ *cobra.Command, args []string) error {
	app := GetApp()
	if app == nil {
		return fmt.Errorf("app not initialized")
	}

	out, err := runWithSpinner(app.Ctx(), app.Theme, bestFlags.quiet, "Scoring "+args[0]+"...",
		func(ctx context.Context) (usecase.FindBestImagesOutput, error) {
			return app.FindBestImagesUC().Execute(ctx, usecase.FindBestImagesInput{
				Directory:  args[0],
				Count:      bestCount,
				Recursive:  bestRecursive,
				Backends:   bestFlags.backendOrder(app),
				IsLight:    bestFlags.light,
				Saturation: bestFlags.saturation,
			})
		})
	if err != nil {
		return err
	}

	if bestFlags.json {
		return writeJSON(bestJSON(out))
	}

	fmt.Println(styles.NewBatchRenderer(app.Theme).RenderBest(out.Best, out.Evaluated))
	return nil
}

type scoredImageJSON struct {
	Rank   int              `json:"rank"`
	Image  string           `json:"image"`
	Score  float64          `json:"score"`
	Scheme *entity.Artifact `json:"scheme"`
}

type bestReportJSON struct {
	Best      []scoredImageJSON `json:"best"`
	Evaluated int               `json:"evaluated"`
	Stats     batchStatsJSON    `json:"stats"`
}

func bestJSON(out usecase.FindBestImagesOutput) bestReportJSON {
	best := make([]scoredImageJSON, 0, len(out.Best))
	for i, s := range out.Best {
		best = append(best, scoredImageJSON{Rank: i + 1, Image: s.Image, Score: s.Score, Scheme: s.Artifact})
	}
	return bestReportJSON{Best: best, Evaluated: out.Evaluated, Stats: newBatchStatsJSON(out.Stats)}
}
