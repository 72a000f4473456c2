package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/bnema/walcache/internal/application/usecase"
	"github.com/bnema/walcache/internal/cli/styles"
	"github.com/bnema/walcache/internal/domain/entity"
)

var (
	benchmarkFlags      generationFlags
	benchmarkIterations int
)

var benchmarkCmd = &cobra.Command{
	Use:   "benchmark <image>",
	Short: "Time every backend against one image",
	Long: `Run each backend several times on the same image and report average,
minimum and maximum durations along with the success rate.

The artifact cache is neither read nor written.

Examples:
  walcache benchmark ~/wallpapers/forest.jpg
  walcache benchmark -i 10 -b wal ~/wallpapers/forest.jpg`,
	Args: cobra.ExactArgs(1),
	RunE: runBenchmark,
}

func init() {
	rootCmd.AddCommand(benchmarkCmd)
	benchmarkFlags.register(benchmarkCmd)
	benchmarkCmd.Flags().IntVarP(&benchmarkIterations, "iterations", "i", usecase.DefaultBenchmarkIterations, "runs per backend")
}

func runBenchmark(_ *cobra.Command, args []string) error {
	app := GetApp()
	if app == nil {
		return fmt.Errorf("app not initialized")
	}

	reports, err := runWithSpinner(app.Ctx(), app.Theme, benchmarkFlags.quiet, "Benchmarking backends...",
		func(ctx context.Context) ([]entity.BackendBenchmark, error) {
			// Only an explicit selection narrows the benchmark; the
			// configured batch order does not apply here.
			return app.BenchmarkBackendsUC().Execute(ctx, usecase.BenchmarkBackendsInput{
				Image:      args[0],
				Backends:   benchmarkFlags.backends,
				Iterations: benchmarkIterations,
				IsLight:    benchmarkFlags.light,
				Saturation: benchmarkFlags.saturation,
			})
		})
	if err != nil {
		return err
	}

	if benchmarkFlags.json {
		return writeJSON(benchmarkJSON(reports))
	}

	fmt.Println(styles.NewBatchRenderer(app.Theme).RenderBenchmark(reports))
	return nil
}

type benchmarkJSONRow struct {
	Backend      string  `json:"backend"`
	Available    bool    `json:"available"`
	SuccessCount int     `json:"success_count"`
	ErrorCount   int     `json:"error_count"`
	SuccessRate  float64 `json:"success_rate"`
	AvgTimeMS    float64 `json:"avg_time_ms"`
	MinTimeMS    float64 `json:"min_time_ms"`
	MaxTimeMS    float64 `json:"max_time_ms"`
}

func benchmarkJSON(reports []entity.BackendBenchmark) []benchmarkJSONRow {
	rows := make([]benchmarkJSONRow, 0, len(reports))
	for _, r := range reports {
		rows = append(rows, benchmarkJSONRow{
			Backend:      r.Backend,
			Available:    r.Available,
			SuccessCount: r.SuccessCount,
			ErrorCount:   r.ErrorCount,
			SuccessRate:  r.SuccessRate,
			AvgTimeMS:    milliseconds(r.AvgTime),
			MinTimeMS:    milliseconds(r.MinTime),
			MaxTimeMS:    milliseconds(r.MaxTime),
		})
	}
	return rows
}

func milliseconds(d time.Duration) float64 {
	return float64(d.Microseconds()) / 1000
}
