package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bnema/walcache/internal/application/usecase"
	"github.com/bnema/walcache/internal/cli"
	"github.com/bnema/walcache/internal/cli/model"
	"github.com/bnema/walcache/internal/cli/styles"
	"github.com/bnema/walcache/internal/domain/entity"
)

// generationFlags are shared by every command that computes palettes.
type generationFlags struct {
	backends   []string
	light      bool
	saturation string
	json       bool
	quiet      bool
}

func (f *generationFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringSliceVarP(&f.backends, "backend", "b", nil, "backends to try in order (default: batch.backends, then the first three available)")
	cmd.Flags().BoolVarP(&f.light, "light", "l", false, "generate light color schemes")
	cmd.Flags().StringVar(&f.saturation, "saturation", "", "saturation adjustment passed to the backend (0.0-1.0)")
	cmd.Flags().BoolVar(&f.json, "json", false, "output as JSON")
	cmd.Flags().BoolVarP(&f.quiet, "quiet", "q", false, "do not show a progress spinner")
}

// backendOrder prefers the flag, then the configured order.
func (f *generationFlags) backendOrder(app *cli.App) []string {
	if len(f.backends) > 0 {
		return f.backends
	}
	return app.DefaultBackends()
}

var (
	batchFlags     generationFlags
	batchDir       string
	batchRecursive bool
)

var batchCmd = &cobra.Command{
	Use:   "batch [image...]",
	Short: "Generate color schemes for many images",
	Long: `Compute a color scheme for every image, reading through the artifact cache.

Each image is handled by the first backend that succeeds. Cached artifacts are
returned without running the backend; new ones are stored for next time.

Examples:
  walcache batch ~/wallpapers/*.jpg
  walcache batch --dir ~/wallpapers --recursive
  walcache batch -b wal --light --json a.png b.png`,
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)
	batchFlags.register(batchCmd)
	batchCmd.Flags().StringVarP(&batchDir, "dir", "d", "", "process every image in this directory")
	batchCmd.Flags().BoolVarP(&batchRecursive, "recursive", "r", false, "descend into subdirectories (with --dir)")
}

func runBatch(_ *cobra.Command, args []string) error {
	app := GetApp()
	if app == nil {
		return fmt.Errorf("app not initialized")
	}
	if batchDir == "" && len(args) == 0 {
		return fmt.Errorf("no images given: pass image paths or --dir")
	}

	if batchDir != "" && len(args) > 0 {
		return fmt.Errorf("pass either image paths or --dir, not both")
	}

	ctx := app.Ctx()
	backends := batchFlags.backendOrder(app)
	var (
		images []string
		out    usecase.ProcessBatchOutput
	)
	if batchDir != "" {
		dirOut, err := runWithSpinner(ctx, app.Theme, batchFlags.quiet, "Processing "+batchDir+"...",
			func(ctx context.Context) (usecase.ProcessDirectoryOutput, error) {
				return app.ProcessDirectoryUC().Execute(ctx, usecase.ProcessDirectoryInput{
					Directory:  batchDir,
					Recursive:  batchRecursive,
					Backends:   backends,
					IsLight:    batchFlags.light,
					Saturation: batchFlags.saturation,
				})
			})
		if err != nil {
			return err
		}
		images, out = dirOut.Images, dirOut.ProcessBatchOutput
	} else {
		images = args
		var err error
		out, err = runWithSpinner(ctx, app.Theme, batchFlags.quiet, fmt.Sprintf("Processing %d images...", len(images)),
			func(ctx context.Context) (usecase.ProcessBatchOutput, error) {
				return app.ProcessBatchUC().Execute(ctx, usecase.ProcessBatchInput{
					Images:     images,
					Backends:   backends,
					IsLight:    batchFlags.light,
					Saturation: batchFlags.saturation,
				}), ctx.Err()
			})
		if err != nil {
			return err
		}
	}

	if batchFlags.json {
		return writeJSON(batchJSON(images, out))
	}

	renderer := styles.NewBatchRenderer(app.Theme)
	fmt.Println(renderer.RenderResults(images, out.Results))
	fmt.Println(renderer.RenderStats(out.Stats))
	return nil
}

type batchResultJSON struct {
	Image     string           `json:"image"`
	Backend   string           `json:"backend,omitempty"`
	FromCache bool             `json:"from_cache"`
	Failed    bool             `json:"failed,omitempty"`
	Scheme    *entity.Artifact `json:"scheme,omitempty"`
}

type batchStatsJSON struct {
	ImagesProcessed  int64            `json:"images_processed"`
	CacheHits        int64            `json:"cache_hits"`
	CacheMisses      int64            `json:"cache_misses"`
	CacheHitRate     float64          `json:"cache_hit_rate"`
	BackendAttempts  map[string]int64 `json:"backend_attempts"`
	BackendSuccesses map[string]int64 `json:"backend_successes"`
	TotalTimeMS      float64          `json:"total_time_ms"`
}

func newBatchStatsJSON(s entity.BatchStats) batchStatsJSON {
	return batchStatsJSON{
		ImagesProcessed:  s.ImagesProcessed,
		CacheHits:        s.CacheHits,
		CacheMisses:      s.CacheMisses,
		CacheHitRate:     s.CacheHitRate(),
		BackendAttempts:  s.BackendAttempts,
		BackendSuccesses: s.BackendSuccesses,
		TotalTimeMS:      milliseconds(s.TotalTime),
	}
}

type batchReportJSON struct {
	Results []batchResultJSON `json:"results"`
	Stats   batchStatsJSON    `json:"stats"`
}

// batchJSON lists results in input order. Images without an artifact are failed.
func batchJSON(images []string, out usecase.ProcessBatchOutput) batchReportJSON {
	results := make([]batchResultJSON, 0, len(images))
	for _, img := range images {
		res, ok := out.Results[img]
		if !ok || !res.Succeeded() {
			results = append(results, batchResultJSON{Image: img, Failed: true})
			continue
		}
		results = append(results, batchResultJSON{
			Image:     img,
			Backend:   res.Backend,
			FromCache: res.FromCache,
			Scheme:    res.Artifact,
		})
	}
	return batchReportJSON{Results: results, Stats: newBatchStatsJSON(out.Stats)}
}

// runWithSpinner runs job directly when quiet, otherwise behind a spinner.
func runWithSpinner[T any](ctx context.Context, theme *styles.Theme, quiet bool, message string, job func(context.Context) (T, error)) (T, error) {
	if quiet {
		return job(ctx)
	}
	return model.RunTask(ctx, theme, message, job)
}

func writeJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode JSON: %w", err)
	}
	return nil
}
