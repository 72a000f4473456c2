package usecase

import (
	"context"
	"fmt"
	"math/rand/v2"
	"slices"
	"sort"

	"github.com/bnema/walcache/internal/application/port"
	"github.com/bnema/walcache/internal/domain/entity"
	"github.com/bnema/walcache/internal/domain/service"
	"github.com/bnema/walcache/internal/logging"
)

// DefaultSampleSize caps how many images of a directory are evaluated.
const DefaultSampleSize = 20

// FindBestImagesUseCase ranks the images of a directory by palette quality.
type FindBestImagesUseCase struct {
	lister     port.ImageLister
	batch      *ProcessBatchUseCase
	scorer     *service.PaletteScorer
	sampleSize int
	perm       func(n int) []int
}

// NewFindBestImagesUseCase creates a new FindBestImagesUseCase. A sampleSize
// of 0 means DefaultSampleSize.
func NewFindBestImagesUseCase(
	lister port.ImageLister,
	batch *ProcessBatchUseCase,
	scorer *service.PaletteScorer,
	sampleSize int,
) *FindBestImagesUseCase {
	if sampleSize <= 0 {
		sampleSize = DefaultSampleSize
	}
	return &FindBestImagesUseCase{
		lister:     lister,
		batch:      batch,
		scorer:     scorer,
		sampleSize: sampleSize,
		perm:       rand.Perm,
	}
}

// WithPermutation replaces the random source used for sampling.
func (uc *FindBestImagesUseCase) WithPermutation(perm func(n int) []int) *FindBestImagesUseCase {
	uc.perm = perm
	return uc
}

// FindBestImagesInput describes the search.
type FindBestImagesInput struct {
	Directory  string
	Count      int
	Recursive  bool
	Backends   []string
	IsLight    bool
	Saturation string
}

// FindBestImagesOutput holds the ranking and the batch statistics.
type FindBestImagesOutput struct {
	// Best is sorted by score, highest first.
	Best      []entity.ScoredImage
	Evaluated int
	Stats     entity.BatchStats
}

// Execute lists the directory, samples it, computes every candidate's palette
// and returns the Count best scoring images. Equal scores keep candidate order.
func (uc *FindBestImagesUseCase) Execute(ctx context.Context, input FindBestImagesInput) (FindBestImagesOutput, error) {
	log := logging.FromContext(ctx)

	if input.Count <= 0 {
		return FindBestImagesOutput{}, fmt.Errorf("%w: count must be positive, got %d", entity.ErrInvalidCount, input.Count)
	}

	images, err := uc.lister.ListImages(ctx, input.Directory, input.Recursive)
	if err != nil {
		return FindBestImagesOutput{}, err
	}
	if len(images) == 0 {
		log.Info().Str("dir", input.Directory).Msg("no images found")
		return FindBestImagesOutput{Best: []entity.ScoredImage{}}, nil
	}

	candidates := uc.sample(images)
	batch := uc.batch.Execute(ctx, ProcessBatchInput{
		Images:     candidates,
		Backends:   input.Backends,
		IsLight:    input.IsLight,
		Saturation: input.Saturation,
	})

	scored := make([]entity.ScoredImage, 0, len(batch.Results))
	for _, image := range candidates {
		r, ok := batch.Results[image]
		if !ok {
			continue
		}
		scored = append(scored, entity.ScoredImage{
			Image:    image,
			Artifact: r.Artifact,
			Score:    uc.scorer.Score(r.Artifact),
		})
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
	if len(scored) > input.Count {
		scored = scored[:input.Count]
	}

	log.Debug().
		Int("listed", len(images)).
		Int("evaluated", len(candidates)).
		Int("returned", len(scored)).
		Msg("best images selected")

	return FindBestImagesOutput{Best: scored, Evaluated: len(candidates), Stats: batch.Stats}, nil
}

// sample picks sampleSize images uniformly, keeping their listing order.
func (uc *FindBestImagesUseCase) sample(images []string) []string {
	if len(images) <= uc.sampleSize {
		return images
	}
	picked := uc.perm(len(images))[:uc.sampleSize]
	slices.Sort(picked)

	out := make([]string, 0, uc.sampleSize)
	for _, idx := range picked {
		out = append(out, images[idx])
	}
	return out
}
