package usecase_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	portmocks "github.com/bnema/walcache/internal/application/port/mocks"
	"github.com/bnema/walcache/internal/application/usecase"
	"github.com/bnema/walcache/internal/domain/entity"
	"github.com/bnema/walcache/internal/domain/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// paletteBackend serves a fixed artifact per image.
func paletteBackend(t *testing.T, palettes map[string]*entity.Artifact) *portmocks.MockBackendRegistry {
	registry := portmocks.NewMockBackendRegistry(t)
	b := availableBackend(t)
	registry.EXPECT().Lookup("wal").Return(b, true)
	b.EXPECT().Compute(mock.Anything, mock.Anything, false, "").
		RunAndReturn(func(_ context.Context, image string, _ bool, _ string) (*entity.Artifact, error) {
			a, ok := palettes[image]
			if !ok {
				return nil, entity.ErrBackendFailed
			}
			return a, nil
		}).Maybe()
	return registry
}

func newFindBest(
	lister *portmocks.MockImageLister,
	registry *portmocks.MockBackendRegistry,
	sampleSize int,
) *usecase.FindBestImagesUseCase {
	batch := newBatch(newMemoryCache(), registry, usecase.BatchOptions{Workers: 2})
	scorer := service.NewPaletteScorer(service.DefaultScoringWeights())
	return usecase.NewFindBestImagesUseCase(lister, batch, scorer, sampleSize)
}

func TestFindBestImagesUseCase_Execute_HighContrastWins(t *testing.T) {
	ctx := testContext()
	lister := portmocks.NewMockImageLister(t)
	lister.EXPECT().ListImages(mock.Anything, "/walls", false).
		Return([]string{"/walls/x.png", "/walls/y.png", "/walls/z.png"}, nil)

	registry := paletteBackend(t, map[string]*entity.Artifact{
		"/walls/x.png": artifactWith("#000000", "#FFFFFF"),
		"/walls/y.png": artifactWith("#808080", "#888888"),
		"/walls/z.png": artifactWith("#808080", "#888888"),
	})

	out, err := newFindBest(lister, registry, 0).Execute(ctx, usecase.FindBestImagesInput{
		Directory: "/walls",
		Count:     1,
		Backends:  []string{"wal"},
	})

	require.NoError(t, err)
	require.Len(t, out.Best, 1)
	assert.Equal(t, "/walls/x.png", out.Best[0].Image)
	assert.Equal(t, 3, out.Evaluated)
}

func TestFindBestImagesUseCase_Execute_SortedWithStableTies(t *testing.T) {
	ctx := testContext()
	lister := portmocks.NewMockImageLister(t)
	images := []string{"a.png", "b.png", "c.png", "d.png"}
	lister.EXPECT().ListImages(mock.Anything, "dir", true).Return(images, nil)

	registry := paletteBackend(t, map[string]*entity.Artifact{
		"a.png": artifactWith("#808080", "#888888"),
		"b.png": artifactWith("#000000", "#FFFFFF"),
		"c.png": artifactWith("#808080", "#888888"),
		"d.png": artifactWith("#202020", "#d0d0d0"),
	})

	out, err := newFindBest(lister, registry, 0).Execute(ctx, usecase.FindBestImagesInput{
		Directory: "dir",
		Count:     10,
		Recursive: true,
		Backends:  []string{"wal"},
	})

	require.NoError(t, err)
	got := make([]string, 0, len(out.Best))
	for _, s := range out.Best {
		got = append(got, s.Image)
	}
	assert.Equal(t, []string{"b.png", "d.png", "a.png", "c.png"}, got)
	for i := 1; i < len(out.Best); i++ {
		assert.GreaterOrEqual(t, out.Best[i-1].Score, out.Best[i].Score)
	}
}

func TestFindBestImagesUseCase_Execute_SkipsFailedImages(t *testing.T) {
	ctx := testContext()
	lister := portmocks.NewMockImageLister(t)
	lister.EXPECT().ListImages(mock.Anything, "dir", false).Return([]string{"ok.png", "broken.png"}, nil)

	registry := paletteBackend(t, map[string]*entity.Artifact{
		"ok.png": artifactWith("#000000", "#FFFFFF"),
	})

	out, err := newFindBest(lister, registry, 0).Execute(ctx, usecase.FindBestImagesInput{
		Directory: "dir",
		Count:     5,
		Backends:  []string{"wal"},
	})

	require.NoError(t, err)
	require.Len(t, out.Best, 1)
	assert.Equal(t, "ok.png", out.Best[0].Image)
	assert.Equal(t, int64(1), out.Stats.ImagesProcessed)
}

func TestFindBestImagesUseCase_Execute_SamplesPreservingOrder(t *testing.T) {
	ctx := testContext()
	lister := portmocks.NewMockImageLister(t)
	images := make([]string, 0, 10)
	palettes := make(map[string]*entity.Artifact, 10)
	for i := range 10 {
		name := fmt.Sprintf("%02d.png", i)
		images = append(images, name)
		palettes[name] = artifactWith("#808080", "#888888")
	}
	lister.EXPECT().ListImages(mock.Anything, "dir", false).Return(images, nil)

	uc := newFindBest(lister, paletteBackend(t, palettes), 3).
		WithPermutation(func(n int) []int {
			require.Equal(t, 10, n)
			return []int{8, 1, 5, 0, 2, 3, 4, 6, 7, 9}
		})

	out, err := uc.Execute(ctx, usecase.FindBestImagesInput{Directory: "dir", Count: 10, Backends: []string{"wal"}})

	require.NoError(t, err)
	assert.Equal(t, 3, out.Evaluated)
	got := make([]string, 0, len(out.Best))
	for _, s := range out.Best {
		got = append(got, s.Image)
	}
	assert.Equal(t, []string{"01.png", "05.png", "08.png"}, got)
}

func TestFindBestImagesUseCase_Execute_InvalidCount(t *testing.T) {
	ctx := testContext()
	lister := portmocks.NewMockImageLister(t)
	registry := portmocks.NewMockBackendRegistry(t)

	for _, count := range []int{0, -3} {
		_, err := newFindBest(lister, registry, 0).Execute(ctx, usecase.FindBestImagesInput{Directory: "dir", Count: count})
		assert.ErrorIs(t, err, entity.ErrInvalidCount)
	}
}

func TestFindBestImagesUseCase_Execute_EmptyDirectory(t *testing.T) {
	ctx := testContext()
	lister := portmocks.NewMockImageLister(t)
	lister.EXPECT().ListImages(mock.Anything, "empty", false).Return(nil, nil)
	registry := portmocks.NewMockBackendRegistry(t)

	out, err := newFindBest(lister, registry, 0).Execute(ctx, usecase.FindBestImagesInput{Directory: "empty", Count: 1})

	require.NoError(t, err)
	assert.Empty(t, out.Best)
}

func TestFindBestImagesUseCase_Execute_ListingError(t *testing.T) {
	ctx := testContext()
	lister := portmocks.NewMockImageLister(t)
	listErr := errors.New("permission denied")
	lister.EXPECT().ListImages(mock.Anything, "locked", false).Return(nil, listErr)
	registry := portmocks.NewMockBackendRegistry(t)

	_, err := newFindBest(lister, registry, 0).Execute(ctx, usecase.FindBestImagesInput{Directory: "locked", Count: 1})

	assert.ErrorIs(t, err, listErr)
}

func TestProcessDirectoryUseCase_Execute(t *testing.T) {
	ctx := testContext()
	lister := portmocks.NewMockImageLister(t)
	lister.EXPECT().ListImages(mock.Anything, "dir", true).Return([]string{"a.png", "b.png"}, nil)
	registry := paletteBackend(t, map[string]*entity.Artifact{
		"a.png": artifactWith("#000000", "#FFFFFF"),
		"b.png": artifactWith("#111111", "#EEEEEE"),
	})
	batch := newBatch(newMemoryCache(), registry, usecase.BatchOptions{})

	out, err := usecase.NewProcessDirectoryUseCase(lister, batch).Execute(ctx, usecase.ProcessDirectoryInput{
		Directory: "dir",
		Recursive: true,
		Backends:  []string{"wal"},
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"a.png", "b.png"}, out.Images)
	assert.Len(t, out.Results, 2)
	assert.Equal(t, int64(2), out.Stats.ImagesProcessed)
}
