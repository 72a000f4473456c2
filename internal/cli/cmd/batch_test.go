package cmd

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/walcache/internal/application/usecase"
	"github.com/bnema/walcache/internal/domain/entity"
)

func TestBenchmarkJSON_Milliseconds(t *testing.T) {
	rows := benchmarkJSON([]entity.BackendBenchmark{{
		Backend:      "wal",
		Available:    true,
		SuccessCount: 3,
		SuccessRate:  1,
		AvgTime:      1500 * time.Microsecond,
		MinTime:      time.Millisecond,
		MaxTime:      2 * time.Millisecond,
	}})

	require.Len(t, rows, 1)
	assert.Equal(t, "wal", rows[0].Backend)
	assert.InDelta(t, 1.5, rows[0].AvgTimeMS, 1e-9)
	assert.InDelta(t, 1.0, rows[0].MinTimeMS, 1e-9)
	assert.InDelta(t, 2.0, rows[0].MaxTimeMS, 1e-9)
}

func TestBestJSON_Ranks(t *testing.T) {
	out := usecase.FindBestImagesOutput{
		Best: []entity.ScoredImage{
			{Image: "a.png", Score: 0.9},
			{Image: "b.png", Score: 0.4},
		},
		Evaluated: 5,
		Stats:     entity.NewBatchStats(),
	}

	v := bestJSON(out)
	require.Len(t, v.Best, 2)
	assert.Equal(t, 1, v.Best[0].Rank)
	assert.Equal(t, "b.png", v.Best[1].Image)
	assert.Equal(t, 5, v.Evaluated)
}

func TestBatchJSON_KeepsInputOrder(t *testing.T) {
	out := usecase.ProcessBatchOutput{
		Results: map[string]entity.BatchResult{
			"b.png": {Image: "b.png"},
			"a.png": {Image: "a.png", Backend: "wal", Artifact: &entity.Artifact{Wallpaper: "a.png"}},
		},
		Stats: entity.NewBatchStats(),
	}

	report := batchJSON([]string{"a.png", "b.png", "c.png"}, out)

	require.Len(t, report.Results, 3)
	assert.Equal(t, "a.png", report.Results[0].Image)
	assert.False(t, report.Results[0].Failed)
	assert.Equal(t, "wal", report.Results[0].Backend)
	assert.True(t, report.Results[1].Failed)
	assert.True(t, report.Results[2].Failed)
}
