package entity_test

import (
	"encoding/json"
	"testing"

	"github.com/bnema/walcache/internal/domain/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPalette_MarshalJSON_UsesColorKeys(t *testing.T) {
	var p entity.Palette
	p[0] = "#000000"
	p[15] = "#ffffff"

	data, err := json.Marshal(p)
	require.NoError(t, err)
	assert.JSONEq(t, `{"color0":"#000000","color15":"#ffffff"}`, string(data))
}

func TestPalette_UnmarshalJSON_PartialDocument(t *testing.T) {
	var a entity.Artifact
	err := json.Unmarshal([]byte(`{"colors":{"color0":"#000000"}}`), &a)
	require.NoError(t, err)

	assert.Equal(t, "#000000", a.Colors[0])
	assert.Equal(t, 1, a.Colors.Populated())
}

func TestPalette_UnmarshalJSON_RejectsUnknownKey(t *testing.T) {
	var p entity.Palette
	err := json.Unmarshal([]byte(`{"color16":"#000000"}`), &p)
	assert.Error(t, err)

	err = json.Unmarshal([]byte(`{"accent":"#000000"}`), &p)
	assert.Error(t, err)
}

func TestPalette_UnmarshalJSON_RejectsNonCanonicalIndex(t *testing.T) {
	for _, key := range []string{"color05", "color+5", "color-0", "color 5"} {
		var p entity.Palette
		err := json.Unmarshal([]byte(`{"`+key+`":"#000000"}`), &p)
		assert.Error(t, err, key)
	}
}

func TestArtifact_DocumentShape(t *testing.T) {
	a := entity.Artifact{
		Wallpaper: "/tmp/wall.png",
		Alpha:     "100",
		Special:   entity.SpecialColors{Background: "#101010", Foreground: "#f0f0f0", Cursor: "#f0f0f0"},
	}
	a.Colors[1] = "#aa0000"

	data, err := json.Marshal(a)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"wallpaper": "/tmp/wall.png",
		"alpha": "100",
		"special": {"background": "#101010", "foreground": "#f0f0f0", "cursor": "#f0f0f0"},
		"colors": {"color1": "#aa0000"}
	}`, string(data))
}

func TestCacheStats_HitRateAndClone(t *testing.T) {
	s := entity.CacheStats{HitCount: 3, MissCount: 1, BackendUsage: map[string]int64{"wal": 2}}
	assert.InDelta(t, 0.75, s.HitRate(), 1e-9)
	assert.Zero(t, entity.CacheStats{}.HitRate())

	c := s.Clone()
	c.BackendUsage["wal"] = 99
	assert.Equal(t, int64(2), s.BackendUsage["wal"])
}

func TestBatchStats_Derived(t *testing.T) {
	s := entity.NewBatchStats()
	s.ImagesProcessed = 4
	s.CacheHits = 1
	s.CacheMisses = 3
	s.TotalTime = 400
	s.BackendAttempts["wal"] = 4
	s.BackendSuccesses["wal"] = 3

	assert.InDelta(t, 0.25, s.CacheHitRate(), 1e-9)
	assert.EqualValues(t, 100, s.AvgPerImage())
	assert.InDelta(t, 0.75, s.BackendSuccessRates()["wal"], 1e-9)
}
