package entity

import "time"

// BatchTask is one image to process with its generation parameters.
type BatchTask struct {
	Image      string
	IsLight    bool
	Saturation string
}

// BatchResult is the outcome for one image. Artifact is nil when no
// backend succeeded.
type BatchResult struct {
	Image     string
	Artifact  *Artifact
	Backend   string
	FromCache bool
}

// Succeeded reports whether some backend produced an artifact.
func (r BatchResult) Succeeded() bool {
	return r.Artifact != nil
}

// BatchStats aggregates counters for one or more batch runs.
type BatchStats struct {
	ImagesProcessed  int64
	CacheHits        int64
	CacheMisses      int64
	BackendAttempts  map[string]int64
	BackendSuccesses map[string]int64
	TotalTime        time.Duration
}

// NewBatchStats returns zeroed stats with initialized maps.
func NewBatchStats() BatchStats {
	return BatchStats{
		BackendAttempts:  make(map[string]int64),
		BackendSuccesses: make(map[string]int64),
	}
}

// CacheHitRate returns hits / (hits + misses).
func (s BatchStats) CacheHitRate() float64 {
	total := s.CacheHits + s.CacheMisses
	if total == 0 {
		return 0
	}
	return float64(s.CacheHits) / float64(total)
}

// AvgPerImage returns the mean wall-clock time per processed image.
func (s BatchStats) AvgPerImage() time.Duration {
	if s.ImagesProcessed == 0 {
		return 0
	}
	return s.TotalTime / time.Duration(s.ImagesProcessed)
}

// BackendSuccessRates returns successes / attempts per backend.
func (s BatchStats) BackendSuccessRates() map[string]float64 {
	rates := make(map[string]float64, len(s.BackendAttempts))
	for name, attempts := range s.BackendAttempts {
		if attempts > 0 {
			rates[name] = float64(s.BackendSuccesses[name]) / float64(attempts)
		}
	}
	return rates
}

// ScoredImage is an image with its artifact and quality score.
type ScoredImage struct {
	Image    string
	Artifact *Artifact
	Score    float64
}

// BackendBenchmark is the timing report for one backend.
type BackendBenchmark struct {
	Backend      string
	Available    bool
	Times        []time.Duration
	SuccessCount int
	ErrorCount   int
	AvgTime      time.Duration
	MinTime      time.Duration
	MaxTime      time.Duration
	SuccessRate  float64
}
