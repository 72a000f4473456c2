package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/bnema/walcache/internal/application/port"
	"github.com/bnema/walcache/internal/domain/entity"
	"github.com/bnema/walcache/internal/logging"
)

// DefaultBenchmarkIterations is the number of runs per backend.
const DefaultBenchmarkIterations = 3

// BenchmarkBackendsUseCase times backends against one image. It never reads
// or writes the artifact cache.
type BenchmarkBackendsUseCase struct {
	backends port.BackendRegistry
}

// NewBenchmarkBackendsUseCase creates a new BenchmarkBackendsUseCase.
func NewBenchmarkBackendsUseCase(backends port.BackendRegistry) *BenchmarkBackendsUseCase {
	return &BenchmarkBackendsUseCase{backends: backends}
}

// BenchmarkBackendsInput describes the benchmark.
type BenchmarkBackendsInput struct {
	Image string
	// Backends to measure. Empty means every registered backend.
	Backends   []string
	Iterations int
	IsLight    bool
	Saturation string
}

// Execute runs every available backend Iterations times.
func (uc *BenchmarkBackendsUseCase) Execute(ctx context.Context, input BenchmarkBackendsInput) ([]entity.BackendBenchmark, error) {
	ctx = logging.WithComponent(ctx, "benchmark")
	log := logging.FromContext(ctx)

	if input.Iterations <= 0 {
		return nil, fmt.Errorf("%w: iterations must be positive, got %d", entity.ErrInvalidCount, input.Iterations)
	}

	names := input.Backends
	if len(names) == 0 {
		names = uc.backends.Names()
	}

	reports := make([]entity.BackendBenchmark, 0, len(names))
	for _, name := range names {
		report := entity.BackendBenchmark{Backend: name}
		b, ok := uc.backends.Lookup(name)
		if !ok || !b.IsAvailable(ctx) {
			log.Info().Str("backend", name).Msg("backend unavailable, skipped")
			reports = append(reports, report)
			continue
		}
		report.Available = true

		for i := 0; i < input.Iterations; i++ {
			if err := ctx.Err(); err != nil {
				return reports, err
			}
			start := time.Now()
			_, err := b.Compute(ctx, input.Image, input.IsLight, input.Saturation)
			elapsed := time.Since(start)
			report.Times = append(report.Times, elapsed)
			if err != nil {
				report.ErrorCount++
				log.Debug().Err(err).Str("backend", name).Int("run", i+1).Msg("benchmark run failed")
				continue
			}
			report.SuccessCount++
		}
		summarize(&report)

		log.Debug().
			Str("backend", name).
			Dur("avg", report.AvgTime).
			Float64("success_rate", report.SuccessRate).
			Msg("backend benchmarked")
		reports = append(reports, report)
	}
	return reports, nil
}

func summarize(r *entity.BackendBenchmark) {
	if len(r.Times) == 0 {
		return
	}
	var total time.Duration
	r.MinTime, r.MaxTime = r.Times[0], r.Times[0]
	for _, d := range r.Times {
		total += d
		r.MinTime = min(r.MinTime, d)
		r.MaxTime = max(r.MaxTime, d)
	}
	r.AvgTime = total / time.Duration(len(r.Times))
	r.SuccessRate = float64(r.SuccessCount) / float64(len(r.Times))
}
