package usecase

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/bnema/walcache/internal/application/port"
	"github.com/bnema/walcache/internal/domain/entity"
	"github.com/bnema/walcache/internal/logging"
	"golang.org/x/sync/errgroup"
)

const (
	// DefaultTaskTimeout bounds a single backend call.
	DefaultTaskTimeout = 60 * time.Second
	// defaultBackendCount is how many available backends are tried when the
	// caller names none.
	defaultBackendCount = 3
)

var errNilArtifact = fmt.Errorf("%w: backend returned no artifact", entity.ErrBackendFailed)

// DefaultWorkers returns min(4, NumCPU+1).
func DefaultWorkers() int {
	return min(4, runtime.NumCPU()+1)
}

// BatchOptions tunes the worker pool.
type BatchOptions struct {
	// Workers is the pool size; 0 means DefaultWorkers.
	Workers int
	// TaskTimeout bounds each backend call; 0 means DefaultTaskTimeout.
	TaskTimeout time.Duration
	// Compress stores new artifacts gzip-compressed.
	Compress bool
}

// ProcessBatchUseCase computes color scheme artifacts for many images,
// reading through the artifact cache and falling back across backends.
type ProcessBatchUseCase struct {
	cache    port.ArtifactCache
	keys     port.Fingerprinter
	backends port.BackendRegistry
	opts     BatchOptions
}

// NewProcessBatchUseCase creates a new ProcessBatchUseCase.
func NewProcessBatchUseCase(
	cache port.ArtifactCache,
	keys port.Fingerprinter,
	backends port.BackendRegistry,
	opts BatchOptions,
) *ProcessBatchUseCase {
	if opts.Workers <= 0 {
		opts.Workers = DefaultWorkers()
	}
	if opts.TaskTimeout <= 0 {
		opts.TaskTimeout = DefaultTaskTimeout
	}
	return &ProcessBatchUseCase{cache: cache, keys: keys, backends: backends, opts: opts}
}

// ProcessBatchInput describes one batch.
type ProcessBatchInput struct {
	Images []string
	// Backends are tried in order. Empty means the first three available.
	Backends   []string
	IsLight    bool
	Saturation string
}

// ProcessBatchOutput holds the artifacts keyed by image. Images no backend
// could handle are absent. Iteration order carries no meaning.
type ProcessBatchOutput struct {
	Results map[string]entity.BatchResult
	Stats   entity.BatchStats
}

// resolvedBackend is a backend name with its availability checked once per batch.
type resolvedBackend struct {
	name      string
	backend   port.Backend
	available bool
}

// batchRun is the state shared by the workers of one Execute call.
type batchRun struct {
	uc       *ProcessBatchUseCase
	input    ProcessBatchInput
	backends []resolvedBackend

	statsMu sync.Mutex
	stats   entity.BatchStats
}

// Execute processes the batch. It never fails: per-image problems are logged
// and the image is left out of the results.
func (uc *ProcessBatchUseCase) Execute(ctx context.Context, input ProcessBatchInput) ProcessBatchOutput {
	ctx = logging.WithComponent(ctx, "batch")
	log := logging.FromContext(ctx)
	start := time.Now()

	names := input.Backends
	if len(names) == 0 {
		names = uc.DefaultBackends(ctx)
	}

	run := &batchRun{
		uc:       uc,
		input:    input,
		backends: uc.resolve(ctx, names),
		stats:    entity.NewBatchStats(),
	}

	results := make(chan entity.BatchResult, len(input.Images))
	out := make(map[string]entity.BatchResult, len(input.Images))
	collected := make(chan struct{})
	go func() {
		defer close(collected)
		for r := range results {
			out[r.Image] = r
		}
	}()

	var g errgroup.Group
	g.SetLimit(uc.opts.Workers)
	for _, image := range input.Images {
		g.Go(func() error {
			if r, ok := run.processImage(ctx, image); ok {
				results <- r
			}
			return nil
		})
	}
	_ = g.Wait()
	close(results)
	<-collected

	run.stats.TotalTime = time.Since(start)
	run.stats.ImagesProcessed = int64(len(out))

	log.Info().
		Int("images", len(input.Images)).
		Int("succeeded", len(out)).
		Int64("cache_hits", run.stats.CacheHits).
		Int64("cache_misses", run.stats.CacheMisses).
		Dur("elapsed", run.stats.TotalTime).
		Msg("batch processed")

	return ProcessBatchOutput{Results: out, Stats: run.stats}
}

// DefaultBackends returns the first three registered backends that are available.
func (uc *ProcessBatchUseCase) DefaultBackends(ctx context.Context) []string {
	available := uc.backends.Available(ctx)
	if len(available) > defaultBackendCount {
		available = available[:defaultBackendCount]
	}
	return available
}

func (uc *ProcessBatchUseCase) resolve(ctx context.Context, names []string) []resolvedBackend {
	log := logging.FromContext(ctx)
	out := make([]resolvedBackend, 0, len(names))
	for _, name := range names {
		b, ok := uc.backends.Lookup(name)
		rb := resolvedBackend{name: name, backend: b}
		switch {
		case !ok:
			log.Warn().Str("backend", name).Msg("unknown backend, only cached results will be used")
		case !b.IsAvailable(ctx):
			log.Warn().Str("backend", name).Msg("backend unavailable, only cached results will be used")
		default:
			rb.available = true
		}
		out = append(out, rb)
	}
	return out
}

func (r *batchRun) processImage(ctx context.Context, image string) (entity.BatchResult, bool) {
	ctx = logging.WithImage(ctx, image)
	log := logging.FromContext(ctx)

	for _, rb := range r.backends {
		if ctx.Err() != nil {
			return entity.BatchResult{}, false
		}
		r.count(func(s *entity.BatchStats) { s.BackendAttempts[rb.name]++ })

		fp := r.uc.keys.Fingerprint(ctx, image, rb.name, r.input.IsLight, r.input.Saturation)
		if artifact, ok := r.uc.cache.Get(ctx, fp.Key); ok {
			r.count(func(s *entity.BatchStats) { s.CacheHits++ })
			return entity.BatchResult{Image: image, Artifact: artifact, Backend: rb.name, FromCache: true}, true
		}
		r.count(func(s *entity.BatchStats) { s.CacheMisses++ })

		if !rb.available {
			continue
		}

		artifact, err := r.compute(ctx, rb, image)
		if err != nil {
			log.Debug().Err(err).Str("backend", rb.name).Msg("backend failed, trying next")
			continue
		}

		if err := r.uc.cache.Put(ctx, fp.Key, artifact, port.PutOptions{
			Backend:   rb.name,
			ImageHash: fp.ImageHash,
			Compress:  r.uc.opts.Compress,
		}); err != nil {
			log.Debug().Err(err).Str("backend", rb.name).Msg("artifact not cached")
		}
		r.count(func(s *entity.BatchStats) { s.BackendSuccesses[rb.name]++ })
		return entity.BatchResult{Image: image, Artifact: artifact, Backend: rb.name}, true
	}

	log.Warn().Msg("no backend produced a color scheme")
	return entity.BatchResult{}, false
}

// compute runs the backend under the task timeout. A backend that ignores its
// context is abandoned when the timeout fires.
func (r *batchRun) compute(ctx context.Context, rb resolvedBackend, image string) (*entity.Artifact, error) {
	taskCtx, cancel := context.WithTimeout(logging.WithBackend(ctx, rb.name), r.uc.opts.TaskTimeout)
	defer cancel()

	type outcome struct {
		artifact *entity.Artifact
		err      error
	}
	done := make(chan outcome, 1)
	go func() {
		a, err := rb.backend.Compute(taskCtx, image, r.input.IsLight, r.input.Saturation)
		done <- outcome{a, err}
	}()

	select {
	case o := <-done:
		if o.err != nil {
			return nil, o.err
		}
		if o.artifact == nil {
			return nil, errNilArtifact
		}
		return o.artifact, nil
	case <-taskCtx.Done():
		return nil, fmt.Errorf("%w: %s: %w", entity.ErrBackendFailed, rb.name, taskCtx.Err())
	}
}

func (r *batchRun) count(fn func(*entity.BatchStats)) {
	r.statsMu.Lock()
	defer r.statsMu.Unlock()
	fn(&r.stats)
}
