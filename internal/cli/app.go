// Package cli wires walcache's adapters and use cases for the command line.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/jmgilman/go/exec"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"

	"github.com/bnema/walcache/internal/application/port"
	"github.com/bnema/walcache/internal/application/usecase"
	"github.com/bnema/walcache/internal/cli/styles"
	xdg "github.com/bnema/walcache/internal/config"
	"github.com/bnema/walcache/internal/domain/build"
	"github.com/bnema/walcache/internal/domain/service"
	"github.com/bnema/walcache/internal/infrastructure/artifactstore"
	"github.com/bnema/walcache/internal/infrastructure/backend"
	"github.com/bnema/walcache/internal/infrastructure/cache"
	"github.com/bnema/walcache/internal/infrastructure/config"
	"github.com/bnema/walcache/internal/infrastructure/filesystem"
	"github.com/bnema/walcache/internal/infrastructure/fingerprint"
	"github.com/bnema/walcache/internal/infrastructure/persistence/sqlite"
	"github.com/bnema/walcache/internal/logging"
)

// hashMemoSize bounds the in-process memo of image content hashes.
const hashMemoSize = 1024

// App holds CLI dependencies.
type App struct {
	Config    *config.Config
	Theme     *styles.Theme
	BuildInfo build.Info

	Images   *filesystem.Adapter
	Keys     *fingerprint.Generator
	Backends *backend.Registry
	Scorer   *service.PaletteScorer

	db        *sqlite.LazyDB
	storeOnce sync.Once
	store     *artifactstore.Store
	storeErr  error

	// Context with logger
	ctx       context.Context
	logCloser io.Closer
}

// NewApp loads the configuration and builds every adapter. The cache index
// is only opened when a command first needs it. parent bounds every
// operation started through the app.
func NewApp(parent context.Context, info build.Info) (*App, error) {
	cfg, cfgErr := loadConfig()

	logger, logCloser := newLogger(cfg)
	ctx := logging.WithContext(parent, logger)
	if cfgErr != nil {
		logger.Warn().Err(cfgErr).Msg("config unusable, running with defaults")
	}

	magick := backend.NewImageMagick(backend.ImageMagickConfig{
		Binary: cfg.Backends.ImageMagick.Binary,
		Colors: cfg.Backends.ImageMagick.Colors,
		Resize: cfg.Backends.ImageMagick.Resize,
	}, exec.New())
	registry, err := backend.NewRegistry(magick)
	if err != nil {
		if logCloser != nil {
			_ = logCloser.Close()
		}
		return nil, fmt.Errorf("register backends: %w", err)
	}

	keys := fingerprint.NewGenerator(afero.NewOsFs()).
		WithHashMemo(cache.NewLRU[string, string](hashMemoSize))

	dbPath := xdg.DatabaseFile(cfg.Cache.Dir)
	logger.Debug().Str("cache_dir", cfg.Cache.Dir).Str("index", dbPath).Msg("app initialized")

	return &App{
		Config:    cfg,
		Theme:     styles.NewTheme(),
		BuildInfo: info,
		Images:    filesystem.NewOS(),
		Keys:      keys,
		Backends:  registry,
		Scorer: service.NewPaletteScorer(service.ScoringWeights{
			Diversity:          cfg.Scoring.DiversityWeight,
			Contrast:           cfg.Scoring.ContrastWeight,
			SaturationVariance: cfg.Scoring.SaturationVarianceWeight,
		}),
		db:        sqlite.NewLazyDB(dbPath, sqlite.Options{MaxOpenConns: sqlite.DefaultMaxOpenConns}),
		ctx:       ctx,
		logCloser: logCloser,
	}, nil
}

// Ctx returns the application context with logger.
func (a *App) Ctx() context.Context {
	return a.ctx
}

// Store opens the cache index and returns the artifact store. The outcome
// of the first call is remembered.
func (a *App) Store() (*artifactstore.Store, error) {
	a.storeOnce.Do(func() {
		db, err := a.db.DB(a.ctx)
		if err != nil {
			a.storeErr = err
			return
		}
		repos := sqlite.NewRepositories(db)
		a.store, a.storeErr = artifactstore.New(
			a.Config.Cache.Dir,
			repos.Entries,
			repos.Snapshots,
			artifactstore.WithToolVersion(a.BuildInfo.Version),
		)
	})
	return a.store, a.storeErr
}

// ArtifactCache returns the store, or a passthrough cache when the store
// cannot be opened so batches still run uncached.
func (a *App) ArtifactCache() port.ArtifactCache {
	store, err := a.Store()
	if err != nil {
		logging.FromContext(a.ctx).Warn().Err(err).Msg("artifact cache unavailable, results will not be cached")
		return artifactstore.Passthrough{}
	}
	return store
}

// ProcessBatchUC builds the batch use case from the configured pool settings.
func (a *App) ProcessBatchUC() *usecase.ProcessBatchUseCase {
	return usecase.NewProcessBatchUseCase(a.ArtifactCache(), a.Keys, a.Backends, usecase.BatchOptions{
		Workers:     a.Config.Batch.Workers,
		TaskTimeout: a.Config.Batch.TaskTimeout.Std(),
		Compress:    a.Config.Cache.Compress,
	})
}

// ProcessDirectoryUC builds the directory batch use case.
func (a *App) ProcessDirectoryUC() *usecase.ProcessDirectoryUseCase {
	return usecase.NewProcessDirectoryUseCase(a.Images, a.ProcessBatchUC())
}

// FindBestImagesUC builds the ranking use case.
func (a *App) FindBestImagesUC() *usecase.FindBestImagesUseCase {
	return usecase.NewFindBestImagesUseCase(a.Images, a.ProcessBatchUC(), a.Scorer, a.Config.Batch.SampleSize)
}

// BenchmarkBackendsUC builds the benchmark use case.
func (a *App) BenchmarkBackendsUC() *usecase.BenchmarkBackendsUseCase {
	return usecase.NewBenchmarkBackendsUseCase(a.Backends)
}

// CleanupCacheUC builds the cleanup use case. It needs the real store.
func (a *App) CleanupCacheUC() (*usecase.CleanupCacheUseCase, error) {
	store, err := a.Store()
	if err != nil {
		return nil, err
	}
	return usecase.NewCleanupCacheUseCase(store), nil
}

// DefaultBackends returns the configured backend order, which may be empty.
func (a *App) DefaultBackends() []string {
	return a.Config.Batch.Backends
}

// Close records a final statistics snapshot when the store was used, then
// releases the index and the log file.
func (a *App) Close() error {
	var errs []error
	if a.store != nil {
		if err := a.store.Close(a.ctx); err != nil {
			logging.FromContext(a.ctx).Warn().Err(err).Msg("failed to record statistics snapshot")
		}
	}
	if err := a.db.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close cache index: %w", err))
	}
	if a.logCloser != nil {
		if err := a.logCloser.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close log file: %w", err))
		}
	}
	return errors.Join(errs...)
}

// loadConfig loads configuration from standard locations, falling back to
// defaults when the file is unusable.
func loadConfig() (*config.Config, error) {
	mgr, err := config.NewManager()
	if err == nil {
		if err = mgr.Load(); err == nil {
			return mgr.Get(), nil
		}
	}

	cfg := config.DefaultConfig()
	if dir, dirErr := xdg.GetCacheDir(); dirErr == nil {
		cfg.Cache.Dir = dir
	}
	return cfg, err
}

// newLogger tees into the rotated log file when file logging is enabled.
// WALCACHE_LOG_LEVEL is already folded into cfg by the loader.
func newLogger(cfg *config.Config) (zerolog.Logger, io.Closer) {
	lc := logging.Config{
		Level:      logging.ParseLevel(cfg.Logging.Level),
		Format:     cfg.Logging.Format,
		TimeFormat: "15:04:05",
	}
	if !cfg.Logging.EnableFileLog {
		return logging.New(lc), nil
	}
	logger, closer, err := logging.NewWithFile(lc, cfg.Logging.LogDir, cfg.Logging.MaxAge)
	if err != nil {
		logger.Warn().Err(err).Str("dir", cfg.Logging.LogDir).Msg("file logging disabled")
		return logger, nil
	}
	return logger, closer
}
