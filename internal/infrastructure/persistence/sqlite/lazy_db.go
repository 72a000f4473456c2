package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	"github.com/bnema/walcache/internal/application/port"
	"github.com/bnema/walcache/internal/logging"
)

// LazyDB opens the cache index on first access. The WASM compilation and
// migrations are skipped entirely by commands that never reach the cache.
type LazyDB struct {
	dbPath string
	opts   Options

	mu  sync.Mutex
	db  *sql.DB
	err error
}

var _ port.DatabaseProvider = (*LazyDB)(nil)

// NewLazyDB creates a new lazy database provider.
func NewLazyDB(dbPath string, opts Options) *LazyDB {
	return &LazyDB{dbPath: dbPath, opts: opts}
}

// DB returns the database connection, initializing it if necessary.
// A failed open is remembered; later calls return the same error.
func (l *LazyDB) DB(ctx context.Context) (*sql.DB, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.db == nil && l.err == nil {
		log := logging.FromContext(ctx)
		log.Debug().Str("path", l.dbPath).Msg("opening cache index")

		l.db, l.err = NewConnectionWithOptions(ctx, l.dbPath, l.opts)
		if l.err != nil {
			log.Warn().Err(l.err).Msg("cache index unavailable")
		}
	}

	if l.err != nil {
		return nil, fmt.Errorf("database initialization failed: %w", l.err)
	}
	return l.db, nil
}

// Close closes the database connection if it was initialized.
func (l *LazyDB) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.db == nil {
		return nil
	}
	err := l.db.Close()
	l.db = nil
	l.err = fmt.Errorf("database closed")
	return err
}

// IsInitialized returns true if the database has been initialized.
func (l *LazyDB) IsInitialized() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.db != nil
}

// Path returns the database path.
func (l *LazyDB) Path() string {
	return l.dbPath
}
