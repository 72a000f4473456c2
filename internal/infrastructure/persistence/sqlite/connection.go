package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	"github.com/bnema/walcache/internal/logging"
	_ "github.com/ncruces/go-sqlite3/driver" // SQLite driver (pure Go)
	_ "github.com/ncruces/go-sqlite3/embed"  // Embed SQLite WASM binary
)

// DefaultMaxOpenConns lets readers proceed while a write is in flight (WAL).
const DefaultMaxOpenConns = 4

// Options tunes the connection pool.
type Options struct {
	MaxOpenConns int
}

// NewConnection opens the cache index at dbPath, applies pragmas on every
// pooled connection and runs pending migrations.
func NewConnection(ctx context.Context, dbPath string) (*sql.DB, error) {
	return NewConnectionWithOptions(ctx, dbPath, Options{MaxOpenConns: DefaultMaxOpenConns})
}

// NewConnectionWithOptions is NewConnection with an explicit pool size.
func NewConnectionWithOptions(ctx context.Context, dbPath string, opts Options) (*sql.DB, error) {
	const dbDirPerm = 0o750
	log := logging.FromContext(ctx)

	if dbPath == "" {
		return nil, fmt.Errorf("database path cannot be empty")
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), dbDirPerm); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dataSourceName(dbPath))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	configurePool(db, opts.MaxOpenConns)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Debug().Str("path", dbPath).Int("max_conns", opts.MaxOpenConns).Msg("cache index opened")

	return db, nil
}

// dataSourceName encodes the pragmas in the DSN so the driver applies them
// to each new connection, not only the first one.
func dataSourceName(dbPath string) string {
	q := url.Values{}
	for _, pragma := range []string{
		"busy_timeout(5000)",
		"journal_mode(wal)",
		"synchronous(normal)",
		"temp_store(memory)",
		"cache_size(-16000)",
	} {
		q.Add("_pragma", pragma)
	}
	q.Set("_txlock", "immediate")
	return "file:" + filepath.ToSlash(dbPath) + "?" + q.Encode()
}

// configurePool sizes the pool. Connections never expire: the index lives as
// long as the process.
func configurePool(db *sql.DB, maxOpen int) {
	if maxOpen <= 0 {
		maxOpen = DefaultMaxOpenConns
	}
	db.SetMaxOpenConns(maxOpen)
	db.SetMaxIdleConns(maxOpen)
	db.SetConnMaxLifetime(0)
	db.SetConnMaxIdleTime(0)
}

// Close closes the database connection gracefully.
func Close(db *sql.DB) error {
	if db == nil {
		return nil
	}
	return db.Close()
}
