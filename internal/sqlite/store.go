// File path: internal/sqlite/store.go
package sqlite

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // pure go sqlite driver

	"github.com/nicodishanthj/bellybutton/internal/common"
)

var errNilStore = errors.New("sqlite store not initialised")

// Store wraps a read-only sqlx.DB pool over the biodiversity dataset.
type Store struct {
	db *sqlx.DB
}

// Open constructs a Store for the database at path, layering the path over
// the configuration returned by LoadConfig.
func Open(path string) (*Store, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, err
	}
	if trimmed := strings.TrimSpace(path); trimmed != "" {
		cfg.Path = trimmed
	}
	return OpenWithConfig(cfg)
}

// OpenWithConfig opens an existing database file read-only and verifies that
// the samples and sample_metadata tables have the expected layout. The file
// is never created.
func OpenWithConfig(cfg Config) (*Store, error) {
	cfg.applyDefaults()
	abs, err := filepath.Abs(cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("resolve sqlite path: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("sqlite database %s: %w", abs, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("sqlite database %s is a directory", abs)
	}
	db, err := sqlx.Open("sqlite", readOnlyDSN(abs, cfg.BusyTimeout))
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	db.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.BusyTimeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	store := newStore(db)
	if err := store.validateSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}
	common.Logger().Info("sqlite: dataset opened", "path", abs, "max_open_conns", cfg.MaxOpenConns)
	return store, nil
}

// readOnlyDSN renders abs as a percent-encoded file: URI so characters such
// as '#' and '?' in directory names stay part of the path.
func readOnlyDSN(abs string, busyTimeout time.Duration) string {
	path := filepath.ToSlash(abs)
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	uri := url.URL{
		Scheme:   "file",
		Path:     path,
		RawQuery: fmt.Sprintf("mode=ro&_pragma=busy_timeout(%d)&_pragma=query_only(1)", busyTimeout.Milliseconds()),
	}
	return uri.String()
}

func newStore(db *sqlx.DB) *Store {
	return &Store{db: db}
}

func (s *Store) ensureReady() error {
	if s == nil || s.db == nil {
		return errNilStore
	}
	return nil
}

// Ping checks that the database is still reachable.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.ensureReady(); err != nil {
		return err
	}
	return s.db.PingContext(ctx)
}

// Close releases the underlying database resources.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// DB exposes the underlying sqlx.DB for advanced callers.
func (s *Store) DB() *sqlx.DB {
	if s == nil {
		return nil
	}
	return s.db
}
