package cache

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/sqlite3" // sqlite3:// migrate driver
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3" // database/sql driver

	"github.com/angelnenov7/nba-dashboard/pkg/logger"
)

// SQLiteFile is the database file created inside the cache directory.
const SQLiteFile = "cache.db"

//go:embed migrations/*.sql
var migrationsFS embed.FS

// SQLiteStore keeps entries in a single sqlite file.
type SQLiteStore struct {
	db     *sqlx.DB
	path   string
	cfg    storeConfig
	closed atomic.Bool
}

type entryRow struct {
	Key       string `db:"cache_key"`
	Value     []byte `db:"value"`
	CreatedAt int64  `db:"created_at"`
	ExpiresAt int64  `db:"expires_at"`
}

// NewSQLiteStore opens (and if needed creates) <dir>/cache.db and brings its
// schema up to date.
func NewSQLiteStore(ctx context.Context, dir string, opts ...Option) (*SQLiteStore, error) {
	cfg := defaultStoreConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create cache dir %s: %w", dir, err)
	}
	path := filepath.Join(dir, SQLiteFile)

	if err := migrateUp(path); err != nil {
		return nil, err
	}

	db, err := sqlx.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open cache db: %w", err)
	}
	// one writer at a time; sqlite serializes anyway
	db.SetMaxOpenConns(1)
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping cache db: %w", err)
	}

	if cfg.logger != nil {
		cfg.logger.Info(ctx, "sqlite cache opened", logger.String("path", path))
	}
	return &SQLiteStore{db: db, path: path, cfg: cfg}, nil
}

func migrateUp(path string) error {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("load cache migrations: %w", err)
	}
	m, err := migrate.NewWithSourceInstance("iofs", src, "sqlite3://"+path)
	if err != nil {
		return fmt.Errorf("init cache migrations: %w", err)
	}
	defer func() { _, _ = m.Close() }()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("run cache migrations: %w", err)
	}
	return nil
}

// Path returns the database file path.
func (s *SQLiteStore) Path() string { return s.path }

func (s *SQLiteStore) Get(ctx context.Context, key string) (Entry, error) {
	if s.closed.Load() {
		return Entry{}, ErrStoreClosed
	}
	var row entryRow
	err := s.db.GetContext(ctx, &row,
		`SELECT cache_key, value, created_at, expires_at FROM entries WHERE cache_key = ?`, key)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, ErrNotFound
	}
	if err != nil {
		return Entry{}, fmt.Errorf("select cache entry %s: %w", key, err)
	}

	e := Entry{
		Key:       row.Key,
		Value:     row.Value,
		CreatedAt: time.UnixMilli(row.CreatedAt),
	}
	if row.ExpiresAt > 0 {
		e.ExpiresAt = time.UnixMilli(row.ExpiresAt)
	}
	if e.Expired(s.cfg.now()) {
		return e, ErrExpired
	}
	return e, nil
}

func (s *SQLiteStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if s.closed.Load() {
		return ErrStoreClosed
	}
	if key == "" {
		return ErrInvalidKey
	}
	now := s.cfg.now()
	row := entryRow{Key: key, Value: value, CreatedAt: now.UnixMilli()}
	if exp := expiry(now, ttl); !exp.IsZero() {
		row.ExpiresAt = exp.UnixMilli()
	}
	_, err := s.db.NamedExecContext(ctx, `
		REPLACE INTO entries (cache_key, value, created_at, expires_at)
		VALUES (:cache_key, :value, :created_at, :expires_at)`, row)
	if err != nil {
		return fmt.Errorf("store cache entry %s: %w", key, err)
	}
	return nil
}

func (s *SQLiteStore) Delete(ctx context.Context, key string) error {
	if s.closed.Load() {
		return ErrStoreClosed
	}
	if _, err := s.db.ExecContext(ctx, `DELETE FROM entries WHERE cache_key = ?`, key); err != nil {
		return fmt.Errorf("delete cache entry %s: %w", key, err)
	}
	return nil
}

func (s *SQLiteStore) Keys(ctx context.Context) ([]string, error) {
	if s.closed.Load() {
		return nil, ErrStoreClosed
	}
	keys := []string{}
	if err := s.db.SelectContext(ctx, &keys, `SELECT cache_key FROM entries ORDER BY cache_key`); err != nil {
		return nil, fmt.Errorf("list cache keys: %w", err)
	}
	return keys, nil
}

func (s *SQLiteStore) Close() error {
	if !s.closed.CompareAndSwap(false, true) {
		return nil
	}
	return s.db.Close()
}
