package cache

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/angelnenov7/nba-dashboard/pkg/logger"
)

const fsEntrySuffix = ".json"

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// FSStore keeps one JSON envelope file per key in a directory.
type FSStore struct {
	dir string
	cfg storeConfig
	mu  sync.RWMutex
}

type fsEnvelope struct {
	Key       string `json:"key"`
	Value     []byte `json:"value"`
	CreatedAt int64  `json:"created_at"`
	ExpiresAt int64  `json:"expires_at,omitempty"`
}

// NewFSStore creates dir if needed and returns a store rooted at it.
func NewFSStore(ctx context.Context, dir string, opts ...Option) (*FSStore, error) {
	cfg := defaultStoreConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create cache dir %s: %w", dir, err)
	}
	if cfg.logger != nil {
		cfg.logger.Info(ctx, "file cache opened", logger.String("dir", dir))
	}
	return &FSStore{dir: dir, cfg: cfg}, nil
}

func (s *FSStore) path(key string) string {
	return filepath.Join(s.dir, url.QueryEscape(key)+fsEntrySuffix)
}

func (s *FSStore) Get(_ context.Context, key string) (Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return Entry{}, ErrNotFound
	}
	if err != nil {
		return Entry{}, fmt.Errorf("read cache entry %s: %w", key, err)
	}
	var env fsEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return Entry{}, fmt.Errorf("decode cache entry %s: %w", key, err)
	}

	e := Entry{Key: env.Key, Value: env.Value, CreatedAt: time.UnixMilli(env.CreatedAt)}
	if env.ExpiresAt > 0 {
		e.ExpiresAt = time.UnixMilli(env.ExpiresAt)
	}
	if e.Expired(s.cfg.now()) {
		return e, ErrExpired
	}
	return e, nil
}

// Set writes the entry to a temp file and renames it into place so readers
// never observe a partial file.
func (s *FSStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if key == "" {
		return ErrInvalidKey
	}
	now := s.cfg.now()
	env := fsEnvelope{Key: key, Value: value, CreatedAt: now.UnixMilli()}
	if exp := expiry(now, ttl); !exp.IsZero() {
		env.ExpiresAt = exp.UnixMilli()
	}
	data, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("encode cache entry %s: %w", key, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tmp, err := os.CreateTemp(s.dir, ".entry-*")
	if err != nil {
		return fmt.Errorf("create temp cache file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("write cache entry %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("close cache entry %s: %w", key, err)
	}
	if err := os.Rename(tmpName, s.path(key)); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("commit cache entry %s: %w", key, err)
	}
	return nil
}

func (s *FSStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.Remove(s.path(key)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("delete cache entry %s: %w", key, err)
	}
	return nil
}

func (s *FSStore) Keys(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	dirEntries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("list cache dir: %w", err)
	}
	keys := []string{}
	for _, de := range dirEntries {
		name := de.Name()
		if de.IsDir() || strings.HasPrefix(name, ".") || !strings.HasSuffix(name, fsEntrySuffix) {
			continue
		}
		key, err := url.QueryUnescape(strings.TrimSuffix(name, fsEntrySuffix))
		if err != nil {
			continue
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys, nil
}

func (s *FSStore) Close() error { return nil }
