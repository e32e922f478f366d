// Package cache stores fetched oEmbed bodies on disk.
package cache

import (
	"crypto/sha256"
	"encoding/gob"
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/ka2n/oembed/log"
	"github.com/morikuni/failure/v2"
)

// EnvDir overrides the cache directory
const EnvDir = "OEMBED_CACHE_DIR"

// DefaultTTL is the default time-to-live for cached entries
var DefaultTTL = 24 * time.Hour

type ErrorCode string

// ErrMiss is returned by Get when no fresh entry exists
const ErrMiss ErrorCode = "CacheMiss"

// Entry represents a cached item
type Entry[T any] struct {
	Value     T
	CreatedAt time.Time
}

// Cache keeps values of type T as gob files, one per key
type Cache[T any] struct {
	dir string
	ttl time.Duration
}

// DefaultDir returns the base cache directory: $OEMBED_CACHE_DIR, or
// "oembed" under the user cache directory.
func DefaultDir() string {
	if dir := os.Getenv(EnvDir); dir != "" {
		return dir
	}
	base, err := os.UserCacheDir()
	if err != nil {
		base = os.TempDir()
	}
	return filepath.Join(base, "oembed")
}

// New creates a cache in the namespace directory under DefaultDir
func New[T any](namespace string) *Cache[T] {
	return NewAt[T](filepath.Join(DefaultDir(), namespace), DefaultTTL)
}

// NewAt creates a cache rooted at dir
func NewAt[T any](dir string, ttl time.Duration) *Cache[T] {
	return &Cache[T]{dir: dir, ttl: ttl}
}

// Dir returns the directory holding the entries
func (c *Cache[T]) Dir() string {
	return c.dir
}

// Get returns the fresh value stored for key.
func (c *Cache[T]) Get(key string) (T, error) {
	entry, err := c.loadEntry(c.path(key))
	if err != nil || time.Since(entry.CreatedAt) >= c.ttl {
		var zero T
		return zero, failure.New(ErrMiss, failure.Context{"key": key})
	}
	return entry.Value, nil
}

// Set stores value for key
func (c *Cache[T]) Set(key string, value T) error {
	return c.saveEntry(c.path(key), Entry[T]{Value: value, CreatedAt: time.Now()})
}

// GetOrSet returns the cached value for key, or calls fn and stores its
// result. forceUpdate skips the lookup. A failure to store is logged and the
// fresh value is still returned.
func (c *Cache[T]) GetOrSet(key string, fn func() (T, error), forceUpdate bool) (T, error) {
	if !forceUpdate {
		if v, err := c.Get(key); err == nil {
			log.Debug("cache hit", "key", key)
			return v, nil
		}
	}

	value, err := fn()
	if err != nil {
		var zero T
		return zero, err
	}

	if err := c.Set(key, value); err != nil {
		log.Warn("failed to write cache entry", "key", key, "error", err)
	}
	return value, nil
}

// Clear removes all cached entries
func (c *Cache[T]) Clear() error {
	if err := os.RemoveAll(c.dir); err != nil && !errors.Is(err, os.ErrNotExist) {
		return failure.Wrap(err)
	}
	return nil
}

// SetTTL updates the cache TTL
func (c *Cache[T]) SetTTL(d time.Duration) {
	c.ttl = d
}

// path maps a key to its file. Keys are endpoint URLs, so they are hashed
// rather than sanitized: distinct query strings must not share a file.
func (c *Cache[T]) path(key string) string {
	sum := sha256.Sum256([]byte(key))
	name := hex.EncodeToString(sum[:])
	return filepath.Join(c.dir, name[:2], name+".gob")
}

func (c *Cache[T]) loadEntry(path string) (*Entry[T], error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var entry Entry[T]
	if err := gob.NewDecoder(f).Decode(&entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

func (c *Cache[T]) saveEntry(path string, entry Entry[T]) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return failure.Wrap(err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".entry-*")
	if err != nil {
		return failure.Wrap(err)
	}
	defer os.Remove(tmp.Name())

	if err := gob.NewEncoder(tmp).Encode(entry); err != nil {
		tmp.Close()
		return failure.Wrap(err)
	}
	if err := tmp.Close(); err != nil {
		return failure.Wrap(err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return failure.Wrap(err)
	}
	return nil
}
