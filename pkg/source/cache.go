package source

import (
	"fmt"
	"log/slog"
	"os"
	"sync/atomic"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultCacheSize bounds the number of files whose analysis is kept.
const DefaultCacheSize = 256

// stamp identifies one version of a file on disk.
type stamp struct {
	size    int64
	modTime time.Time
}

type entry[V any] struct {
	stamp stamp
	value V
}

// Cache memoizes a value computed from a file's source, keyed by path and
// invalidated whenever the file's size or modification time changes.
//
// Safe for concurrent use; two goroutines missing on the same path may both
// compute, the last Add wins.
type Cache[V any] struct {
	lru    *lru.Cache[string, entry[V]]
	logger *slog.Logger

	hits   atomic.Int64
	misses atomic.Int64
}

// CacheStats reports cache effectiveness.
type CacheStats struct {
	Entries int
	Hits    int64
	Misses  int64
}

// NewCache creates a cache holding at most size entries (DefaultCacheSize if size <= 0).
func NewCache[V any](size int, logger *slog.Logger) (*Cache[V], error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	if logger == nil {
		logger = slog.Default()
	}
	l, err := lru.NewWithEvict(size, func(path string, _ entry[V]) {
		logger.Debug("analysis cache evicting file", "path", path)
	})
	if err != nil {
		return nil, fmt.Errorf("create analysis cache: %w", err)
	}
	return &Cache[V]{lru: l, logger: logger}, nil
}

// Load returns the cached value for filePath if the file is unchanged,
// otherwise reads the file, runs compute and caches the result.
// Errors from reading or computing are not cached.
func (c *Cache[V]) Load(filePath string, compute func(Source) (V, error)) (V, error) {
	var zero V

	info, err := os.Stat(filePath)
	if err != nil {
		c.lru.Remove(filePath)
		return zero, fmt.Errorf("stat source %q: %w", filePath, err)
	}
	current := stamp{size: info.Size(), modTime: info.ModTime()}

	if e, ok := c.lru.Get(filePath); ok && e.stamp == current {
		c.hits.Add(1)
		return e.value, nil
	}
	c.misses.Add(1)

	src, err := Read(filePath, c.logger)
	if err != nil {
		return zero, err
	}
	value, err := compute(src)
	if err != nil {
		return zero, err
	}

	c.lru.Add(filePath, entry[V]{stamp: current, value: value})
	return value, nil
}

// Invalidate drops any cached value for filePath.
func (c *Cache[V]) Invalidate(filePath string) {
	c.lru.Remove(filePath)
}

// Stats returns a snapshot of cache counters.
func (c *Cache[V]) Stats() CacheStats {
	return CacheStats{
		Entries: c.lru.Len(),
		Hits:    c.hits.Load(),
		Misses:  c.misses.Load(),
	}
}
