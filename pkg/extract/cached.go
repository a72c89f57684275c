package extract

import (
	"slices"

	"github.com/gnana997/blocksmith/pkg/source"
)

// Cached memoizes extraction results per file. Long-running callers (the MCP
// server and the watcher) analyze the same files repeatedly.
type Cached struct {
	extractor Extractor
	cache     *source.Cache[[]string]
}

// NewCached wraps extractor with cache.
func NewCached(extractor Extractor, cache *source.Cache[[]string]) *Cached {
	return &Cached{extractor: extractor, cache: cache}
}

// Extract implements Extractor for in-memory sources; these bypass the cache.
func (c *Cached) Extract(src source.Source) []string {
	return c.extractor.Extract(src)
}

// ExtractFile reads and extracts filePath unless an analysis of the same
// file version is cached. The returned slice is owned by the caller.
func (c *Cached) ExtractFile(filePath string) ([]string, error) {
	names, err := c.cache.Load(filePath, func(src source.Source) ([]string, error) {
		return c.extractor.Extract(src), nil
	})
	if err != nil {
		return nil, err
	}
	return slices.Clone(names), nil
}
