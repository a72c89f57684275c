package source

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestRead(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "sparkles.tsx", "export function SparklesCore() {}\n")

	src, err := Read(path, nil)
	require.NoError(t, err)
	assert.Equal(t, path, src.Path)
	assert.Equal(t, "export function SparklesCore() {}\n", src.String())

	// The returned bytes must outlive the file.
	require.NoError(t, os.Remove(path))
	assert.Equal(t, "export function SparklesCore() {}\n", src.String())
}

func TestRead_EmptyFile(t *testing.T) {
	path := writeFile(t, t.TempDir(), "empty.tsx", "")

	src, err := Read(path, nil)
	require.NoError(t, err)
	assert.Empty(t, src.Text)
}

func TestRead_Missing(t *testing.T) {
	_, err := Read(filepath.Join(t.TempDir(), "nope.tsx"), nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestRead_Directory(t *testing.T) {
	_, err := Read(t.TempDir(), nil)
	require.Error(t, err)
}

func TestCache_HitsUntilFileChanges(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "a.tsx", "one")

	cache, err := NewCache[int](4, nil)
	require.NoError(t, err)

	calls := 0
	count := func(src Source) (int, error) {
		calls++
		return len(strings.Fields(src.String())), nil
	}

	v, err := cache.Load(path, count)
	require.NoError(t, err)
	assert.Equal(t, 1, v)

	v, err = cache.Load(path, count)
	require.NoError(t, err)
	assert.Equal(t, 1, v)
	assert.Equal(t, 1, calls, "second load should be served from cache")

	require.NoError(t, os.WriteFile(path, []byte("one two three"), 0644))
	future := time.Now().Add(time.Hour)
	require.NoError(t, os.Chtimes(path, future, future))

	v, err = cache.Load(path, count)
	require.NoError(t, err)
	assert.Equal(t, 3, v)
	assert.Equal(t, 2, calls)

	stats := cache.Stats()
	assert.Equal(t, 1, stats.Entries)
	assert.Equal(t, int64(1), stats.Hits)
	assert.Equal(t, int64(2), stats.Misses)
}

func TestCache_ErrorsAreNotCached(t *testing.T) {
	path := writeFile(t, t.TempDir(), "a.tsx", "x")
	cache, err := NewCache[string](0, nil)
	require.NoError(t, err)

	_, err = cache.Load(path, func(Source) (string, error) { return "", errors.New("boom") })
	require.Error(t, err)
	assert.Equal(t, 0, cache.Stats().Entries)

	v, err := cache.Load(path, func(s Source) (string, error) { return s.String(), nil })
	require.NoError(t, err)
	assert.Equal(t, "x", v)

	cache.Invalidate(path)
	assert.Equal(t, 0, cache.Stats().Entries)
}

func TestCache_MissingFile(t *testing.T) {
	cache, err := NewCache[int](1, nil)
	require.NoError(t, err)

	_, err = cache.Load(filepath.Join(t.TempDir(), "gone.tsx"), func(Source) (int, error) { return 1, nil })
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}
