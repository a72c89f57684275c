// Package discover finds component sources under the components directory.
//
// Sources are laid out as <components_dir>/<category>/<name>.tsx; the
// category and name of each entry come from that layout.
package discover

import (
	"fmt"
	"io/fs"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/gnana997/blocksmith/pkg/component"
)

// DefaultInclude matches one source file per category directory.
var DefaultInclude = []string{"*/*.tsx"}

// DefaultExclude drops tests, stories and barrel files.
var DefaultExclude = []string{
	"**/*.test.tsx",
	"**/*.spec.tsx",
	"**/*.stories.tsx",
	"**/__tests__/**",
	"**/index.tsx",
}

// Entry is one discovered component source.
type Entry struct {
	Name     string `json:"name" yaml:"name"`
	Category string `json:"category" yaml:"category"`
	// Path is absolute.
	Path string `json:"path" yaml:"path"`
	// RelPath is slash-separated and relative to the components directory.
	RelPath string `json:"rel_path" yaml:"rel_path"`
}

// Matcher applies include/exclude globs to slash-separated relative paths.
type Matcher struct {
	include []string
	exclude []string
}

// NewMatcher validates the patterns. Nil slices select the defaults.
func NewMatcher(include, exclude []string) (*Matcher, error) {
	if include == nil {
		include = DefaultInclude
	}
	if exclude == nil {
		exclude = DefaultExclude
	}
	for _, pattern := range include {
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("invalid include pattern: %s", pattern)
		}
	}
	for _, pattern := range exclude {
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("invalid exclude pattern: %s", pattern)
		}
	}
	return &Matcher{include: include, exclude: exclude}, nil
}

// Match reports whether rel is a component source.
func (m *Matcher) Match(rel string) bool {
	if m.excluded(rel) {
		return false
	}
	for _, pattern := range m.include {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
	}
	return false
}

func (m *Matcher) excluded(rel string) bool {
	for _, pattern := range m.exclude {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
	}
	return false
}

// EntryFor converts a matched relative path into an Entry. Files whose name
// is not a valid component name are rejected.
func EntryFor(root, rel string) (Entry, bool) {
	dir, file := path.Split(rel)
	name := strings.TrimSuffix(file, path.Ext(file))
	if dir == "" {
		return Entry{}, false
	}
	category := path.Base(strings.TrimSuffix(dir, "/"))

	cfg := component.Config{Name: name, Category: category}.Normalized()
	if cfg.Name != name || cfg.Validate() != nil {
		return Entry{}, false
	}

	return Entry{
		Name:     name,
		Category: category,
		Path:     filepath.Join(root, filepath.FromSlash(rel)),
		RelPath:  rel,
	}, true
}

// Discover returns the component sources under root, sorted by RelPath.
// A non-empty category restricts the result to that category. A missing
// root yields no entries.
func Discover(root string, m *Matcher, category string) ([]Entry, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve components path: %w", err)
	}

	var entries []Entry
	err = filepath.WalkDir(absRoot, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if p == absRoot {
				return filepath.SkipAll
			}
			return nil
		}

		rel, err := filepath.Rel(absRoot, p)
		if err != nil || rel == "." {
			return nil
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if m.excluded(rel) || m.excluded(rel+"/") {
				return filepath.SkipDir
			}
			return nil
		}
		if !m.Match(rel) {
			return nil
		}

		entry, ok := EntryFor(absRoot, rel)
		if !ok || (category != "" && entry.Category != category) {
			return nil
		}
		entries = append(entries, entry)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].RelPath < entries[j].RelPath })
	return entries, nil
}
