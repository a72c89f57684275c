package extract

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnana997/blocksmith/pkg/parser"
	"github.com/gnana997/blocksmith/pkg/source"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func readFixture(t *testing.T, name string) source.Source {
	t.Helper()
	src, err := source.Read(filepath.Join("testdata", name), testLogger())
	require.NoError(t, err)
	return src
}

// Both strategies must agree on every fixture.
func strategies(t *testing.T) map[string]Extractor {
	t.Helper()
	manager := parser.NewManager(testLogger(), 2)
	t.Cleanup(func() { manager.Close() })
	return map[string]Extractor{
		"lexical": Lexical{},
		"ast":     NewAST(manager, testLogger()),
	}
}

func TestExtract_Fixtures(t *testing.T) {
	tests := []struct {
		fixture string
		want    []string
	}{
		{
			fixture: "sparkles.tsx",
			want:    []string{"particleDensity", "minSize", "maxSize", "children", "className"},
		},
		{
			// aliases, object defaults, quoted commas, rest elements
			fixture: "beam.tsx",
			want:    []string{"title", "speed", "config", "onDone", "color"},
		},
		{
			// extends clause, method and quoted members, memo wrapper, comments
			fixture: "glow.tsx",
			want:    []string{"intensity", "loop", "enabled"},
		},
		{
			// several members on one line, semicolon separated
			fixture: "compact.tsx",
			want:    []string{"particleDensity", "minSize", "maxSize"},
		},
		{
			// comma separated type literal with generic and function members
			fixture: "commas.tsx",
			want:    []string{"title", "speed", "weights", "onDone"},
		},
		{
			// one and two members per line, separator inside a string literal
			fixture: "mixed.tsx",
			want:    []string{"a", "b", "label", "c"},
		},
		{
			fixture: "divider.tsx",
			want:    []string{},
		},
	}

	for name, extractor := range strategies(t) {
		for _, tt := range tests {
			t.Run(name+"/"+tt.fixture, func(t *testing.T) {
				got := extractor.Extract(readFixture(t, tt.fixture))
				assert.Equal(t, tt.want, got)
			})
		}
	}
}

func TestExtract_DegradesToEmpty(t *testing.T) {
	inputs := map[string]string{
		"empty":            "",
		"plain text":       "just some notes about sparkles",
		"unclosed props":   "interface BrokenProps {\n  a: string;\n",
		"unclosed params":  "export function Broken({ a, b",
		"binary-ish input": "\x00\x01{{{",
	}

	for name, text := range inputs {
		t.Run(name, func(t *testing.T) {
			got := Lexical{}.Extract(source.FromString("x.tsx", text))
			assert.NotNil(t, got)
			assert.Empty(t, got)
		})
	}

	ast := strategies(t)["ast"]
	for name, text := range inputs {
		t.Run("ast/"+name, func(t *testing.T) {
			assert.NotPanics(t, func() {
				assert.NotNil(t, ast.Extract(source.FromString("x.tsx", text)))
			})
		})
	}
}

func TestLexical_UnionKeepsFirstSeenOrder(t *testing.T) {
	text := `interface CardProps {
  heading: string;
  text?: string;
}

export function Card({ text, heading, count = 3 }: CardProps) {
  return null;
}
`
	got := Lexical{}.Extract(source.FromString("card.tsx", text))
	assert.Equal(t, []string{"heading", "text", "count"}, got)
}

func TestLexical_DestructuringOnly(t *testing.T) {
	text := `export const Meteors = ({ number, className }: { number?: number; className?: string }) => null;`
	got := Lexical{}.Extract(source.FromString("meteors.tsx", text))
	assert.Equal(t, []string{"number", "className"}, got)
}

func TestNew(t *testing.T) {
	manager := parser.NewManager(testLogger(), 1)
	defer manager.Close()

	ex, err := New("", nil, nil)
	require.NoError(t, err)
	assert.IsType(t, Lexical{}, ex)

	ex, err = New(StrategyAST, manager, nil)
	require.NoError(t, err)
	assert.IsType(t, &AST{}, ex)

	_, err = New(StrategyAST, nil, nil)
	assert.Error(t, err)

	_, err = New("regex", nil, nil)
	assert.ErrorContains(t, err, "unknown extractor")
}

func TestCached_ExtractFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sparkles.tsx")
	data, err := os.ReadFile(filepath.Join("testdata", "sparkles.tsx"))
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0644))

	cache, err := source.NewCache[[]string](8, testLogger())
	require.NoError(t, err)
	cached := NewCached(Lexical{}, cache)

	first, err := cached.ExtractFile(path)
	require.NoError(t, err)
	first[0] = "mutated"

	second, err := cached.ExtractFile(path)
	require.NoError(t, err)
	assert.Equal(t, "particleDensity", second[0])

	stats := cache.Stats()
	assert.Equal(t, int64(1), stats.Hits)
	assert.Equal(t, int64(1), stats.Misses)

	_, err = cached.ExtractFile(filepath.Join(t.TempDir(), "missing.tsx"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
