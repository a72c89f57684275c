package synth

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnana997/blocksmith/pkg/classify"
	"github.com/gnana997/blocksmith/pkg/component"
	"github.com/gnana997/blocksmith/pkg/extract"
	"github.com/gnana997/blocksmith/pkg/source"
)

var sparkles = component.Config{
	Name:        "sparkles",
	DisplayName: "Sparkles Effect",
	Description: "Animated particles",
	Icon:        "Sparkles",
	Category:    "animations",
}

// Property list of a component whose props interface declares
// particleDensity, minSize, maxSize, children and className.
var sparklesProps = []string{"particleDensity", "minSize", "maxSize", "children", "className"}

func newSynth(t *testing.T) *Synthesizer {
	t.Helper()
	s, err := New(DefaultOptions())
	require.NoError(t, err)
	return s
}

func golden(t *testing.T, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", name))
	require.NoError(t, err)
	return string(data)
}

func TestSchema_Sparkles(t *testing.T) {
	s := newSynth(t)

	got, err := s.Schema(sparkles, classify.Fields(sparklesProps))
	require.NoError(t, err)
	assert.Equal(t, golden(t, "sparkles.schema.ts"), got)
}

func TestBlock_Sparkles(t *testing.T) {
	s := newSynth(t)

	got, err := s.Block(sparkles, sparklesProps)
	require.NoError(t, err)
	assert.Equal(t, golden(t, "sparkles-block.tsx"), got)
}

func fieldNames(schema string) []string {
	var names []string
	for _, line := range strings.Split(schema, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "name: ") && strings.HasSuffix(line, ",") {
			names = append(names, strings.Trim(strings.TrimSuffix(strings.TrimPrefix(line, "name: "), ","), `"`))
		}
	}
	return names
}

func TestSchema_FieldOrder(t *testing.T) {
	s := newSynth(t)

	tests := []struct {
		name  string
		props []string
		want  []string
	}{
		{
			name:  "no properties",
			props: nil,
			want:  []string{"title", "colorVariant", "padding"},
		},
		{
			name:  "extractor order is kept",
			props: []string{"speed", "heading", "loop"},
			want:  []string{"title", "speed", "heading", "loop", "colorVariant", "padding"},
		},
		{
			name:  "fixed names are not repeated",
			props: []string{"title", "padding", "intensity", "colorVariant"},
			want:  []string{"title", "intensity", "colorVariant", "padding"},
		},
		{
			name:  "excluded names are dropped",
			props: []string{"children", "className", "text"},
			want:  []string{"title", "text", "colorVariant", "padding"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.Schema(sparkles, classify.Fields(tt.props))
			require.NoError(t, err)
			// The schema's own name line comes first.
			assert.Equal(t, append([]string{"aceternity-sparkles"}, tt.want...), fieldNames(got))
		})
	}
}

func TestSchema_ConstraintsAndTypes(t *testing.T) {
	s := newSynth(t)

	got, err := s.Schema(sparkles, classify.Fields([]string{"intensity", "backgroundColor", "description", "autoPlay", "particleColor", "mystery"}))
	require.NoError(t, err)

	assert.Contains(t, got, "      validation: (rule) => rule.min(1).max(10),\n")
	assert.Contains(t, got, `      options: { list: ["transparent", "black", "white"] },`)
	assert.Contains(t, got, "      name: \"description\",\n      title: \"Description\",\n      type: \"text\",\n      group: \"content\",")
	assert.Contains(t, got, "      type: \"boolean\",\n      initialValue: true,\n      group: \"settings\",")
	assert.Contains(t, got, "      type: \"string\",\n      initialValue: \"#00d71c\",\n      group: \"style\",")
	assert.Contains(t, got, "      name: \"mystery\",\n      title: \"Mystery\",\n      type: \"string\",\n      group: \"settings\",")
}

func TestSchema_EscapesStrings(t *testing.T) {
	s := newSynth(t)
	cfg := sparkles
	cfg.DisplayName = `Say "hi" \ <now>`

	got, err := s.Schema(cfg, nil)
	require.NoError(t, err)
	assert.Contains(t, got, `title: "Say \"hi\" \\ <now>",`)
	assert.Contains(t, got, `title: title || "Say \"hi\" \\ <now>",`)
}

func TestSchema_TypePrefix(t *testing.T) {
	s, err := New(Options{TypePrefix: "fx", CoreImportBase: "@/ui/"})
	require.NoError(t, err)

	schema, err := s.Schema(sparkles, nil)
	require.NoError(t, err)
	assert.Contains(t, schema, `name: "fx-sparkles",`)

	block, err := s.Block(sparkles, nil)
	require.NoError(t, err)
	assert.Contains(t, block, `import { SparklesCore } from "@/ui/animations/sparkles";`)
	assert.Contains(t, block, `}: FxSparkles) {`)
}

func TestBlockProps(t *testing.T) {
	tests := []struct {
		name          string
		props         []string
		wantDeclared  []string
		wantForwarded []string
	}{
		{
			name:          "empty",
			props:         nil,
			wantDeclared:  []string{"colorVariant", "padding"},
			wantForwarded: nil,
		},
		{
			name:          "fixed names are not duplicated or forwarded",
			props:         []string{"padding", "speed", "colorVariant", "children"},
			wantDeclared:  []string{"colorVariant", "padding", "speed"},
			wantForwarded: []string{"speed"},
		},
		{
			name:          "title is forwarded",
			props:         []string{"title", "className", "loop"},
			wantDeclared:  []string{"colorVariant", "padding", "title", "loop"},
			wantForwarded: []string{"title", "loop"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			declared, forwarded := BlockProps(tt.props)
			assert.Equal(t, tt.wantDeclared, declared)
			assert.Equal(t, tt.wantForwarded, forwarded)

			// forwarded must be a subset of declared minus colorVariant/padding
			for _, name := range forwarded {
				assert.Contains(t, declared, name)
				assert.NotContains(t, []string{"colorVariant", "padding"}, name)
			}
		})
	}
}

func TestPlaceholder_ExtractsScaffoldProperties(t *testing.T) {
	s := newSynth(t)

	got, err := s.Placeholder(sparkles)
	require.NoError(t, err)
	assert.Contains(t, got, "export function SparklesCore(")
	assert.Contains(t, got, "blocksmith fetch sparkles --category animations --force")

	// The scaffolded block forwards the scaffold properties, so the
	// placeholder must accept them.
	props := extract.Lexical{}.Extract(source.FromString("sparkles.tsx", got))
	assert.Equal(t, classify.Names(props), ScaffoldProperties)
}

func TestReadmeEntry(t *testing.T) {
	s := newSynth(t)
	paths := Paths{
		Schema: "sanity/schemas/blocks/aceternity/sparkles.ts",
		Block:  "components/blocks/aceternity/sparkles-block.tsx",
		Core:   "components/aceternity/animations/sparkles.tsx",
	}

	got, err := s.ReadmeEntry(sparkles, paths, time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Contains(t, got, "## Sparkles Effect\n")
	assert.Contains(t, got, "**Added:** 2026-03-14\n")
	assert.Contains(t, got, "**Schema:** `sanity/schemas/blocks/aceternity/sparkles.ts`\n")
	assert.Contains(t, got, "1. Add the core component to `components/aceternity/animations/sparkles.tsx`\n")
}
