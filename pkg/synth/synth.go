// Package synth renders the generated artifacts of an integration: the CMS
// schema definition, the block wrapper component, the placeholder core
// component and the README entry. Rendering is pure; writing is left to emit.
package synth

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"strings"
	"text/template"

	"github.com/gnana997/blocksmith/pkg/component"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// ArtifactKind identifies a generated file.
type ArtifactKind string

const (
	KindSchema ArtifactKind = "schema"
	KindBlock  ArtifactKind = "block"
	KindCore   ArtifactKind = "core"
)

// Artifact is a fully rendered file, computed in memory before any write.
type Artifact struct {
	Kind ArtifactKind `json:"kind" yaml:"kind"`
	Path string       `json:"path" yaml:"path"`
	Text string       `json:"text" yaml:"text"`
}

// Names that the schema and block always carry themselves.
var fixedFields = map[string]bool{
	"title":        true,
	"colorVariant": true,
	"padding":      true,
}

// Options configures the naming conventions of generated code.
type Options struct {
	// TypePrefix prefixes the schema type name ("aceternity-sparkles")
	// and the generated TS type ("AceternitySparkles").
	TypePrefix string
	// CoreImportBase is the import path of the core components directory,
	// e.g. "@/components/aceternity". Category and kebab name are appended.
	CoreImportBase string
}

// DefaultOptions matches the default project layout.
func DefaultOptions() Options {
	return Options{
		TypePrefix:     "aceternity",
		CoreImportBase: "@/components/aceternity",
	}
}

// Synthesizer renders artifacts from the embedded templates.
type Synthesizer struct {
	opts Options
	tmpl *template.Template
}

// New parses the embedded templates.
func New(opts Options) (*Synthesizer, error) {
	tmpl, err := template.New("synth").Funcs(templateFuncs()).ParseFS(templateFS, "templates/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	return &Synthesizer{opts: opts, tmpl: tmpl}, nil
}

// Options returns the naming options in use.
func (s *Synthesizer) Options() Options {
	return s.opts
}

func (s *Synthesizer) render(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := s.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("failed to render %s: %w", name, err)
	}
	return buf.String(), nil
}

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"js":     jsString,
		"jsList": jsList,
	}
}

// jsString renders s as a double-quoted JS string literal.
func jsString(s string) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(s)
	return strings.TrimSuffix(buf.String(), "\n")
}

func jsList(items []string) string {
	quoted := make([]string, len(items))
	for i, item := range items {
		quoted[i] = jsString(item)
	}
	return strings.Join(quoted, ", ")
}

// jsValue renders a classifier default as a JS literal.
func jsValue(v any) (string, error) {
	if s, ok := v.(string); ok {
		return jsString(s), nil
	}
	out, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("unrenderable default %v: %w", v, err)
	}
	return string(out), nil
}

// names returns the component-derived identifiers shared by all templates.
func (s *Synthesizer) names(cfg component.Config) nameData {
	return nameData{
		Name:        cfg.KebabName(),
		DisplayName: cfg.DisplayName,
		Description: cfg.Description,
		Icon:        cfg.Icon,
		Category:    cfg.Category,
		Pascal:      cfg.PascalName(),
		SchemaType:  cfg.SchemaType(s.opts.TypePrefix),
		TypeName:    cfg.TypeName(s.opts.TypePrefix),
		CoreImport:  strings.TrimSuffix(s.opts.CoreImportBase, "/") + "/" + cfg.Category + "/" + cfg.KebabName(),
	}
}

type nameData struct {
	Name        string
	DisplayName string
	Description string
	Icon        string
	Category    string
	Pascal      string
	SchemaType  string
	TypeName    string
	CoreImport  string
}
