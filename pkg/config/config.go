// Package config loads the per-project settings in .blocksmith/config.yaml
// and resolves API credentials.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"regexp"

	"gopkg.in/yaml.v3"

	"github.com/gnana997/blocksmith/pkg/component"
	"github.com/gnana997/blocksmith/pkg/extract"
	"github.com/gnana997/blocksmith/pkg/synth"
)

const (
	// Dir is the project-local settings directory.
	Dir = ".blocksmith"
	// FileName is the settings file inside Dir.
	FileName = "config.yaml"
)

var prefixPattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

// Layout holds project-relative, slash-separated directories.
type Layout struct {
	ComponentsDir string `yaml:"components_dir"`
	SchemasDir    string `yaml:"schemas_dir"`
	BlocksDir     string `yaml:"blocks_dir"`
}

// API configures the remote component API used by fetch.
type API struct {
	BaseURL string `yaml:"base_url"`
	KeyEnv  string `yaml:"key_env"`
	EnvFile string `yaml:"env_file"`
}

// Project holds the contents of .blocksmith/config.yaml.
type Project struct {
	TypePrefix string           `yaml:"type_prefix"`
	Extractor  extract.Strategy `yaml:"extractor"`
	StudioURL  string           `yaml:"studio_url"`
	Layout     Layout           `yaml:"layout"`
	API        API              `yaml:"api"`
}

// Default returns the settings used when no config file exists.
func Default() Project {
	return Project{
		TypePrefix: "aceternity",
		Extractor:  extract.StrategyLexical,
		StudioURL:  "http://localhost:3005/studio",
		Layout: Layout{
			ComponentsDir: "components/aceternity",
			SchemasDir:    "sanity/schemas/blocks/aceternity",
			BlocksDir:     "components/blocks/aceternity",
		},
		API: API{
			BaseURL: "https://api.aceternity.com/v1",
			KeyEnv:  "ACETERNITY_API_KEY",
			EnvFile: ".env.local",
		},
	}
}

// Path returns the config file location under root.
func Path(root string) string {
	return filepath.Join(root, Dir, FileName)
}

// Load reads the config file under root. A missing file yields Default with
// no error; keys absent from the file keep their default values.
func Load(root string) (Project, error) {
	cfg := Default()

	data, err := os.ReadFile(Path(root))
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return Project{}, fmt.Errorf("read %s: %w", Path(root), err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Project{}, fmt.Errorf("parse %s: %w", Path(root), err)
	}
	if err := cfg.Validate(); err != nil {
		return Project{}, fmt.Errorf("%s: %w", Path(root), err)
	}
	return cfg, nil
}

// Save writes p to the config file under root, creating Dir if needed.
func (p Project) Save(root string) error {
	data, err := yaml.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.MkdirAll(filepath.Join(root, Dir), 0o755); err != nil {
		return fmt.Errorf("create %s: %w", Dir, err)
	}
	if err := os.WriteFile(Path(root), data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", Path(root), err)
	}
	return nil
}

// Validate checks values that would otherwise produce broken output.
func (p Project) Validate() error {
	if p.TypePrefix != "" && !prefixPattern.MatchString(p.TypePrefix) {
		return fmt.Errorf("type_prefix %q must be kebab-case", p.TypePrefix)
	}
	switch p.Extractor {
	case "", extract.StrategyLexical, extract.StrategyAST:
	default:
		return fmt.Errorf("extractor %q must be one of %v", p.Extractor, extract.Strategies())
	}
	for key, dir := range map[string]string{
		"layout.components_dir": p.Layout.ComponentsDir,
		"layout.schemas_dir":    p.Layout.SchemasDir,
		"layout.blocks_dir":     p.Layout.BlocksDir,
	} {
		if dir == "" {
			return fmt.Errorf("%s must not be empty", key)
		}
		if path.IsAbs(dir) || filepath.IsAbs(dir) {
			return fmt.Errorf("%s must be relative to the project root", key)
		}
	}
	return nil
}

// SourcePath is where the component's source is expected, relative to the
// project root.
func (p Project) SourcePath(cfg component.Config) string {
	return path.Join(p.Layout.ComponentsDir, cfg.Category, cfg.KebabName()+".tsx")
}

// Paths returns the project-relative locations of cfg's files.
func (p Project) Paths(cfg component.Config) synth.Paths {
	return synth.Paths{
		Schema: path.Join(p.Layout.SchemasDir, cfg.KebabName()+".ts"),
		Block:  path.Join(p.Layout.BlocksDir, cfg.KebabName()+"-block.tsx"),
		Core:   p.SourcePath(cfg),
	}
}

// SynthOptions derives naming options for generated code.
func (p Project) SynthOptions() synth.Options {
	return synth.Options{
		TypePrefix:     p.TypePrefix,
		CoreImportBase: "@/" + path.Clean(p.Layout.ComponentsDir),
	}
}
