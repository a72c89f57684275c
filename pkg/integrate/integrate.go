// Package integrate drives one component through the pipeline: check the
// source exists, extract and classify its properties, synthesize and emit
// the schema and block, then report the manual registration steps.
package integrate

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/gnana997/blocksmith/pkg/classify"
	"github.com/gnana997/blocksmith/pkg/component"
	"github.com/gnana997/blocksmith/pkg/config"
	"github.com/gnana997/blocksmith/pkg/emit"
	"github.com/gnana997/blocksmith/pkg/extract"
	"github.com/gnana997/blocksmith/pkg/source"
	"github.com/gnana997/blocksmith/pkg/synth"
)

// State is a stage of one run.
type State string

const (
	StateStart            State = "start"
	StateSourceCheck      State = "source-check"
	StateAnalyze          State = "analyze"
	StateSynthesizeSchema State = "synthesize-schema"
	StateSynthesizeBlock  State = "synthesize-block"
	StateReport           State = "report"
	StateDone             State = "done"
	StateAborted          State = "aborted"
)

// ArtifactResult is the emission outcome of one generated file.
type ArtifactResult struct {
	Kind synth.ArtifactKind `json:"kind" yaml:"kind"`
	// RelPath is relative to the project root.
	RelPath string `json:"rel_path" yaml:"rel_path"`
	emit.Result
}

// Report is everything a run produced.
type Report struct {
	Config     component.Config `json:"config" yaml:"config"`
	SourcePath string           `json:"source_path" yaml:"source_path"`
	Properties []string         `json:"properties" yaml:"properties"`
	Fields     []classify.Field `json:"fields" yaml:"fields"`
	Artifacts  []ArtifactResult `json:"artifacts" yaml:"artifacts"`
	Steps      []Step           `json:"steps" yaml:"steps"`
	Trace      []State          `json:"trace" yaml:"trace"`
	// Readme is only set by Scaffold.
	Readme string `json:"readme,omitempty" yaml:"readme,omitempty"`
}

// Final returns the last state reached.
func (r *Report) Final() State {
	if len(r.Trace) == 0 {
		return StateStart
	}
	return r.Trace[len(r.Trace)-1]
}

// Preview is the in-memory result of a run that writes nothing.
type Preview struct {
	Config     component.Config `json:"config" yaml:"config"`
	SourcePath string           `json:"source_path" yaml:"source_path"`
	Properties []string         `json:"properties" yaml:"properties"`
	Fields     []classify.Field `json:"fields" yaml:"fields"`
	Artifacts  []synth.Artifact `json:"artifacts" yaml:"artifacts"`
}

// fileExtractor is implemented by extractors that cache per-file results.
type fileExtractor interface {
	ExtractFile(path string) ([]string, error)
}

// Orchestrator runs integrations against one project root. A run is
// strictly sequential; separate runs may share an Orchestrator.
type Orchestrator struct {
	root      string
	project   config.Project
	extractor extract.Extractor
	synth     *synth.Synthesizer
	writer    *emit.Writer
	logger    *slog.Logger
	now       func() time.Time
}

// New creates an Orchestrator for the project at root.
func New(root string, project config.Project, extractor extract.Extractor, logger *slog.Logger) (*Orchestrator, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if extractor == nil {
		extractor = extract.Lexical{}
	}
	s, err := synth.New(project.SynthOptions())
	if err != nil {
		return nil, err
	}
	return &Orchestrator{
		root:      root,
		project:   project,
		extractor: extractor,
		synth:     s,
		writer:    emit.NewWriter(logger),
		logger:    logger,
		now:       time.Now,
	}, nil
}

// Project returns the project settings in use.
func (o *Orchestrator) Project() config.Project {
	return o.project
}

// Root returns the project root.
func (o *Orchestrator) Root() string {
	return o.root
}

func (o *Orchestrator) abs(rel string) string {
	return filepath.Join(o.root, filepath.FromSlash(rel))
}

// run tracks the state machine of one integration.
type run struct {
	o      *Orchestrator
	report *Report
}

func (r *run) enter(s State) {
	r.report.Trace = append(r.report.Trace, s)
	r.o.logger.Debug("integration state", "component", r.report.Config.Name, "state", string(s))
}

func (r *run) abort(err error) (*Report, error) {
	r.enter(StateAborted)
	return r.report, err
}

// prepare normalizes and validates cfg. Invalid input fails before any I/O.
func prepare(cfg component.Config) (component.Config, error) {
	cfg = cfg.Normalized()
	if err := cfg.Validate(); err != nil {
		return component.Config{}, err
	}
	return cfg, nil
}

// Run integrates one component. Existing target files are skipped, not
// overwritten, and do not fail the run. The returned report is non-nil
// whenever cfg is valid, including on abort.
func (o *Orchestrator) Run(cfg component.Config) (*Report, error) {
	cfg, err := prepare(cfg)
	if err != nil {
		return nil, err
	}

	r := &run{o: o, report: &Report{Config: cfg, SourcePath: o.project.SourcePath(cfg)}}
	r.enter(StateStart)

	r.enter(StateSourceCheck)
	if err := o.checkSource(cfg); err != nil {
		return r.abort(err)
	}

	r.enter(StateAnalyze)
	props, err := o.analyze(r.report.SourcePath)
	if err != nil {
		return r.abort(err)
	}
	r.report.Properties = props
	r.report.Fields = classify.Fields(props)
	o.logger.Info("analyzed component",
		"component", cfg.Name,
		"properties", len(props),
		"fields", len(r.report.Fields))

	paths := o.project.Paths(cfg)

	r.enter(StateSynthesizeSchema)
	schema, err := o.synth.Schema(cfg, r.report.Fields)
	if err != nil {
		return r.abort(err)
	}
	res := o.emit(synth.KindSchema, paths.Schema, schema)
	r.report.Artifacts = append(r.report.Artifacts, res)
	if res.Outcome == emit.Failed {
		return r.abort(res.Err)
	}

	r.enter(StateSynthesizeBlock)
	block, err := o.synth.Block(cfg, props)
	if err != nil {
		return r.abort(err)
	}
	res = o.emit(synth.KindBlock, paths.Block, block)
	r.report.Artifacts = append(r.report.Artifacts, res)
	if res.Outcome == emit.Failed {
		return r.abort(res.Err)
	}

	r.enter(StateReport)
	r.report.Steps = o.registrationSteps(cfg, paths)

	r.enter(StateDone)
	return r.report, nil
}

// Preview computes the artifacts Run would write, without writing.
func (o *Orchestrator) Preview(cfg component.Config) (*Preview, error) {
	cfg, err := prepare(cfg)
	if err != nil {
		return nil, err
	}

	p := &Preview{Config: cfg, SourcePath: o.project.SourcePath(cfg)}
	if err := o.checkSource(cfg); err != nil {
		return nil, err
	}

	props, err := o.analyze(p.SourcePath)
	if err != nil {
		return nil, err
	}
	p.Properties = props
	p.Fields = classify.Fields(props)

	paths := o.project.Paths(cfg)
	schema, err := o.synth.Schema(cfg, p.Fields)
	if err != nil {
		return nil, err
	}
	block, err := o.synth.Block(cfg, props)
	if err != nil {
		return nil, err
	}

	p.Artifacts = []synth.Artifact{
		{Kind: synth.KindSchema, Path: paths.Schema, Text: schema},
		{Kind: synth.KindBlock, Path: paths.Block, Text: block},
	}
	return p, nil
}

// Scaffold writes a schema and block for the default property set, plus a
// placeholder core component, for a component whose source doesn't exist
// yet. Each file is skipped if already present.
func (o *Orchestrator) Scaffold(cfg component.Config) (*Report, error) {
	cfg, err := prepare(cfg)
	if err != nil {
		return nil, err
	}

	paths := o.project.Paths(cfg)
	report := &Report{
		Config:     cfg,
		SourcePath: paths.Core,
		Properties: append([]string(nil), synth.ScaffoldProperties...),
		Fields:     classify.Fields(synth.ScaffoldProperties),
	}

	schema, err := o.synth.Schema(cfg, report.Fields)
	if err != nil {
		return nil, err
	}
	block, err := o.synth.Block(cfg, report.Properties)
	if err != nil {
		return nil, err
	}
	core, err := o.synth.Placeholder(cfg)
	if err != nil {
		return nil, err
	}

	for _, a := range []synth.Artifact{
		{Kind: synth.KindSchema, Path: paths.Schema, Text: schema},
		{Kind: synth.KindBlock, Path: paths.Block, Text: block},
		{Kind: synth.KindCore, Path: paths.Core, Text: core},
	} {
		res := o.emit(a.Kind, a.Path, a.Text)
		report.Artifacts = append(report.Artifacts, res)
		if res.Outcome == emit.Failed {
			return report, res.Err
		}
	}

	report.Steps = o.scaffoldSteps(cfg, paths)
	report.Readme, err = o.synth.ReadmeEntry(cfg, paths, o.now())
	if err != nil {
		return report, err
	}
	return report, nil
}

func (o *Orchestrator) checkSource(cfg component.Config) error {
	rel := o.project.SourcePath(cfg)
	info, err := os.Stat(o.abs(rel))
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return &MissingSourceError{Name: cfg.Name, Path: rel}
	case err != nil:
		return fmt.Errorf("check source %s: %w", rel, err)
	case info.IsDir():
		return &MissingSourceError{Name: cfg.Name, Path: rel}
	}
	return nil
}

func (o *Orchestrator) analyze(rel string) ([]string, error) {
	if fe, ok := o.extractor.(fileExtractor); ok {
		return fe.ExtractFile(o.abs(rel))
	}
	src, err := source.Read(o.abs(rel), o.logger)
	if err != nil {
		return nil, err
	}
	return o.extractor.Extract(src), nil
}

func (o *Orchestrator) emit(kind synth.ArtifactKind, rel, text string) ArtifactResult {
	return ArtifactResult{
		Kind:    kind,
		RelPath: rel,
		Result:  o.writer.WriteNew(o.abs(rel), []byte(text)),
	}
}
