package integrate

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnana997/blocksmith/pkg/component"
	"github.com/gnana997/blocksmith/pkg/config"
	"github.com/gnana997/blocksmith/pkg/emit"
	"github.com/gnana997/blocksmith/pkg/extract"
	"github.com/gnana997/blocksmith/pkg/source"
	"github.com/gnana997/blocksmith/pkg/synth"
)

const sparklesSource = `"use client";
import React from "react";

interface SparklesProps {
  particleDensity?: number;
  minSize?: number;
  maxSize?: number;
  children?: React.ReactNode;
  className?: string;
}

export function SparklesCore({ particleDensity, minSize, maxSize, children, className }: SparklesProps) {
  return <div className={className}>{children}</div>;
}
`

var sparkles = component.Config{
	Name:        "sparkles",
	DisplayName: "Sparkles Effect",
	Description: "Animated particles",
	Icon:        "Sparkles",
}

const (
	sourceRel = "components/aceternity/animations/sparkles.tsx"
	schemaRel = "sanity/schemas/blocks/aceternity/sparkles.ts"
	blockRel  = "components/blocks/aceternity/sparkles-block.tsx"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func newOrchestrator(t *testing.T, root string) *Orchestrator {
	t.Helper()
	o, err := New(root, config.Default(), extract.Lexical{}, testLogger())
	require.NoError(t, err)
	return o
}

func writeProjectFile(t *testing.T, root, rel, content string) {
	t.Helper()
	p := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
}

func readProjectFile(t *testing.T, root, rel string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(rel)))
	require.NoError(t, err)
	return string(data)
}

// listFiles returns every regular file under root, slash-separated.
func listFiles(t *testing.T, root string) []string {
	t.Helper()
	var files []string
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		rel, _ := filepath.Rel(root, p)
		files = append(files, filepath.ToSlash(rel))
		return nil
	})
	require.NoError(t, err)
	return files
}

func TestRun_Sparkles(t *testing.T) {
	root := t.TempDir()
	writeProjectFile(t, root, sourceRel, sparklesSource)

	report, err := newOrchestrator(t, root).Run(sparkles)
	require.NoError(t, err)

	assert.Equal(t, []State{
		StateStart, StateSourceCheck, StateAnalyze,
		StateSynthesizeSchema, StateSynthesizeBlock, StateReport, StateDone,
	}, report.Trace)
	assert.Equal(t, StateDone, report.Final())
	assert.Equal(t, "animations", report.Config.Category)
	assert.Equal(t, sourceRel, report.SourcePath)
	assert.Equal(t, []string{"particleDensity", "minSize", "maxSize", "children", "className"}, report.Properties)

	require.Len(t, report.Fields, 3)
	assert.Equal(t, "particleDensity", report.Fields[0].Name)
	assert.Equal(t, 100.0, report.Fields[0].Descriptor.Default)
	assert.Equal(t, 0.4, report.Fields[1].Descriptor.Default)
	assert.Equal(t, 1.0, report.Fields[2].Descriptor.Default)

	require.Len(t, report.Artifacts, 2)
	assert.Equal(t, synth.KindSchema, report.Artifacts[0].Kind)
	assert.Equal(t, schemaRel, report.Artifacts[0].RelPath)
	assert.Equal(t, emit.Written, report.Artifacts[0].Outcome)
	assert.Equal(t, blockRel, report.Artifacts[1].RelPath)
	assert.Equal(t, emit.Written, report.Artifacts[1].Outcome)

	schema := readProjectFile(t, root, schemaRel)
	order := []string{`name: "title"`, `name: "particleDensity"`, `name: "minSize"`, `name: "maxSize"`, `name: "colorVariant"`, `name: "padding"`}
	last := -1
	for _, needle := range order {
		idx := strings.Index(schema, needle)
		require.GreaterOrEqual(t, idx, 0, needle)
		assert.Greater(t, idx, last, "%s out of order", needle)
		last = idx
	}
	assert.Equal(t, 6, strings.Count(schema, "defineField("), "title, three classified fields, colorVariant and padding")

	block := readProjectFile(t, root, blockRel)
	assert.Contains(t, block, "  colorVariant,\n  padding,\n  particleDensity,\n  minSize,\n  maxSize,\n}: AceternitySparkles)")
	assert.Contains(t, block, "particleDensity={stegaClean(particleDensity)}")
	assert.Contains(t, block, "minSize={stegaClean(minSize)}")
	assert.Contains(t, block, "maxSize={stegaClean(maxSize)}")
	assert.NotContains(t, block, "colorVariant={stegaClean")
	assert.NotContains(t, block, "children")

	require.Len(t, report.Steps, 5)
	assert.Equal(t, "Register schema", report.Steps[0].Title)
	assert.Contains(t, report.Steps[0].Details, `Import: import aceternitySparkles from "./blocks/aceternity/sparkles"`)
	assert.Contains(t, report.Steps[1].Details, `Import: import SparklesBlock from "./aceternity/sparkles-block"`)
	assert.Contains(t, report.Steps[1].Details, `Add to the component map: "aceternity-sparkles": SparklesBlock`)
	assert.Contains(t, report.Steps[2].Details, `Add { type: "aceternity-sparkles" } to the blocks array`)
	assert.Equal(t, "Generate types", report.Steps[3].Title)
	assert.Contains(t, report.Steps[4].Details, "Open: http://localhost:3005/studio")
}

func TestRun_MissingSource(t *testing.T) {
	root := t.TempDir()

	report, err := newOrchestrator(t, root).Run(sparkles)
	require.Error(t, err)

	var missing *MissingSourceError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, sourceRel, missing.Path)
	assert.Contains(t, err.Error(), sourceRel)
	assert.Contains(t, missing.Remediation(), sourceRel)
	assert.Contains(t, missing.Remediation(), "blocksmith fetch sparkles")

	assert.Equal(t, []State{StateStart, StateSourceCheck, StateAborted}, report.Trace)
	assert.Empty(t, report.Artifacts)
	assert.Empty(t, listFiles(t, root), "nothing may be written")
}

func TestRun_ExistingSchemaIsSkipped(t *testing.T) {
	root := t.TempDir()
	writeProjectFile(t, root, sourceRel, sparklesSource)
	writeProjectFile(t, root, schemaRel, "// hand edited, keep me\n")

	report, err := newOrchestrator(t, root).Run(sparkles)
	require.NoError(t, err)

	assert.Equal(t, StateDone, report.Final())
	assert.Equal(t, emit.SkippedExists, report.Artifacts[0].Outcome)
	assert.Equal(t, emit.Written, report.Artifacts[1].Outcome)
	assert.Equal(t, "// hand edited, keep me\n", readProjectFile(t, root, schemaRel))
	assert.Contains(t, readProjectFile(t, root, blockRel), "export default function SparklesBlock(")
	assert.Len(t, report.Steps, 5)
}

func TestRun_RerunIsIdempotent(t *testing.T) {
	root := t.TempDir()
	writeProjectFile(t, root, sourceRel, sparklesSource)
	o := newOrchestrator(t, root)

	_, err := o.Run(sparkles)
	require.NoError(t, err)
	schemaBefore := readProjectFile(t, root, schemaRel)

	report, err := o.Run(sparkles)
	require.NoError(t, err)
	for _, a := range report.Artifacts {
		assert.Equal(t, emit.SkippedExists, a.Outcome, a.RelPath)
	}
	assert.Equal(t, schemaBefore, readProjectFile(t, root, schemaRel))
}

func TestRun_WriteFailureAborts(t *testing.T) {
	root := t.TempDir()
	writeProjectFile(t, root, sourceRel, sparklesSource)
	// A file where the blocks directory should be.
	writeProjectFile(t, root, "components/blocks/aceternity", "not a directory")

	report, err := newOrchestrator(t, root).Run(sparkles)
	require.Error(t, err)

	assert.Equal(t, StateAborted, report.Final())
	assert.NotContains(t, report.Trace, StateReport)
	require.Len(t, report.Artifacts, 2)
	assert.Equal(t, emit.Written, report.Artifacts[0].Outcome)
	assert.Equal(t, emit.Failed, report.Artifacts[1].Outcome)
	assert.Empty(t, report.Steps)
}

func TestRun_NoPropsStillIntegrates(t *testing.T) {
	root := t.TempDir()
	writeProjectFile(t, root, sourceRel, "export function SparklesCore() { return null; }\n")

	report, err := newOrchestrator(t, root).Run(sparkles)
	require.NoError(t, err)
	assert.Empty(t, report.Properties)
	assert.Empty(t, report.Fields)
	assert.Contains(t, readProjectFile(t, root, blockRel), "  colorVariant,\n  padding,\n}: AceternitySparkles)")
}

func TestRun_InvalidInput(t *testing.T) {
	root := t.TempDir()
	o := newOrchestrator(t, root)

	tests := []struct {
		name  string
		cfg   component.Config
		field string
	}{
		{"empty name", component.Config{DisplayName: "X"}, "name"},
		{"bad icon", component.Config{Name: "a", Icon: "not-an-icon"}, "icon"},
		{"bad category", component.Config{Name: "a", Category: "../etc"}, "category"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report, err := o.Run(tt.cfg)
			assert.Nil(t, report)
			var uie *component.UserInputError
			require.True(t, errors.As(err, &uie))
			assert.Equal(t, tt.field, uie.Field)
		})
	}
	assert.Empty(t, listFiles(t, root))
}

func TestRun_UsesCachedExtractor(t *testing.T) {
	root := t.TempDir()
	writeProjectFile(t, root, sourceRel, sparklesSource)

	cache, err := source.NewCache[[]string](4, testLogger())
	require.NoError(t, err)
	o, err := New(root, config.Default(), extract.NewCached(extract.Lexical{}, cache), testLogger())
	require.NoError(t, err)

	_, err = o.Preview(sparkles)
	require.NoError(t, err)
	report, err := o.Run(sparkles)
	require.NoError(t, err)

	assert.Len(t, report.Fields, 3)
	assert.Equal(t, int64(1), cache.Stats().Hits)
}

func TestPreview(t *testing.T) {
	root := t.TempDir()
	writeProjectFile(t, root, sourceRel, sparklesSource)

	preview, err := newOrchestrator(t, root).Preview(sparkles)
	require.NoError(t, err)

	require.Len(t, preview.Artifacts, 2)
	assert.Equal(t, schemaRel, preview.Artifacts[0].Path)
	assert.Contains(t, preview.Artifacts[0].Text, `name: "aceternity-sparkles",`)
	assert.Equal(t, blockRel, preview.Artifacts[1].Path)
	assert.Contains(t, preview.Artifacts[1].Text, "export default function SparklesBlock(")

	assert.Equal(t, []string{sourceRel}, listFiles(t, root), "preview writes nothing")
}

func TestPreview_MissingSource(t *testing.T) {
	_, err := newOrchestrator(t, t.TempDir()).Preview(sparkles)
	var missing *MissingSourceError
	assert.True(t, errors.As(err, &missing))
}

func TestScaffold(t *testing.T) {
	root := t.TempDir()
	o := newOrchestrator(t, root)
	o.now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }

	report, err := o.Scaffold(sparkles)
	require.NoError(t, err)

	require.Len(t, report.Artifacts, 3)
	for _, a := range report.Artifacts {
		assert.Equal(t, emit.Written, a.Outcome, a.RelPath)
	}
	assert.Equal(t, synth.KindCore, report.Artifacts[2].Kind)
	assert.Equal(t, sourceRel, report.Artifacts[2].RelPath)

	schema := readProjectFile(t, root, schemaRel)
	assert.Contains(t, schema, `name: "intensity",`)
	assert.Contains(t, schema, "validation: (rule) => rule.min(1).max(10),")
	assert.Contains(t, readProjectFile(t, root, blockRel), "intensity={stegaClean(intensity)}")
	assert.Contains(t, readProjectFile(t, root, sourceRel), "export function SparklesCore(")

	assert.Equal(t, "Add core component code", report.Steps[0].Title)
	assert.Len(t, report.Steps, 6)
	assert.Contains(t, report.Readme, "**Added:** 2026-01-02")

	// The scaffolded source now integrates on its own.
	_, err = o.Run(sparkles)
	require.NoError(t, err)
}

func TestScaffold_KeepsExistingCore(t *testing.T) {
	root := t.TempDir()
	writeProjectFile(t, root, sourceRel, sparklesSource)

	report, err := newOrchestrator(t, root).Scaffold(sparkles)
	require.NoError(t, err)

	assert.Equal(t, emit.SkippedExists, report.Artifacts[2].Outcome)
	assert.Equal(t, sparklesSource, readProjectFile(t, root, sourceRel))
}

func TestSchemaVarAndImports(t *testing.T) {
	cfg := component.Config{Name: "animated-beam"}
	assert.Equal(t, "aceternityAnimatedBeam", schemaVar(cfg, "aceternity"))
	assert.Equal(t, "animatedBeam", schemaVar(cfg, ""))

	assert.Equal(t, "./blocks/fx/beam", relImport("sanity/schemas", "sanity/schemas/blocks/fx/beam.ts"))
	assert.Equal(t, "@/app/schemas/beam", relImport("sanity/schemas", "app/schemas/beam.ts"))
}
