package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/gnana997/blocksmith/pkg/classify"
	"github.com/gnana997/blocksmith/pkg/component"
	"github.com/gnana997/blocksmith/pkg/integrate"
	"github.com/gnana997/blocksmith/pkg/source"
	"github.com/gnana997/blocksmith/pkg/synth"
)

type analyzeResult struct {
	Properties []string         `json:"properties"`
	Fields     []classify.Field `json:"fields"`
}

type previewResult struct {
	Properties []string `json:"properties"`
	SchemaPath string   `json:"schema_path"`
	Schema     string   `json:"schema"`
	BlockPath  string   `json:"block_path"`
	Block      string   `json:"block"`
}

type artifactOutcome struct {
	Kind    string `json:"kind"`
	Path    string `json:"path"`
	Outcome string `json:"outcome"`
	Error   string `json:"error,omitempty"`
}

type integrateResult struct {
	Component  string            `json:"component"`
	SchemaType string            `json:"schema_type"`
	SourcePath string            `json:"source_path"`
	Properties []string          `json:"properties"`
	Artifacts  []artifactOutcome `json:"artifacts"`
	Steps      []integrate.Step  `json:"steps"`
	Trace      []integrate.State `json:"trace"`
}

func (s *Server) handleAnalyzeComponent(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path := req.GetString("path", "")
	text := req.GetString("source", "")

	var props []string
	switch {
	case path != "":
		if !filepath.IsAbs(path) {
			path = filepath.Join(s.orchestrator.Root(), filepath.FromSlash(path))
		}
		var err error
		props, err = s.extractor.ExtractFile(path)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("cannot read component: %v", err)), nil
		}
	case text != "":
		props = s.extractor.Extract(source.FromString("input.tsx", text))
	default:
		return mcp.NewToolResultError("either path or source is required"), nil
	}

	return jsonResult(analyzeResult{Properties: props, Fields: classify.Fields(props)})
}

func (s *Server) handlePreviewIntegration(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, errResult := componentConfig(req)
	if errResult != nil {
		return errResult, nil
	}

	preview, err := s.orchestrator.Preview(cfg)
	if err != nil {
		return toolError(err), nil
	}

	out := previewResult{Properties: preview.Properties}
	for _, a := range preview.Artifacts {
		switch a.Kind {
		case synth.KindSchema:
			out.SchemaPath, out.Schema = a.Path, a.Text
		case synth.KindBlock:
			out.BlockPath, out.Block = a.Path, a.Text
		}
	}
	return jsonResult(out)
}

func (s *Server) handleIntegrateComponent(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, errResult := componentConfig(req)
	if errResult != nil {
		return errResult, nil
	}

	report, err := s.orchestrator.Run(cfg)
	if err != nil {
		s.logger.Warn("mcp integration failed", "component", cfg.Name, "error", err)
		return toolError(err), nil
	}

	out := integrateResult{
		Component:  report.Config.Name,
		SchemaType: report.Config.SchemaType(s.orchestrator.Project().TypePrefix),
		SourcePath: report.SourcePath,
		Properties: report.Properties,
		Steps:      report.Steps,
		Trace:      report.Trace,
	}
	for _, a := range report.Artifacts {
		out.Artifacts = append(out.Artifacts, artifactOutcome{
			Kind:    string(a.Kind),
			Path:    a.RelPath,
			Outcome: string(a.Outcome),
			Error:   a.Message(),
		})
	}
	return jsonResult(out)
}

func componentConfig(req mcp.CallToolRequest) (component.Config, *mcp.CallToolResult) {
	name, err := req.RequireString("name")
	if err != nil {
		return component.Config{}, mcp.NewToolResultError(err.Error())
	}
	displayName, err := req.RequireString("display_name")
	if err != nil {
		return component.Config{}, mcp.NewToolResultError(err.Error())
	}
	description, err := req.RequireString("description")
	if err != nil {
		return component.Config{}, mcp.NewToolResultError(err.Error())
	}
	return component.Config{
		Name:        name,
		DisplayName: displayName,
		Description: description,
		Icon:        req.GetString("icon", ""),
		Category:    req.GetString("category", ""),
	}, nil
}

// toolError reports err to the agent, with remediation when there is one.
func toolError(err error) *mcp.CallToolResult {
	var missing *integrate.MissingSourceError
	if errors.As(err, &missing) {
		return mcp.NewToolResultError(err.Error() + "\n\n" + missing.Remediation())
	}
	return mcp.NewToolResultError(err.Error())
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode result: %w", err)
	}
	return mcp.NewToolResultText(string(data)), nil
}
