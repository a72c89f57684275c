package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

const (
	toolAnalyze   = "analyze_component"
	toolPreview   = "preview_integration"
	toolIntegrate = "integrate_component"
)

func (s *Server) tools() []server.ServerTool {
	return []server.ServerTool{
		{Tool: analyzeComponentTool(), Handler: s.handleAnalyzeComponent},
		{Tool: previewIntegrationTool(), Handler: s.handlePreviewIntegration},
		{Tool: integrateComponentTool(), Handler: s.handleIntegrateComponent},
	}
}

func analyzeComponentTool() mcp.Tool {
	return mcp.NewTool(toolAnalyze,
		mcp.WithDescription("Extract a UI component's configurable properties and classify each into a CMS field. Pass either a project-relative path or the component source."),
		mcp.WithString("path", mcp.Description("Project-relative path of a .tsx component")),
		mcp.WithString("source", mcp.Description("Component source text, used when path is empty")),
	)
}

// componentArgs are shared by preview and integrate.
func componentArgs() []mcp.ToolOption {
	return []mcp.ToolOption{
		mcp.WithString("name", mcp.Required(), mcp.Description("Kebab-case component name, e.g. sparkles")),
		mcp.WithString("display_name", mcp.Required(), mcp.Description("Human name shown in the CMS")),
		mcp.WithString("description", mcp.Required(), mcp.Description("One-line description shown in the CMS preview")),
		mcp.WithString("icon", mcp.Description("lucide-react icon name (default Component)")),
		mcp.WithString("category", mcp.Description("Component category folder (default animations)")),
	}
}

func previewIntegrationTool() mcp.Tool {
	opts := append([]mcp.ToolOption{
		mcp.WithDescription("Render the CMS schema and block wrapper for a component without writing any file."),
	}, componentArgs()...)
	return mcp.NewTool(toolPreview, opts...)
}

func integrateComponentTool() mcp.Tool {
	opts := append([]mcp.ToolOption{
		mcp.WithDescription("Generate and write the CMS schema and block wrapper for a component. Existing files are never overwritten. Returns the manual registration checklist."),
	}, componentArgs()...)
	return mcp.NewTool(toolIntegrate, opts...)
}
