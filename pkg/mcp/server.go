// Package mcp exposes component analysis and integration as MCP tools so
// coding agents can drive the pipeline.
package mcp

import (
	"log/slog"

	"github.com/mark3labs/mcp-go/server"

	"github.com/gnana997/blocksmith/pkg/extract"
	"github.com/gnana997/blocksmith/pkg/integrate"
	"github.com/gnana997/blocksmith/pkg/mcplog"
)

// Server implements the blocksmith MCP server.
type Server struct {
	mcpServer    *server.MCPServer
	orchestrator *integrate.Orchestrator
	extractor    *extract.Cached
	callLog      *mcplog.Logger // nil disables call logging
	logger       *slog.Logger
}

// NewServer creates a server over orchestrator. extractor should be the same
// cached extractor the orchestrator uses so both tools share analyses.
func NewServer(version string, orchestrator *integrate.Orchestrator, extractor *extract.Cached, callLog *mcplog.Logger, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		orchestrator: orchestrator,
		extractor:    extractor,
		callLog:      callLog,
		logger:       logger,
	}

	opts := []server.ServerOption{
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	}
	if callLog != nil {
		opts = append(opts, server.WithToolHandlerMiddleware(s.loggingMiddleware()))
	}

	s.mcpServer = server.NewMCPServer("blocksmith", version, opts...)
	s.mcpServer.AddTools(s.tools()...)

	return s
}

// ServeStdio serves MCP on stdin/stdout until the client disconnects.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}
