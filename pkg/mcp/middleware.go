package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// loggingMiddleware records every tool call in the call log. Only installed
// when a call log is configured.
func (s *Server) loggingMiddleware() server.ToolHandlerMiddleware {
	return func(next server.ToolHandlerFunc) server.ToolHandlerFunc {
		return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			start := s.callLog.Now()
			result, err := next(ctx, req)
			if werr := s.callLog.Write(s.callLog.Record(start, req, result, err)); werr != nil {
				s.logger.Warn("mcp call log write failed", "error", werr)
			}
			return result, err
		}
	}
}
