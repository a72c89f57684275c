package main

import (
	"github.com/spf13/cobra"

	mcpserver "github.com/gnana997/blocksmith/pkg/mcp"
	"github.com/gnana997/blocksmith/pkg/mcplog"
)

const mcpLogKey = "mcp.log"

func newServeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server on stdio",
		Long: `Serve the analyze_component, preview_integration and integrate_component
tools over the Model Context Protocol on stdin/stdout, for coding agents.
Logs go to stderr or --log-file; stdout carries the protocol only.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			o, ex, cleanup, err := a.orchestrator("")
			if err != nil {
				return err
			}
			defer cleanup()

			callLog, err := mcplog.NewLogger(a.v.GetString(mcpLogKey))
			if err != nil {
				return err
			}
			defer callLog.Close()

			a.logger.Info("mcp server starting", "root", o.Root())
			return mcpserver.NewServer(version, o, ex, callLog, a.logger).ServeStdio()
		},
	}

	cmd.Flags().String("mcp-log", "", "append a JSON line per tool call to this file")
	a.bindFlag(cmd.Flags().Lookup("mcp-log"), mcpLogKey)
	return cmd
}
