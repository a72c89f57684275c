package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/gnana997/blocksmith/pkg/config"
)

const mcpServerName = "blocksmith"

// agentConfig is a project-level MCP config file of one coding agent.
type agentConfig struct {
	DisplayName string
	// Path is relative to the project root.
	Path string
	// Marker is a directory whose presence means the agent is in use. Empty
	// means always configure.
	Marker      string
	ServersKey  string
	ExtraFields map[string]string
}

// agentConfigs lists the supported agents in display order.
var agentConfigs = []agentConfig{
	{DisplayName: "Claude Code", Path: ".mcp.json", ServersKey: "mcpServers"},
	{DisplayName: "Cursor", Path: filepath.Join(".cursor", "mcp.json"), Marker: ".cursor", ServersKey: "mcpServers"},
	{
		DisplayName: "VS Code", Path: filepath.Join(".vscode", "mcp.json"), Marker: ".vscode",
		ServersKey: "servers", ExtraFields: map[string]string{"type": "stdio"},
	},
}

func newInitCmd(a *app) *cobra.Command {
	var (
		force bool
		mcp   bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write the project config and optionally register the MCP server",
		Long: `Write .blocksmith/config.yaml with the default layout so it can be edited.
With --mcp, also add a blocksmith entry to the project MCP config of each
coding agent in use (.mcp.json always, .cursor/ and .vscode/ when present).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			root, err := a.root()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if err := writeProjectConfig(out, root, force); err != nil {
				return err
			}
			if mcp {
				return registerAgents(out, root)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing config with the defaults")
	cmd.Flags().BoolVar(&mcp, "mcp", false, "register the MCP server with detected coding agents")
	return cmd
}

func writeProjectConfig(out io.Writer, root string, force bool) error {
	rel := filepath.Join(config.Dir, config.FileName)
	if _, err := os.Stat(config.Path(root)); err == nil && !force {
		fmt.Fprintf(out, "  %s %s (already exists)\n", skipMarker(), rel)
		return nil
	}
	if err := config.Default().Save(root); err != nil {
		return err
	}
	fmt.Fprintf(out, "  %s %s\n", wroteMarker(), rel)
	return nil
}

// registerAgents adds the server entry to every detected agent config.
// Failures are reported per agent and returned together.
func registerAgents(out io.Writer, root string) error {
	var errs []error
	for _, ac := range agentConfigs {
		if ac.Marker != "" {
			if _, err := os.Stat(filepath.Join(root, ac.Marker)); err != nil {
				continue
			}
		}
		changed, err := configureAgent(root, ac)
		switch {
		case err != nil:
			fmt.Fprintf(out, "  %s %s: %v\n", errorMarker(), ac.Path, err)
			errs = append(errs, fmt.Errorf("%s: %w", ac.DisplayName, err))
		case changed:
			fmt.Fprintf(out, "  %s %s (%s)\n", wroteMarker(), ac.Path, ac.DisplayName)
		default:
			fmt.Fprintf(out, "  %s %s (%s already configured)\n", skipMarker(), ac.Path, ac.DisplayName)
		}
	}
	return errors.Join(errs...)
}

// configureAgent merges the server entry into the agent's config file.
// It reports whether the file changed.
func configureAgent(root string, ac agentConfig) (bool, error) {
	path := filepath.Join(root, ac.Path)

	existing, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return false, err
	}

	merged, err := mergeServerEntry(existing, ac.ServersKey, ac.ExtraFields)
	if err != nil || merged == nil {
		return false, err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return false, fmt.Errorf("create directory: %w", err)
	}
	if err := os.WriteFile(path, merged, 0o644); err != nil {
		return false, err
	}
	return true, nil
}

func serverEntry(extra map[string]string) map[string]any {
	entry := map[string]any{
		"command": "blocksmith",
		"args":    []any{"serve"},
	}
	for k, v := range extra {
		entry[k] = v
	}
	return entry
}

// mergeServerEntry adds the blocksmith entry under serversKey of the JSON
// document existing, which may be empty. It returns nil, nil when the entry
// is already there.
func mergeServerEntry(existing []byte, serversKey string, extra map[string]string) ([]byte, error) {
	doc := make(map[string]any)
	if len(existing) > 0 {
		if err := json.Unmarshal(existing, &doc); err != nil {
			return nil, fmt.Errorf("invalid JSON: %w", err)
		}
	}

	servers, ok := doc[serversKey].(map[string]any)
	if !ok {
		servers = make(map[string]any)
	}
	if _, exists := servers[mcpServerName]; exists {
		return nil, nil
	}

	servers[mcpServerName] = serverEntry(extra)
	doc[serversKey] = servers

	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(out, '\n'), nil
}
