package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gnana997/blocksmith/pkg/component"
	"github.com/gnana997/blocksmith/pkg/config"
	"github.com/gnana997/blocksmith/pkg/emit"
	"github.com/gnana997/blocksmith/pkg/fetch"
)

func newFetchCmd(a *app) *cobra.Command {
	var (
		category string
		force    bool
	)

	cmd := &cobra.Command{
		Use:   "fetch <name>",
		Short: "Download a component's source from the component API",
		Long: `Download a component's source code and save it where 'integrate' expects it.

Requires an API key, read from the environment variable named by api.key_env
in .blocksmith/config.yaml (default ACETERNITY_API_KEY), falling back to the
project env file (default .env.local). framer-motion imports are rewritten to
motion/react. An existing source is kept unless --force is given.`,
		Args: userArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, project, err := a.loadProject()
			if err != nil {
				return err
			}

			cfg := component.Config{Name: args[0], Category: category}.Normalized()
			if err := cfg.Validate(); err != nil {
				return err
			}

			creds, err := config.ResolveCredentials(root, project.API, a.getenv)
			if err != nil {
				return err
			}
			if !creds.Present() {
				return fmt.Errorf("%w: set %s or add it to %s", fetch.ErrMissingCredential, project.API.KeyEnv, project.API.EnvFile)
			}
			a.logger.Debug("resolved api key", "source", creds.Source)

			rel := project.SourcePath(cfg)
			path := filepath.Join(root, filepath.FromSlash(rel))
			out := cmd.OutOrStdout()

			if !force {
				if _, err := os.Stat(path); err == nil {
					printResult(out, rel, emit.Result{Path: path, Outcome: emit.SkippedExists})
					fmt.Fprintln(out, "  use --force to replace it")
					printFetchNext(out, cfg)
					return nil
				}
			}

			client := fetch.NewClient(project.API.BaseURL, creds, fetch.WithLogger(a.logger))
			comp, err := client.Fetch(cmd.Context(), cfg.Name)
			if err != nil {
				return err
			}

			code := []byte(fetch.FixImports(comp.Code))

			writer := emit.NewWriter(a.logger)
			var res emit.Result
			if force {
				res = writer.Overwrite(path, code)
			} else {
				res = writer.WriteNew(path, code)
			}

			printResult(out, rel, res)
			if res.Outcome == emit.Failed {
				return res.Err
			}
			if res.Outcome == emit.SkippedExists {
				fmt.Fprintln(out, "  use --force to replace it")
			}

			if len(comp.Dependencies) > 0 {
				fmt.Fprintln(out)
				fmt.Fprintf(out, "Install dependencies:\n  npm install %s\n", strings.Join(comp.Dependencies, " "))
			}
			printFetchNext(out, cfg)
			return nil
		},
	}

	cmd.Flags().StringVar(&category, "category", component.DefaultCategory, "component folder to save into")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing source")
	return cmd
}

func printFetchNext(w io.Writer, cfg component.Config) {
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Next: blocksmith integrate %s \"<display-name>\" \"<description>\" [icon] %s\n", cfg.Name, cfg.Category)
}
