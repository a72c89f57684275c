package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/gnana997/blocksmith/pkg/integrate"
)

const componentArgsUsage = `<name> <display-name> <description> [icon] [category]`

const integrateLongDescription = `Integrate an existing component source into the page builder.

The source must already exist at <components_dir>/<category>/<name>.tsx.
Its props are extracted and classified, then a schema and a block wrapper
are written. Files that already exist are left untouched and reported as
skipped.

Arguments:
  name          kebab-case component name, e.g. sparkles
  display-name  name shown in the CMS, e.g. "Sparkles Effect"
  description   one-line description for the CMS preview
  icon          lucide-react icon name (default Component)
  category      component folder (default animations)`

func newIntegrateCmd(a *app) *cobra.Command {
	var (
		dryRun    bool
		extractor string
	)

	cmd := &cobra.Command{
		Use:   "integrate " + componentArgsUsage,
		Short: "Generate the schema and block for an existing component",
		Long:  integrateLongDescription,
		Example: `  blocksmith integrate sparkles "Sparkles Effect" "Animated particles" Sparkles
  blocksmith integrate meteors "Meteors" "Falling meteors" --dry-run`,
		Args: userArgs(cobra.RangeArgs(3, 5)),
		RunE: func(cmd *cobra.Command, args []string) error {
			o, _, cleanup, err := a.orchestrator(extractor)
			if err != nil {
				return err
			}
			defer cleanup()

			cfg := componentArgs(args)
			out := cmd.OutOrStdout()

			if dryRun {
				preview, err := o.Preview(cfg)
				if err != nil {
					return err
				}
				printPreview(cmd, preview)
				return nil
			}

			report, err := o.Run(cfg)
			printReport(out, report)
			return err
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print the generated files instead of writing them")
	cmd.Flags().StringVar(&extractor, "extractor", "", "property extractor: lexical or ast (default from project config)")
	return cmd
}

func printPreview(cmd *cobra.Command, p *integrate.Preview) {
	out := cmd.OutOrStdout()
	header := color.New(color.FgCyan, color.Bold)
	for _, art := range p.Artifacts {
		fmt.Fprintf(out, "%s\n", header.Sprintf("--- %s (%s)", art.Path, art.Kind))
		fmt.Fprint(out, art.Text)
		fmt.Fprintln(out)
	}
}
