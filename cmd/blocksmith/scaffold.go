package main

import (
	"github.com/spf13/cobra"
)

func newScaffoldCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "scaffold " + componentArgsUsage,
		Short: "Create a placeholder component with its schema and block",
		Long: `Create a placeholder component source, a schema and a block wrapper for a
component whose code isn't available yet. Replace the placeholder with the
real code later (for example with 'blocksmith fetch <name> --force') and
customize the schema fields. Existing files are left untouched.`,
		Args: userArgs(cobra.RangeArgs(3, 5)),
		RunE: func(cmd *cobra.Command, args []string) error {
			o, _, cleanup, err := a.orchestrator("")
			if err != nil {
				return err
			}
			defer cleanup()

			report, err := o.Scaffold(componentArgs(args))
			printReport(cmd.OutOrStdout(), report)
			return err
		},
	}
}
