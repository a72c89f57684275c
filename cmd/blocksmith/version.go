package main

import (
	"runtime/debug"

	"github.com/spf13/cobra"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Println("blocksmith", version)
			if info, ok := debug.ReadBuildInfo(); ok {
				cmd.Println("go version", info.GoVersion)
			}
		},
	}
}
