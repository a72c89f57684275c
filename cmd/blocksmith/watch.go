package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/gnana997/blocksmith/pkg/integrate"
	"github.com/gnana997/blocksmith/pkg/watch"
)

func newWatchCmd(a *app) *cobra.Command {
	var category string

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Integrate component sources as they are added",
		Long: `Watch the components directory and integrate each new or changed source.
The display name and description are derived from the file name; edit them
in the generated schema afterwards. Existing schema and block files are
never overwritten. Stop with Ctrl-C.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			o, _, cleanup, err := a.orchestrator("")
			if err != nil {
				return err
			}
			defer cleanup()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return watchComponents(ctx, cmd.OutOrStdout(), o, category, a.logger)
		},
	}

	cmd.Flags().StringVar(&category, "category", "", "only integrate this category")
	return cmd
}

// watchComponents runs the watcher until ctx is done.
func watchComponents(ctx context.Context, out io.Writer, o *integrate.Orchestrator, category string, logger *slog.Logger) error {
	componentsDir := o.Project().Layout.ComponentsDir

	var outMu sync.Mutex
	w, err := watch.New(filepath.Join(o.Root(), filepath.FromSlash(componentsDir)), o, watch.Options{
		Category: category,
		OnResult: func(r watch.Result) {
			outMu.Lock()
			defer outMu.Unlock()
			printReport(out, r.Report)
			if r.Err != nil {
				printError(out, nil, r.Err)
			}
			fmt.Fprintln(out)
		},
	}, logger)
	if err != nil {
		return err
	}
	if err := w.Start(); err != nil {
		return err
	}

	outMu.Lock()
	fmt.Fprintf(out, "Watching %s for component sources (Ctrl-C to stop)\n\n", componentsDir)
	outMu.Unlock()

	<-ctx.Done()
	return w.Stop()
}
