package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/gnana997/blocksmith/pkg/classify"
	"github.com/gnana997/blocksmith/pkg/component"
	"github.com/gnana997/blocksmith/pkg/config"
	"github.com/gnana997/blocksmith/pkg/discover"
	"github.com/gnana997/blocksmith/pkg/extract"
	"github.com/gnana997/blocksmith/pkg/util"
)

const (
	statusIntegrated = "integrated"
	statusPending    = "pending"
)

// listRow is one discovered source with its analysis.
type listRow struct {
	Entry      discover.Entry
	Properties int
	Fields     int
	Status     string
	Err        error
}

func newListCmd(a *app) *cobra.Command {
	var category string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List component sources and whether they are integrated",
		Long: `List the component sources under the components directory with their
property and field counts. A component counts as integrated once its schema
file exists.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			root, project, err := a.loadProject()
			if err != nil {
				return err
			}

			m, err := discover.NewMatcher(nil, nil)
			if err != nil {
				return err
			}
			entries, err := discover.Discover(filepath.Join(root, filepath.FromSlash(project.Layout.ComponentsDir)), m, category)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintf(out, "No component sources found under %s\n", project.Layout.ComponentsDir)
				return nil
			}

			ex, cleanup, err := a.newExtractor(project.Extractor)
			if err != nil {
				return err
			}
			defer cleanup()

			rows, err := analyzeEntries(cmd.Context(), root, project, ex, entries)
			if err != nil {
				return err
			}
			fmt.Fprint(out, renderListTable(rows))
			return nil
		},
	}

	cmd.Flags().StringVar(&category, "category", "", "only list this category")
	return cmd
}

// analyzeEntries extracts every entry concurrently. Rows keep entry order;
// a failed extraction is recorded on its row rather than failing the batch.
func analyzeEntries(ctx context.Context, root string, project config.Project, ex *extract.Cached, entries []discover.Entry) ([]listRow, error) {
	rows := make([]listRow, len(entries))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(util.GetOptimalPoolSize())
	for i, e := range entries {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			row := listRow{Entry: e, Status: statusPending}
			props, err := ex.ExtractFile(e.Path)
			if err != nil {
				row.Err = err
			} else {
				row.Properties = len(props)
				row.Fields = len(classify.Fields(props))
			}

			cfg := component.Config{Name: e.Name, Category: e.Category}
			schema := filepath.Join(root, filepath.FromSlash(project.Paths(cfg).Schema))
			if _, err := os.Stat(schema); err == nil {
				row.Status = statusIntegrated
			}
			rows[i] = row
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return rows, nil
}

func renderListTable(rows []listRow) string {
	var buf bytes.Buffer

	table := tablewriter.NewWriter(&buf)
	table.SetHeader([]string{"Name", "Category", "Props", "Fields", "Status"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetColumnAlignment([]int{
		tablewriter.ALIGN_LEFT, tablewriter.ALIGN_LEFT,
		tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_LEFT,
	})

	integrated := 0
	for _, r := range rows {
		status := r.Status
		if r.Err != nil {
			status = "error: " + r.Err.Error()
		}
		if r.Status == statusIntegrated {
			integrated++
		}
		table.Append([]string{r.Entry.Name, r.Entry.Category, strconv.Itoa(r.Properties), strconv.Itoa(r.Fields), status})
	}
	table.SetFooter([]string{fmt.Sprintf("%d components", len(rows)), "", "", "", fmt.Sprintf("%d integrated", integrated)})
	table.Render()
	return buf.String()
}
