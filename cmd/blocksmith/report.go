package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/gnana997/blocksmith/pkg/emit"
	"github.com/gnana997/blocksmith/pkg/integrate"
)

func wroteMarker() string { return color.New(color.FgGreen).Sprint("WROTE") }
func skipMarker() string  { return color.New(color.FgYellow).Sprint("SKIP ") }
func errorMarker() string { return color.New(color.FgRed).Sprint("ERROR") }

func outcomeMarker(o emit.Outcome) string {
	switch o {
	case emit.Written:
		return wroteMarker()
	case emit.SkippedExists:
		return skipMarker()
	default:
		return errorMarker()
	}
}

// printResult prints one emission line.
func printResult(w io.Writer, path string, res emit.Result) {
	switch res.Outcome {
	case emit.SkippedExists:
		fmt.Fprintf(w, "  %s %s (already exists)\n", outcomeMarker(res.Outcome), path)
	case emit.Failed:
		fmt.Fprintf(w, "  %s %s: %s\n", outcomeMarker(res.Outcome), path, res.Message())
	default:
		fmt.Fprintf(w, "  %s %s\n", outcomeMarker(res.Outcome), path)
	}
}

// printReport prints a run or scaffold report. It is safe on aborted runs.
func printReport(w io.Writer, r *integrate.Report) {
	if r == nil {
		return
	}
	bold := color.New(color.Bold)
	fmt.Fprintf(w, "%s  [%s]\n", bold.Sprint(r.Config.DisplayName), r.Config.Category)
	fmt.Fprintf(w, "  source: %s\n", r.SourcePath)

	if len(r.Properties) == 0 {
		fmt.Fprintln(w, "  properties: (none found)")
	} else {
		fmt.Fprintf(w, "  properties: %s\n", strings.Join(r.Properties, ", "))
	}
	if len(r.Fields) > 0 {
		names := make([]string, len(r.Fields))
		for i, f := range r.Fields {
			names[i] = f.Name
		}
		fmt.Fprintf(w, "  fields: %s\n", strings.Join(names, ", "))
	}

	if len(r.Artifacts) > 0 {
		fmt.Fprintln(w)
		for _, a := range r.Artifacts {
			printResult(w, a.RelPath, a.Result)
		}
	}

	printSteps(w, r.Steps)

	if r.Readme != "" {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "README entry:")
		fmt.Fprintln(w, r.Readme)
	}
}

func printSteps(w io.Writer, steps []integrate.Step) {
	if len(steps) == 0 {
		return
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, color.New(color.Bold).Sprint("Next steps"))
	for i, s := range steps {
		fmt.Fprintf(w, "  %d. %s\n", i+1, s.Title)
		for _, d := range s.Details {
			fmt.Fprintf(w, "     %s\n", d)
		}
	}
}
