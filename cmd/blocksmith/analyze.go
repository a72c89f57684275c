package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/gnana997/blocksmith/pkg/classify"
	"github.com/gnana997/blocksmith/pkg/extract"
)

const (
	formatTable = "table"
	formatJSON  = "json"
	formatYAML  = "yaml"
)

// analysis is the machine-readable output of analyze.
type analysis struct {
	Path       string           `json:"path" yaml:"path"`
	Properties []string         `json:"properties" yaml:"properties"`
	Fields     []classify.Field `json:"fields" yaml:"fields"`
	// Excluded are forwarded-only props that never become fields.
	Excluded []string `json:"excluded" yaml:"excluded"`
}

func newAnalyzeCmd(a *app) *cobra.Command {
	var (
		format    string
		extractor string
	)

	cmd := &cobra.Command{
		Use:   "analyze <path>",
		Short: "Show the properties of a component and how each is classified",
		Long: `Extract the configurable properties of one component source and show the
CMS field each one would become. Nothing is written. A relative path is
resolved against --dir.`,
		Args: userArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, project, err := a.loadProject()
			if err != nil {
				return err
			}
			strategy := project.Extractor
			if extractor != "" {
				strategy = extract.Strategy(extractor)
			}

			ex, cleanup, err := a.newExtractor(strategy)
			if err != nil {
				return err
			}
			defer cleanup()

			path := args[0]
			if !filepath.IsAbs(path) {
				path = filepath.Join(root, path)
			}
			props, err := ex.ExtractFile(path)
			if err != nil {
				return err
			}

			result := analysis{
				Path:       args[0],
				Properties: props,
				Fields:     classify.Fields(props),
				Excluded:   []string{},
			}
			for _, p := range props {
				if classify.Excluded(p) {
					result.Excluded = append(result.Excluded, p)
				}
			}
			return writeAnalysis(cmd.OutOrStdout(), result, format)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", formatTable, "output format: table, json or yaml")
	cmd.Flags().StringVar(&extractor, "extractor", "", "property extractor: lexical or ast (default from project config)")
	return cmd
}

func writeAnalysis(w io.Writer, result analysis, format string) error {
	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(result); err != nil {
			return err
		}
		return enc.Close()
	case formatTable:
		fmt.Fprint(w, renderFieldTable(result))
		return nil
	default:
		return fmt.Errorf("unknown format %q (want table, json or yaml)", format)
	}
}

func renderFieldTable(result analysis) string {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "%s\n\n", result.Path)

	if len(result.Properties) == 0 {
		buf.WriteString("Properties  (none found)\n")
		return buf.String()
	}

	table := tablewriter.NewWriter(&buf)
	table.SetHeader([]string{"Property", "Label", "Type", "Group", "Default", "Validation"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetAutoWrapText(false)

	for _, f := range result.Fields {
		d := f.Descriptor
		table.Append([]string{f.Name, f.Label, string(d.Kind), string(d.Group), formatDefault(d.Default), formatConstraints(d.Constraints)})
	}
	table.Render()

	if len(result.Excluded) > 0 {
		fmt.Fprintf(&buf, "\nForwarded only: %s\n", strings.Join(result.Excluded, ", "))
	}
	return buf.String()
}

func formatDefault(v any) string {
	switch v := v.(type) {
	case nil:
		return "-"
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case string:
		return strconv.Quote(v)
	default:
		return fmt.Sprint(v)
	}
}

func formatConstraints(c *classify.Constraints) string {
	if c == nil {
		return "-"
	}
	var parts []string
	if c.Min != nil {
		parts = append(parts, "min "+strconv.FormatFloat(*c.Min, 'f', -1, 64))
	}
	if c.Max != nil {
		parts = append(parts, "max "+strconv.FormatFloat(*c.Max, 'f', -1, 64))
	}
	if len(c.Options) > 0 {
		parts = append(parts, strings.Join(c.Options, " | "))
	}
	if len(parts) == 0 {
		return "-"
	}
	return strings.Join(parts, ", ")
}
