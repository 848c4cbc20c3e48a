package main

import (
	"fmt"
	"io"
	"slices"
	"strconv"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/garyellow/casmate/internal/engine"
)

var strict bool

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Load the catalog and report row counts and integrity issues",
	RunE: func(cmd *cobra.Command, _ []string) error {
		out := cmd.OutOrStdout()
		e, cfg, err := loadEngine(cmd.Context())
		if err != nil {
			if cfg == nil {
				return err
			}
			_, _ = color.New(color.FgRed).Fprintf(out, "Catalog could not be built from %s\n", cfg.Source().Name())
			return err
		}
		issues := renderVerify(out, e)
		if strict && issues > 0 {
			return fmt.Errorf("%d integrity issues", issues)
		}
		return nil
	},
}

func init() {
	verifyCmd.Flags().BoolVar(&strict, "strict", false, "exit non-zero when any integrity issue is found")
}

// renderVerify prints the row counts and issue tables and returns the issue count.
func renderVerify(w io.Writer, e *engine.Engine) int {
	_, _ = color.New(color.FgCyan).Fprintf(w, "Catalog from %s\n", orDash(e.Source))

	stats := e.Catalog.Stats()
	tables := make([]string, 0, len(stats))
	for k := range stats {
		tables = append(tables, k)
	}
	slices.Sort(tables)

	counts := tablewriter.NewWriter(w)
	counts.SetHeader([]string{"Table", "Rows"})
	for _, k := range tables {
		counts.Append([]string{k, strconv.Itoa(stats[k])})
	}
	counts.Render()

	issues := e.Catalog.Issues()
	if len(issues) == 0 {
		_, _ = color.New(color.FgGreen).Fprintln(w, "No integrity issues found.")
		return 0
	}

	_, _ = color.New(color.FgYellow).Fprintf(w, "%d integrity issues\n", len(issues))
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Type", "Ref", "Detail"})
	table.SetAutoWrapText(false)
	for _, is := range issues {
		table.Append([]string{string(is.Type), is.Ref, is.Detail})
	}
	table.Render()
	return len(issues)
}
