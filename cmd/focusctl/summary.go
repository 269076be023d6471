package main

import (
	"context"
	"fmt"
	"io"

	"github.com/rpggio/focuslog/internal/app"
	"github.com/rpggio/focuslog/internal/domain/summary"
	"github.com/spf13/cobra"
)

func newSummaryCmd(opts *rootOptions) *cobra.Command {
	var activities bool

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Show time per category for a window",
		RunE: func(cmd *cobra.Command, _ []string) error {
			start, end, err := opts.window()
			if err != nil {
				return err
			}
			return opts.withApp(cmd, func(ctx context.Context, graph *app.App, out io.Writer) error {
				sum, err := graph.Summaries.GetSummary(ctx, opts.userID, start, end)
				if err != nil {
					return err
				}
				if opts.output == "json" {
					return writeJSON(out, sum)
				}
				return renderSummary(out, sum, activities)
			})
		},
	}
	addWindowFlags(cmd, opts, "8h")
	cmd.Flags().BoolVarP(&activities, "activities", "a", false, "List the activities under each category")
	return cmd
}

func renderSummary(w io.Writer, sum *summary.Summary, activities bool) error {
	t := newTable("CATEGORY", "TIME", "SHARE", "PRODUCTIVE")
	for _, c := range sum.Categories {
		productive := ""
		if c.IsProductive {
			productive = "yes"
		}
		t.add(c.Name, formatDuration(c.TotalDurationMs), formatShare(c.TotalDurationMs, sum.TotalDurationMs), productive)
		if !activities {
			continue
		}
		for _, a := range c.Activities {
			t.add("  "+a.DisplayName, formatDuration(a.DurationMs), formatShare(a.DurationMs, sum.TotalDurationMs), string(a.ItemType))
		}
	}
	if sum.UncategorizedMs > 0 {
		t.add("(uncategorized)", formatDuration(sum.UncategorizedMs), formatShare(sum.UncategorizedMs, sum.TotalDurationMs), "")
	}
	if err := t.render(w); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "\nTotal tracked: %s\n", formatDuration(sum.TotalDurationMs))
	return err
}
