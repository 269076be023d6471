package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/rpggio/focuslog/internal/app"
	"github.com/rpggio/focuslog/internal/domain/suggestion"
	"github.com/spf13/cobra"
)

func newReconcileCmd(opts *rootOptions) *cobra.Command {
	var list bool

	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Suggest calendar events that were not tracked",
		Long: `Reads events from the configured calendar file (calendar.events_path or
FOCUSLOG_CALENDAR_EVENTS_PATH) and records a pending suggestion for each past
event that overlaps no tracked activity.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			start, end, err := opts.window()
			if err != nil {
				return err
			}
			return opts.withApp(cmd, func(ctx context.Context, graph *app.App, out io.Writer) error {
				result, err := graph.Suggestions.ReconcileRange(ctx, opts.userID, start, end)
				if err != nil {
					return err
				}
				if !list {
					if opts.output == "json" {
						return writeJSON(out, result)
					}
					_, err = fmt.Fprintf(out, "Created %d suggestion(s) from %d eligible event(s), %d skipped\n",
						result.Created, result.Eligible, result.Skipped)
					return err
				}

				pending, err := graph.Suggestions.List(ctx, opts.userID, suggestion.StatusPending)
				if err != nil {
					return err
				}
				if opts.output == "json" {
					return writeJSON(out, pending)
				}
				t := newTable("ID", "EVENT", "START", "DURATION")
				for _, s := range pending {
					t.add(s.ID, s.Name, time.UnixMilli(s.StartTime).Format("2006-01-02 15:04"), formatDuration(s.EndTime-s.StartTime))
				}
				return t.render(out)
			})
		},
	}
	addWindowFlags(cmd, opts, "7d")
	cmd.Flags().BoolVarP(&list, "list", "l", false, "List pending suggestions after reconciling")
	return cmd
}
