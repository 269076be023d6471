package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/rpggio/focuslog/internal/app"
	"github.com/rpggio/focuslog/internal/domain/activity"
	"github.com/rpggio/focuslog/internal/domain/category"
	"github.com/rpggio/focuslog/internal/domain/recategorize"
	"github.com/spf13/cobra"
)

func newRecategorizeCmd(opts *rootOptions) *cobra.Command {
	var (
		identifier string
		itemType   string
		target     string
	)

	cmd := &cobra.Command{
		Use:   "recategorize",
		Short: "Move every matching activity in a window to another category",
		RunE: func(cmd *cobra.Command, _ []string) error {
			start, end, err := opts.window()
			if err != nil {
				return err
			}
			kind := activity.ItemType(itemType)
			if kind != activity.ItemTypeWebsite && kind != activity.ItemTypeApp {
				return fmt.Errorf("--type must be %q or %q", activity.ItemTypeWebsite, activity.ItemTypeApp)
			}
			return opts.withApp(cmd, func(ctx context.Context, graph *app.App, out io.Writer) error {
				cat, err := findCategory(ctx, graph, opts.userID, target)
				if err != nil {
					return err
				}
				result, err := graph.Recategorize.Recategorize(ctx, recategorize.Request{
					UserID:             opts.userID,
					StartDateMs:        start,
					EndDateMs:          end,
					ActivityIdentifier: identifier,
					ItemType:           kind,
					NewCategoryID:      cat.ID,
				})
				if err != nil {
					return err
				}
				if opts.output == "json" {
					return writeJSON(out, result)
				}
				_, err = fmt.Fprintf(out, "Moved %d sample(s) to %s (matched %s)\n", result.UpdatedCount, cat.Name, result.Strategy)
				return err
			})
		},
	}
	addWindowFlags(cmd, opts, "1d")
	cmd.Flags().StringVarP(&identifier, "identifier", "i", "", "Activity identifier: hostname, URL, page title or app name")
	cmd.Flags().StringVarP(&itemType, "type", "t", string(activity.ItemTypeWebsite), "Item type (website, app)")
	cmd.Flags().StringVarP(&target, "category", "c", "", "Target category name or ID")
	_ = cmd.MarkFlagRequired("identifier")
	_ = cmd.MarkFlagRequired("category")
	return cmd
}

// findCategory matches ref against category IDs first, then names ignoring case.
func findCategory(ctx context.Context, graph *app.App, userID, ref string) (*category.Category, error) {
	categories, err := graph.Categories.EnsureDefaults(ctx, userID)
	if err != nil {
		return nil, err
	}
	ref = strings.TrimSpace(ref)
	for i := range categories {
		if categories[i].ID == ref {
			return &categories[i], nil
		}
	}
	for i := range categories {
		if strings.EqualFold(categories[i].Name, ref) {
			return &categories[i], nil
		}
	}
	return nil, fmt.Errorf("no category named %q", ref)
}
