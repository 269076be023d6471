package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/rpggio/focuslog/internal/app"
	"github.com/rpggio/focuslog/internal/domain/category"
	"github.com/spf13/cobra"
)

func newCategoriesCmd(opts *rootOptions) *cobra.Command {
	var archived bool

	cmd := &cobra.Command{
		Use:     "categories",
		Aliases: []string{"cat"},
		Short:   "List categories",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.withApp(cmd, func(ctx context.Context, graph *app.App, out io.Writer) error {
				if _, err := graph.Categories.EnsureDefaults(ctx, opts.userID); err != nil {
					return err
				}
				categories, err := graph.Categories.List(ctx, opts.userID, archived)
				if err != nil {
					return err
				}
				if opts.output == "json" {
					return writeJSON(out, categories)
				}
				t := newTable("ID", "NAME", "COLOR", "FLAGS")
				for _, c := range categories {
					t.add(c.ID, c.Name, c.Color, categoryFlags(c))
				}
				return t.render(out)
			})
		},
	}
	cmd.Flags().BoolVar(&archived, "archived", false, "Include archived categories")
	cmd.AddCommand(newCategoryAddCmd(opts), newCategoryArchiveCmd(opts))
	return cmd
}

func newCategoryAddCmd(opts *rootOptions) *cobra.Command {
	var req category.CreateRequest

	cmd := &cobra.Command{
		Use:   "add NAME",
		Short: "Create a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req.Name = args[0]
			return opts.withApp(cmd, func(ctx context.Context, graph *app.App, out io.Writer) error {
				created, err := graph.Categories.Create(ctx, opts.userID, req)
				if err != nil {
					return err
				}
				if opts.output == "json" {
					return writeJSON(out, created)
				}
				_, err = fmt.Fprintf(out, "Created %s (%s)\n", created.Name, created.ID)
				return err
			})
		},
	}
	cmd.Flags().StringVar(&req.Color, "color", "", "Hex color, e.g. #34C759")
	cmd.Flags().BoolVar(&req.IsProductive, "productive", false, "Count time in this category as productive")
	cmd.Flags().BoolVar(&req.IsLikelyToBeOffline, "offline", false, "Activities in this category usually happen away from the computer")
	return cmd
}

func newCategoryArchiveCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "archive NAME|ID",
		Short: "Archive a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withApp(cmd, func(ctx context.Context, graph *app.App, out io.Writer) error {
				cat, err := findCategory(ctx, graph, opts.userID, args[0])
				if err != nil {
					return err
				}
				if err := graph.Categories.Archive(ctx, opts.userID, cat.ID); err != nil {
					return err
				}
				_, err = fmt.Fprintf(out, "Archived %s\n", cat.Name)
				return err
			})
		},
	}
}

func categoryFlags(c category.Category) string {
	var flags []string
	if c.IsProductive {
		flags = append(flags, "productive")
	}
	if c.IsDefault {
		flags = append(flags, "default")
	}
	if c.IsLikelyToBeOffline {
		flags = append(flags, "offline")
	}
	if c.IsArchived {
		flags = append(flags, "archived")
	}
	return strings.Join(flags, ",")
}
