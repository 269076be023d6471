package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rpggio/focuslog/internal/app"
	"github.com/rpggio/focuslog/internal/config"
	"github.com/rpggio/focuslog/internal/sqlite"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	dbPath string
	userID string
	output string
	debug  bool

	since string
	start string
	end   string

	now func() time.Time
	// open is replaced in tests to share one database across commands.
	open func(ctx context.Context, opts *rootOptions) (*app.App, func(), error)
}

func newRootCmd() *cobra.Command {
	return buildRootCmd(&rootOptions{now: time.Now, open: openApp})
}

func buildRootCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "focusctl",
		Short: "Inspect and correct a focuslog activity timeline",
		Long: `focusctl reads the same database as the focuslog server.

Examples:
  focusctl summary --since 8h                       # Time per category for the last 8 hours
  focusctl summary --start 2026-03-02T09:00:00Z --end 2026-03-02T17:00:00Z
  focusctl recategorize --since 1d --identifier github.com --type website --category Work
  focusctl reconcile --since 7d                     # Suggest untracked calendar events
  focusctl categories add Reading --productive`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&opts.dbPath, "db", "", "Database path (defaults to FOCUSLOG_DB_PATH or config)")
	cmd.PersistentFlags().StringVarP(&opts.userID, "user", "u", "default", "User ID")
	cmd.PersistentFlags().StringVarP(&opts.output, "output", "o", "table", "Output format (table, json)")
	cmd.PersistentFlags().BoolVar(&opts.debug, "debug", false, "Enable debug logging")

	cmd.AddCommand(
		newSummaryCmd(opts),
		newRecategorizeCmd(opts),
		newReconcileCmd(opts),
		newCategoriesCmd(opts),
	)
	return cmd
}

func addWindowFlags(cmd *cobra.Command, opts *rootOptions, defaultSince string) {
	cmd.Flags().StringVarP(&opts.since, "since", "s", defaultSince, "Look back this long (e.g. 90m, 8h, 7d, 1d12h)")
	cmd.Flags().StringVar(&opts.start, "start", "", "Window start (RFC 3339); overrides --since")
	cmd.Flags().StringVar(&opts.end, "end", "", "Window end (RFC 3339, defaults to now)")
}

func openApp(_ context.Context, opts *rootOptions) (*app.App, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	if opts.dbPath != "" {
		cfg.DB.Path = opts.dbPath
	}

	level := slog.LevelWarn
	if opts.debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	db, err := sqlite.New(cfg.DB.Path)
	if err != nil {
		return nil, nil, err
	}
	if err := db.RunMigrations(); err != nil {
		db.Close()
		return nil, nil, err
	}
	graph, err := app.FromConfig(db, cfg, logger)
	if err != nil {
		db.Close()
		return nil, nil, err
	}
	return graph, func() { _ = db.Close() }, nil
}

// window resolves the [start, end) flags to Unix milliseconds.
func (o *rootOptions) window() (int64, int64, error) {
	end := o.now()
	if o.end != "" {
		parsed, err := time.Parse(time.RFC3339, o.end)
		if err != nil {
			return 0, 0, fmt.Errorf("invalid --end: %w", err)
		}
		end = parsed
	}

	var start time.Time
	if o.start != "" {
		parsed, err := time.Parse(time.RFC3339, o.start)
		if err != nil {
			return 0, 0, fmt.Errorf("invalid --start: %w", err)
		}
		start = parsed
	} else {
		d, err := parseLookback(o.since)
		if err != nil {
			return 0, 0, fmt.Errorf("invalid --since: %w", err)
		}
		start = end.Add(-d)
	}
	if !start.Before(end) {
		return 0, 0, fmt.Errorf("window start must be before end")
	}
	return start.UnixMilli(), end.UnixMilli(), nil
}

// parseLookback accepts time.ParseDuration syntax plus a leading day count
// such as "7d" or "1d12h".
func parseLookback(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("duration is required")
	}
	var total time.Duration
	if i := strings.Index(s, "d"); i > 0 {
		days, err := strconv.Atoi(s[:i])
		if err != nil {
			return 0, err
		}
		total = time.Duration(days) * 24 * time.Hour
		s = s[i+1:]
	}
	if s != "" {
		d, err := time.ParseDuration(s)
		if err != nil {
			return 0, err
		}
		total += d
	}
	if total <= 0 {
		return 0, fmt.Errorf("duration must be positive")
	}
	return total, nil
}

func (o *rootOptions) withApp(cmd *cobra.Command, fn func(ctx context.Context, graph *app.App, out io.Writer) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	graph, closeFn, err := o.open(ctx, o)
	if err != nil {
		return err
	}
	defer closeFn()
	return fn(ctx, graph, cmd.OutOrStdout())
}
