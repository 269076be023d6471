// Package app wires the stores and domain services into one graph shared by
// the server, the CLI and the end-to-end tests.
package app

import (
	"io"
	"log/slog"
	"time"

	"github.com/rpggio/focuslog/internal/domain/activity"
	"github.com/rpggio/focuslog/internal/domain/block"
	"github.com/rpggio/focuslog/internal/domain/category"
	"github.com/rpggio/focuslog/internal/domain/classify"
	"github.com/rpggio/focuslog/internal/domain/profile"
	"github.com/rpggio/focuslog/internal/domain/recategorize"
	"github.com/rpggio/focuslog/internal/domain/suggestion"
	"github.com/rpggio/focuslog/internal/domain/summary"
	"github.com/rpggio/focuslog/internal/mcp"
	"github.com/rpggio/focuslog/internal/sqlite"
)

// Options configure the service graph. Zero values are valid: no classifier
// means every slow-path call falls back to the safe default.
type Options struct {
	Classifier        classify.Classifier
	Heuristic         classify.Heuristic
	ClassifierTimeout time.Duration
	Calendar          suggestion.CalendarProvider
	Concurrency       int
	Clock             func() time.Time
	Logger            *slog.Logger
}

// App holds every service built on one database.
type App struct {
	Samples      *activity.Service
	Blocks       *block.Merger
	Categories   *category.Service
	Profiles     *profile.Service
	Categorizer  *classify.Categorizer
	Recategorize *recategorize.Engine
	Suggestions  *suggestion.Service
	Summaries    *summary.Service
	APIKeys      *sqlite.APIKeyRepository
}

// New builds the service graph on db.
func New(db *sqlite.DB, opts Options) *App {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}

	sampleRepo := sqlite.NewSampleRepository(db)
	blockRepo := sqlite.NewBlockRepository(db)
	categoryRepo := sqlite.NewCategoryRepository(db)
	profileRepo := sqlite.NewProfileRepository(db)
	suggestionRepo := sqlite.NewSuggestionRepository(db)

	categorySvc := category.NewService(categoryRepo, logger)
	profileSvc := profile.NewService(profileRepo, logger)

	var gatewayOpts []classify.GatewayOption
	if opts.ClassifierTimeout > 0 {
		gatewayOpts = append(gatewayOpts, classify.WithTimeout(opts.ClassifierTimeout))
	}
	gateway := classify.NewGateway(opts.Classifier, opts.Heuristic, logger, gatewayOpts...)
	categorizer := classify.NewCategorizer(gateway, sampleRepo, categorySvc, profileSvc, logger)

	merger := block.NewMerger(blockRepo, categorySvc, logger)

	suggestionOpts := []suggestion.Option{
		suggestion.WithClock(clock),
		suggestion.WithProfiles(profileSvc),
	}
	if opts.Concurrency > 0 {
		suggestionOpts = append(suggestionOpts, suggestion.WithConcurrency(opts.Concurrency))
	}
	if opts.Calendar != nil {
		suggestionOpts = append(suggestionOpts, suggestion.WithCalendar(opts.Calendar))
	}

	return &App{
		Samples:      activity.NewService(sampleRepo, merger, categorizer, logger, activity.WithClock(clock)),
		Blocks:       merger,
		Categories:   categorySvc,
		Profiles:     profileSvc,
		Categorizer:  categorizer,
		Recategorize: recategorize.NewEngine(sampleRepo, categorySvc, logger, recategorize.WithClock(clock)),
		Suggestions:  suggestion.NewService(suggestionRepo, sampleRepo, gateway, categorySvc, logger, suggestionOpts...),
		Summaries:    summary.NewService(sampleRepo, categorySvc, summary.WithClock(clock)),
		APIKeys:      sqlite.NewAPIKeyRepository(db),
	}
}

// MCPServices exposes the graph to the MCP surface.
func (a *App) MCPServices() mcp.Services {
	return mcp.Services{
		Samples:      a.Samples,
		Distraction:  a.Categorizer,
		Recategorize: a.Recategorize,
		Suggestions:  a.Suggestions,
		Summaries:    a.Summaries,
		Categories:   a.Categories,
		Profiles:     a.Profiles,
	}
}
