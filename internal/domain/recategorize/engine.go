package recategorize

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/rpggio/focuslog/internal/domain/activity"
	"github.com/rpggio/focuslog/internal/domain/category"
	"github.com/rpggio/focuslog/internal/observability"
	"github.com/rpggio/focuslog/internal/repository"
)

// Engine moves every sample of one activity in a window to a new category.
type Engine struct {
	repo       Repository
	categories CategoryGetter
	logger     *slog.Logger
	now        func() time.Time
}

// Option configures an engine.
type Option func(*Engine)

// WithClock overrides the time source for lastCategorizationAt.
func WithClock(clock func() time.Time) Option {
	return func(e *Engine) {
		if clock != nil {
			e.now = clock
		}
	}
}

// NewEngine creates a recategorization engine.
func NewEngine(repo Repository, categories CategoryGetter, logger *slog.Logger, opts ...Option) *Engine {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	e := &Engine{repo: repo, categories: categories, logger: logger, now: time.Now}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Recategorize rewrites the category of the matched samples in one atomic
// update. Bad input and unusable categories are no-ops, not errors.
func (e *Engine) Recategorize(ctx context.Context, req Request) (*Result, error) {
	identifier := strings.TrimSpace(req.ActivityIdentifier)
	if strings.TrimSpace(req.UserID) == "" || req.StartDateMs >= req.EndDateMs || identifier == "" || req.NewCategoryID == "" {
		return &Result{}, nil
	}
	if req.ItemType != activity.ItemTypeApp && req.ItemType != activity.ItemTypeWebsite {
		return &Result{}, nil
	}

	cat, err := e.categories.Get(ctx, req.UserID, req.NewCategoryID)
	switch {
	case errors.Is(err, category.ErrCategoryNotFound), errors.Is(err, repository.ErrNotFound):
		return &Result{}, nil
	case err != nil:
		return nil, fmt.Errorf("loading category: %w", err)
	case cat == nil || cat.IsArchived || cat.UserID != req.UserID:
		return &Result{}, nil
	}

	filter, err := e.resolveFilter(ctx, req.UserID, req.StartDateMs, req.EndDateMs, identifier, req.ItemType)
	if err != nil {
		return nil, err
	}
	e.logger.Info("recategorizing activity",
		"user_id", req.UserID,
		"strategy", filter.Strategy,
		"identifier", identifier,
		"category_id", cat.ID,
	)

	update := Update{CategoryID: cat.ID, Reasoning: activity.ManualReasoning, At: e.now().UnixMilli()}
	updated, err := e.repo.BulkRecategorize(ctx, req.UserID, filter, update)
	if err != nil {
		return nil, fmt.Errorf("recategorizing samples: %w", err)
	}
	observability.RecordRecategorized(string(filter.Strategy), updated)

	result := &Result{UpdatedCount: updated, Strategy: filter.Strategy}
	if updated == 0 {
		return result, nil
	}
	latest, err := e.repo.LatestMatching(ctx, req.UserID, filter)
	switch {
	case err == nil:
		result.LatestEvent = latest
	case !errors.Is(err, repository.ErrNotFound):
		return nil, fmt.Errorf("loading latest sample: %w", err)
	}
	return result, nil
}

// ResolveFilter decides the match strategy without mutating anything.
func (e *Engine) ResolveFilter(ctx context.Context, userID string, start, end int64, identifier string, itemType activity.ItemType) (MatchFilter, error) {
	return e.resolveFilter(ctx, userID, start, end, strings.TrimSpace(identifier), itemType)
}

func (e *Engine) resolveFilter(ctx context.Context, userID string, start, end int64, identifier string, itemType activity.ItemType) (MatchFilter, error) {
	base := MatchFilter{Start: start, End: end}
	if itemType == activity.ItemTypeApp {
		base.Strategy = ByOwner
		base.OwnerName = identifier
		return base, nil
	}

	probe, err := e.repo.FindProbe(ctx, userID, start, end, identifier)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return MatchFilter{}, fmt.Errorf("probing samples: %w", err)
	}
	if errors.Is(err, repository.ErrNotFound) {
		probe = nil
	}

	if (probe != nil && probe.URL != "" && probe.URL == identifier) || activity.LooksLikeURL(identifier) {
		base.Strategy = ByURL
		base.URL = identifier
		return base, nil
	}

	base.Strategy = ByTitleAndOwner
	base.Title = identifier
	if probe != nil {
		base.OwnerName = probe.OwnerName
	}
	return base, nil
}
