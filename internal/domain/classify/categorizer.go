package classify

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/rpggio/focuslog/internal/domain/activity"
	"github.com/rpggio/focuslog/internal/domain/category"
	"github.com/rpggio/focuslog/internal/repository"
)

// HistoryReasoning marks categories copied from an earlier sample.
const HistoryReasoning = "Matched previous activity"

// Categorizer assigns categories to new samples. It reuses the category of
// a previously categorized sample for the same activity before asking the
// gateway.
type Categorizer struct {
	gateway    *Gateway
	history    HistoryRepository
	categories CategorySource
	profiles   ProfileGetter
	logger     *slog.Logger
}

var _ activity.Categorizer = (*Categorizer)(nil)

// NewCategorizer creates a categorizer. history and profiles may be nil.
func NewCategorizer(gateway *Gateway, history HistoryRepository, categories CategorySource, profiles ProfileGetter, logger *slog.Logger) *Categorizer {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Categorizer{
		gateway:    gateway,
		history:    history,
		categories: categories,
		profiles:   profiles,
		logger:     logger,
	}
}

// Categorize returns a categorization for s, or nil when none applies.
func (c *Categorizer) Categorize(ctx context.Context, s activity.Sample) (*activity.Categorization, error) {
	categories, err := c.categories.EnsureDefaults(ctx, s.UserID)
	if err != nil {
		return nil, fmt.Errorf("loading categories: %w", err)
	}
	lookup := category.NewLookup(categories)

	if c.history != nil {
		previous, err := c.history.LatestCategorized(ctx, s.UserID, s)
		switch {
		case err == nil && previous != nil && previous.CategoryID != nil:
			if cat, ok := lookup[*previous.CategoryID]; ok && !cat.IsArchived {
				id := cat.ID
				return &activity.Categorization{CategoryID: &id, Reasoning: HistoryReasoning, Summary: previous.Summary}, nil
			}
		case err != nil && !errors.Is(err, repository.ErrNotFound):
			c.logger.Warn("history lookup failed", "user_id", s.UserID, "error", err)
		}
	}

	req := Request{Sample: s}
	if c.profiles != nil {
		p, err := c.profiles.Get(ctx, s.UserID)
		if err != nil {
			c.logger.Warn("profile lookup failed", "user_id", s.UserID, "error", err)
		} else if p != nil {
			req.Goals = Goals{LifeGoal: p.LifeGoal, WeeklyGoal: p.WeeklyGoal, DailyGoal: p.DailyGoal}
			req.MultiPurpose = p.IsMultiPurpose(s.OwnerName)
		}
	}

	verdict := c.gateway.SuggestCategory(ctx, req, categories)
	if verdict.CategoryID == nil {
		return nil, nil
	}
	return &activity.Categorization{CategoryID: verdict.CategoryID, Reasoning: verdict.Reasoning}, nil
}

// CheckDistraction is the distraction check for a sample with the user's goals.
func (c *Categorizer) CheckDistraction(ctx context.Context, s activity.Sample) DistractionVerdict {
	req := Request{Sample: s}
	if c.profiles != nil {
		if p, err := c.profiles.Get(ctx, s.UserID); err == nil && p != nil {
			req.Goals = Goals{LifeGoal: p.LifeGoal, WeeklyGoal: p.WeeklyGoal, DailyGoal: p.DailyGoal}
			req.MultiPurpose = p.IsMultiPurpose(s.OwnerName)
		}
	}
	return c.gateway.CheckDistraction(ctx, req)
}
