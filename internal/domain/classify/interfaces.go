package classify

import (
	"context"

	"github.com/rpggio/focuslog/internal/domain/activity"
	"github.com/rpggio/focuslog/internal/domain/category"
	"github.com/rpggio/focuslog/internal/domain/profile"
)

// Classifier is the external AI classifier. Implementations must honour ctx
// cancellation.
type Classifier interface {
	Classify(ctx context.Context, p Prompt) (*Result, error)
}

// Heuristic reports activities that are productive without asking the
// classifier.
type Heuristic func(s activity.Sample) bool

// HistoryRepository finds an earlier categorized sample for the same activity.
type HistoryRepository interface {
	LatestCategorized(ctx context.Context, userID string, s activity.Sample) (*activity.Sample, error)
}

// CategorySource returns a user's active categories, seeding defaults if needed.
type CategorySource interface {
	EnsureDefaults(ctx context.Context, userID string) ([]category.Category, error)
}

// ProfileGetter loads a user's goals.
type ProfileGetter interface {
	Get(ctx context.Context, userID string) (*profile.Profile, error)
}
