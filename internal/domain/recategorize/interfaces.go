package recategorize

import (
	"context"

	"github.com/rpggio/focuslog/internal/domain/activity"
	"github.com/rpggio/focuslog/internal/domain/category"
)

// Repository is the sample store as seen by the engine.
type Repository interface {
	// FindProbe returns one sample in [start, end) whose url or title equals
	// identifier, preferring URL matches. It returns repository.ErrNotFound
	// when nothing matches.
	FindProbe(ctx context.Context, userID string, start, end int64, identifier string) (*activity.Sample, error)
	// BulkRecategorize applies update to every sample matching filter in a
	// single statement and returns the number of rows changed.
	BulkRecategorize(ctx context.Context, userID string, filter MatchFilter, update Update) (int64, error)
	// LatestMatching returns the most recent sample matching filter.
	LatestMatching(ctx context.Context, userID string, filter MatchFilter) (*activity.Sample, error)
}

// CategoryGetter loads one category.
type CategoryGetter interface {
	Get(ctx context.Context, userID, id string) (*category.Category, error)
}
