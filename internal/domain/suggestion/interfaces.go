package suggestion

import (
	"context"

	"github.com/rpggio/focuslog/internal/domain/activity"
)

// Repository stores suggestions.
type Repository interface {
	ListByExternalIDs(ctx context.Context, userID string, externalIDs []string) ([]Suggestion, error)
	// InsertBatch inserts rows, skipping any whose (user, external id) pair
	// already exists. A failing row does not stop the rest. The error is
	// reserved for failures of the batch as a whole.
	InsertBatch(ctx context.Context, suggestions []Suggestion) (InsertResult, error)
	Get(ctx context.Context, userID, id string) (*Suggestion, error)
	List(ctx context.Context, userID string, status Status) ([]Suggestion, error)
	// Accept flips a pending suggestion to accepted and inserts sample in one
	// transaction. It returns repository.ErrConflict when the row is not pending.
	Accept(ctx context.Context, userID, id string, sample *activity.Sample, at int64) error
	// Reject flips a pending suggestion to rejected, or returns repository.ErrConflict.
	Reject(ctx context.Context, userID, id string, at int64) error
}

// SampleTimestamps lists the timestamps of a user's samples in [start, end].
type SampleTimestamps interface {
	ListTimestamps(ctx context.Context, userID string, start, end int64) ([]int64, error)
}

// CalendarProvider supplies events for a window.
type CalendarProvider interface {
	Events(ctx context.Context, userID string, start, end int64) ([]CalendarEvent, error)
}
