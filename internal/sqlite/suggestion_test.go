package sqlite

import (
	"context"
	"testing"

	"github.com/rpggio/focuslog/internal/domain/activity"
	"github.com/rpggio/focuslog/internal/domain/suggestion"
	"github.com/rpggio/focuslog/internal/repository"
	"github.com/stretchr/testify/require"
)

func pendingSuggestion(id, eventID string, categoryID *string) suggestion.Suggestion {
	return suggestion.Suggestion{
		ID:                      id,
		UserID:                  "u1",
		ExternalCalendarEventID: eventID,
		StartTime:               1000,
		EndTime:                 5000,
		Name:                    "Standup",
		SuggestedCategoryID:     categoryID,
		Status:                  suggestion.StatusPending,
	}
}

func TestSuggestionRepository_InsertBatchSkipsDuplicates(t *testing.T) {
	db := NewTestDB(t)
	createCategory(t, db, "u1", "work", "Work", true)
	repo := NewSuggestionRepository(db)
	ctx := context.Background()

	first, err := repo.InsertBatch(ctx, []suggestion.Suggestion{pendingSuggestion("a", "ev1", strPtr("work"))})
	require.NoError(t, err)
	require.Equal(t, 1, first.Inserted)

	second, err := repo.InsertBatch(ctx, []suggestion.Suggestion{
		pendingSuggestion("b", "ev1", nil),
		pendingSuggestion("c", "ev2", strPtr("not-a-category")),
		pendingSuggestion("d", "ev3", nil),
	})
	require.NoError(t, err)
	require.Equal(t, 1, second.Inserted)
	require.Equal(t, 1, second.Duplicates)
	require.Len(t, second.Failed, 1)
	require.Equal(t, "ev2", second.Failed[0].ExternalID)

	existing, err := repo.ListByExternalIDs(ctx, "u1", []string{"ev1", "ev2", "ev3"})
	require.NoError(t, err)
	require.Len(t, existing, 2)

	none, err := repo.ListByExternalIDs(ctx, "u2", []string{"ev1"})
	require.NoError(t, err)
	require.Empty(t, none)
}

func TestSuggestionRepository_AcceptIsTransactional(t *testing.T) {
	db := NewTestDB(t)
	createCategory(t, db, "u1", "work", "Work", true)
	repo := NewSuggestionRepository(db)
	samples := NewSampleRepository(db)
	ctx := context.Background()

	_, err := repo.InsertBatch(ctx, []suggestion.Suggestion{pendingSuggestion("a", "ev1", strPtr("work"))})
	require.NoError(t, err)

	end := int64(5000)
	bad := &activity.Sample{ID: "m0", Timestamp: 1000, EndTimestamp: &end, Kind: activity.KindManual, CategoryID: strPtr("gone")}
	require.Error(t, repo.Accept(ctx, "u1", "a", bad, 7000))
	sg, err := repo.Get(ctx, "u1", "a")
	require.NoError(t, err)
	require.Equal(t, suggestion.StatusPending, sg.Status, "failed sample insert rolls back the status change")

	good := &activity.Sample{ID: "m1", Timestamp: 1000, EndTimestamp: &end, Kind: activity.KindManual, OwnerName: "Standup", CategoryID: strPtr("work")}
	require.NoError(t, repo.Accept(ctx, "u1", "a", good, 7000))

	sg, err = repo.Get(ctx, "u1", "a")
	require.NoError(t, err)
	require.Equal(t, suggestion.StatusAccepted, sg.Status)
	require.NotNil(t, sg.ResolvedAt)

	list, err := samples.ListRange(ctx, "u1", activity.RangeOptions{Start: 0, End: 10_000})
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, "m1", list[0].ID)

	require.ErrorIs(t, repo.Accept(ctx, "u1", "a", &activity.Sample{ID: "m2", Timestamp: 1, Kind: activity.KindManual}, 8000), repository.ErrConflict)
	require.ErrorIs(t, repo.Reject(ctx, "u1", "a", 8000), repository.ErrConflict)
	require.ErrorIs(t, repo.Reject(ctx, "u1", "missing", 8000), repository.ErrNotFound)
	require.ErrorIs(t, repo.Reject(ctx, "u2", "a", 8000), repository.ErrNotFound)
}

func TestSuggestionRepository_ListByStatus(t *testing.T) {
	db := NewTestDB(t)
	repo := NewSuggestionRepository(db)
	ctx := context.Background()

	_, err := repo.InsertBatch(ctx, []suggestion.Suggestion{
		pendingSuggestion("a", "ev1", nil),
		pendingSuggestion("b", "ev2", nil),
	})
	require.NoError(t, err)
	require.NoError(t, repo.Reject(ctx, "u1", "b", 9000))

	pending, err := repo.List(ctx, "u1", suggestion.StatusPending)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	require.Equal(t, "a", pending[0].ID)

	all, err := repo.List(ctx, "u1", "")
	require.NoError(t, err)
	require.Len(t, all, 2)
}
