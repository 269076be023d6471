package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/rpggio/focuslog/internal/domain/activity"
	"github.com/rpggio/focuslog/internal/domain/recategorize"
	"github.com/rpggio/focuslog/internal/repository"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func seedSamples(t *testing.T, repo *SampleRepository, samples ...activity.Sample) {
	t.Helper()
	for i := range samples {
		s := samples[i]
		if s.Kind == "" {
			s.Kind = activity.KindWindow
		}
		require.NoError(t, repo.Create(context.Background(), "u1", &s))
	}
}

func TestSampleRepository_CreateAndListRange(t *testing.T) {
	db := NewTestDB(t)
	createCategory(t, db, "u1", "x", "X", false)
	repo := NewSampleRepository(db)
	ctx := context.Background()

	end := int64(9000)
	seedSamples(t, repo,
		activity.Sample{ID: "b", Timestamp: 2000, OwnerName: "Chrome", URL: "https://a.com", Title: "A", CategoryID: strPtr("x")},
		activity.Sample{ID: "a", Timestamp: 1000, OwnerName: "Code", Kind: activity.KindManual, EndTimestamp: &end},
		activity.Sample{ID: "c", Timestamp: 3000, OwnerName: "Slack"},
	)

	list, err := repo.ListRange(ctx, "u1", activity.RangeOptions{Start: 1000, End: 3000})
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, "a", list[0].ID)
	require.Equal(t, activity.KindManual, list[0].Kind)
	require.Equal(t, int64(9000), *list[0].EndTimestamp)
	require.Nil(t, list[0].CategoryID)
	require.Equal(t, "https://a.com", list[1].URL)
	require.Equal(t, "x", *list[1].CategoryID)

	other, err := repo.ListRange(ctx, "u2", activity.RangeOptions{Start: 0, End: 10_000})
	require.NoError(t, err)
	require.Empty(t, other)
}

func TestSampleRepository_RejectsUnknownCategory(t *testing.T) {
	db := NewTestDB(t)
	repo := NewSampleRepository(db)

	err := repo.Create(context.Background(), "u1", &activity.Sample{ID: "s1", Timestamp: 1, Kind: activity.KindWindow, CategoryID: strPtr("nope")})
	require.ErrorIs(t, err, repository.ErrForeignKeyViolation)
}

func TestSampleRepository_UpdateCategorizationAndHistory(t *testing.T) {
	db := NewTestDB(t)
	createCategory(t, db, "u1", "work", "Work", true)
	repo := NewSampleRepository(db)
	ctx := context.Background()

	seedSamples(t, repo,
		activity.Sample{ID: "s1", Timestamp: 1000, OwnerName: "Chrome", URL: "https://docs.go.dev", Title: "Docs"},
		activity.Sample{ID: "s2", Timestamp: 2000, OwnerName: "Code", Title: "main.go"},
	)
	require.NoError(t, repo.UpdateCategorization(ctx, "u1", "s1", activity.Categorization{CategoryID: strPtr("work"), Reasoning: "docs", At: 5000}))
	require.ErrorIs(t, repo.UpdateCategorization(ctx, "u1", "missing", activity.Categorization{At: 1}), repository.ErrNotFound)

	prev, err := repo.LatestCategorized(ctx, "u1", activity.Sample{ID: "new", OwnerName: "Chrome", URL: "https://docs.go.dev", Title: "Other"})
	require.NoError(t, err)
	require.Equal(t, "s1", prev.ID)
	require.Equal(t, "docs", prev.CategoryReasoning)
	require.Equal(t, int64(5000), *prev.LastCategorizationAt)

	_, err = repo.LatestCategorized(ctx, "u1", activity.Sample{ID: "new", OwnerName: "Code", Title: "main.go"})
	require.ErrorIs(t, err, repository.ErrNotFound, "uncategorized samples are not history")
}

func TestSampleRepository_ListTimestamps(t *testing.T) {
	db := NewTestDB(t)
	repo := NewSampleRepository(db)
	seedSamples(t, repo,
		activity.Sample{ID: "s1", Timestamp: 3000},
		activity.Sample{ID: "s2", Timestamp: 1000},
		activity.Sample{ID: "s3", Timestamp: 9000},
	)

	ts, err := repo.ListTimestamps(context.Background(), "u1", 1000, 3000)
	require.NoError(t, err)
	require.Equal(t, []int64{1000, 3000}, ts)
}

func recategorizeFixture(t *testing.T) (*DB, *SampleRepository) {
	t.Helper()
	db := NewTestDB(t)
	createCategory(t, db, "u1", "cat-x", "X", false)
	createCategory(t, db, "u1", "cat-y", "Y", true)
	repo := NewSampleRepository(db)
	seedSamples(t, repo,
		activity.Sample{ID: "s1", Timestamp: 0, OwnerName: "Chrome", URL: "https://a.com", Title: "A", CategoryID: strPtr("cat-x"), CategoryReasoning: "auto", Summary: "cached"},
		activity.Sample{ID: "s2", Timestamp: 5000, OwnerName: "Chrome", URL: "https://a.com", Title: "B", CategoryID: strPtr("cat-x"), CategoryReasoning: "auto"},
		activity.Sample{ID: "s3", Timestamp: 20000, OwnerName: "Slack", CategoryID: strPtr("cat-x")},
		activity.Sample{ID: "s4", Timestamp: 21000, OwnerName: "Safari", Title: "Inbox"},
		activity.Sample{ID: "s5", Timestamp: 22000, OwnerName: "Chrome", Title: "Inbox"},
		activity.Sample{ID: "s6", Timestamp: 23000, OwnerName: "Safari", Title: "Inbox", URL: "https://mail.example.com"},
	)
	return db, repo
}

func TestRecategorize_URLExampleAgainstStore(t *testing.T) {
	db, repo := recategorizeFixture(t)
	ctx := context.Background()
	engine := recategorize.NewEngine(repo, NewCategoryRepository(db), nil,
		recategorize.WithClock(func() time.Time { return time.UnixMilli(99_000) }))

	req := recategorize.Request{
		UserID: "u1", StartDateMs: 0, EndDateMs: 30_000,
		ActivityIdentifier: "https://a.com", ItemType: activity.ItemTypeWebsite, NewCategoryID: "cat-y",
	}
	result, err := engine.Recategorize(ctx, req)
	require.NoError(t, err)
	require.Equal(t, int64(2), result.UpdatedCount)
	require.Equal(t, recategorize.ByURL, result.Strategy)
	require.Equal(t, "s2", result.LatestEvent.ID)

	list, err := repo.ListRange(ctx, "u1", activity.RangeOptions{Start: 0, End: 30_000})
	require.NoError(t, err)
	byID := map[string]activity.Sample{}
	for _, s := range list {
		byID[s.ID] = s
	}
	for _, id := range []string{"s1", "s2"} {
		s := byID[id]
		require.Equal(t, "cat-y", *s.CategoryID)
		require.Equal(t, "cat-x", *s.OldCategoryID)
		require.Equal(t, "auto", s.OldCategoryReasoning)
		require.Equal(t, activity.ManualReasoning, s.CategoryReasoning)
		require.Empty(t, s.Summary)
		require.Equal(t, int64(99_000), *s.LastCategorizationAt)
	}
	require.Equal(t, "cat-x", *byID["s3"].CategoryID, "Slack sample untouched")

	again, err := engine.Recategorize(ctx, req)
	require.NoError(t, err)
	require.Equal(t, result.UpdatedCount, again.UpdatedCount, "second run matches the same rows")
	s1, err := repo.LatestMatching(ctx, "u1", recategorize.MatchFilter{Strategy: recategorize.ByURL, Start: 0, End: 1, URL: "https://a.com"})
	require.NoError(t, err)
	require.Equal(t, "cat-y", *s1.CategoryID)
}

func TestRecategorize_TitleAndOwnerAgainstStore(t *testing.T) {
	db, repo := recategorizeFixture(t)
	ctx := context.Background()
	engine := recategorize.NewEngine(repo, NewCategoryRepository(db), nil)

	result, err := engine.Recategorize(ctx, recategorize.Request{
		UserID: "u1", StartDateMs: 0, EndDateMs: 30_000,
		ActivityIdentifier: "Inbox", ItemType: activity.ItemTypeWebsite, NewCategoryID: "cat-y",
	})
	require.NoError(t, err)
	require.Equal(t, recategorize.ByTitleAndOwner, result.Strategy)
	require.Equal(t, int64(1), result.UpdatedCount, "only URL-less samples of the probed owner")
}

func TestSampleRepository_FindProbePrefersURL(t *testing.T) {
	db := NewTestDB(t)
	repo := NewSampleRepository(db)
	seedSamples(t, repo,
		activity.Sample{ID: "t", Timestamp: 2000, OwnerName: "Safari", Title: "https://x.com"},
		activity.Sample{ID: "u", Timestamp: 1000, OwnerName: "Chrome", URL: "https://x.com", Title: "X"},
	)

	probe, err := repo.FindProbe(context.Background(), "u1", 0, 5000, "https://x.com")
	require.NoError(t, err)
	require.Equal(t, "u", probe.ID)

	_, err = repo.FindProbe(context.Background(), "u1", 0, 5000, "nothing")
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestSampleRepository_TitleMatchIgnoresPadding(t *testing.T) {
	db := NewTestDB(t)
	createCategory(t, db, "u1", "cat-y", "Y", false)
	repo := NewSampleRepository(db)
	ctx := context.Background()
	seedSamples(t, repo, activity.Sample{ID: "s1", Timestamp: 1000, OwnerName: "Google Chrome", Title: " Docs  "})

	probe, err := repo.FindProbe(ctx, "u1", 0, 2000, "Docs")
	require.NoError(t, err)
	require.Equal(t, "s1", probe.ID)

	n, err := repo.BulkRecategorize(ctx, "u1", recategorize.MatchFilter{
		Strategy: recategorize.ByTitleAndOwner, Start: 0, End: 2000, Title: "Docs", OwnerName: "Google Chrome",
	}, recategorize.Update{CategoryID: "cat-y", Reasoning: activity.ManualReasoning, At: 5000})
	require.NoError(t, err)
	require.Equal(t, int64(1), n)
}
