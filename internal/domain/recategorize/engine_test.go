package recategorize_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rpggio/focuslog/internal/domain/activity"
	"github.com/rpggio/focuslog/internal/domain/category"
	"github.com/rpggio/focuslog/internal/domain/recategorize"
	"github.com/rpggio/focuslog/internal/repository"
	"github.com/rpggio/focuslog/internal/repository/mocks"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const userID = "u1"

var fixedNow = time.UnixMilli(1_700_000_000_000)

func newEngine(samples *mocks.SampleRepository, categories *mocks.CategoryRepository) *recategorize.Engine {
	return recategorize.NewEngine(samples, categories, nil, recategorize.WithClock(func() time.Time { return fixedNow }))
}

func activeCategory(categories *mocks.CategoryRepository, ctx context.Context) {
	categories.On("Get", ctx, userID, "cat-y").Return(&category.Category{ID: "cat-y", UserID: userID, Name: "Y"}, nil)
}

func TestRecategorize_ByURL(t *testing.T) {
	ctx := context.Background()
	samples := &mocks.SampleRepository{}
	categories := &mocks.CategoryRepository{}
	activeCategory(categories, ctx)

	samples.On("FindProbe", ctx, userID, int64(0), int64(30000), "https://a.com").
		Return(&activity.Sample{ID: "s1", OwnerName: "Chrome", URL: "https://a.com", Title: "A"}, nil)

	want := recategorize.MatchFilter{Strategy: recategorize.ByURL, Start: 0, End: 30000, URL: "https://a.com"}
	update := recategorize.Update{CategoryID: "cat-y", Reasoning: activity.ManualReasoning, At: fixedNow.UnixMilli()}
	samples.On("BulkRecategorize", ctx, userID, want, update).Return(int64(2), nil)
	latest := &activity.Sample{ID: "s2", Timestamp: 5000}
	samples.On("LatestMatching", ctx, userID, want).Return(latest, nil)

	result, err := newEngine(samples, categories).Recategorize(ctx, recategorize.Request{
		UserID: userID, StartDateMs: 0, EndDateMs: 30000,
		ActivityIdentifier: "https://a.com", ItemType: activity.ItemTypeWebsite, NewCategoryID: "cat-y",
	})
	require.NoError(t, err)
	require.Equal(t, int64(2), result.UpdatedCount)
	require.Equal(t, recategorize.ByURL, result.Strategy)
	require.Equal(t, latest, result.LatestEvent)
	samples.AssertExpectations(t)
}

func TestRecategorize_ByTitleAndOwner(t *testing.T) {
	ctx := context.Background()
	samples := &mocks.SampleRepository{}
	categories := &mocks.CategoryRepository{}
	activeCategory(categories, ctx)

	samples.On("FindProbe", ctx, userID, int64(0), int64(100), "Inbox (3)").
		Return(&activity.Sample{ID: "s1", OwnerName: "Safari", Title: "Inbox (3)"}, nil)
	want := recategorize.MatchFilter{Strategy: recategorize.ByTitleAndOwner, Start: 0, End: 100, Title: "Inbox (3)", OwnerName: "Safari"}
	samples.On("BulkRecategorize", ctx, userID, want, mock.Anything).Return(int64(1), nil)
	samples.On("LatestMatching", ctx, userID, want).Return(&activity.Sample{ID: "s1"}, nil)

	result, err := newEngine(samples, categories).Recategorize(ctx, recategorize.Request{
		UserID: userID, StartDateMs: 0, EndDateMs: 100,
		ActivityIdentifier: "Inbox (3)", ItemType: activity.ItemTypeWebsite, NewCategoryID: "cat-y",
	})
	require.NoError(t, err)
	require.Equal(t, recategorize.ByTitleAndOwner, result.Strategy)
	require.Equal(t, int64(1), result.UpdatedCount)
}

func TestRecategorize_StaleIdentifierMatchesNothing(t *testing.T) {
	ctx := context.Background()
	samples := &mocks.SampleRepository{}
	categories := &mocks.CategoryRepository{}
	activeCategory(categories, ctx)

	samples.On("FindProbe", ctx, userID, int64(0), int64(100), "Gone tab").Return(nil, repository.ErrNotFound)
	want := recategorize.MatchFilter{Strategy: recategorize.ByTitleAndOwner, Start: 0, End: 100, Title: "Gone tab"}
	samples.On("BulkRecategorize", ctx, userID, want, mock.Anything).Return(int64(0), nil)

	result, err := newEngine(samples, categories).Recategorize(ctx, recategorize.Request{
		UserID: userID, StartDateMs: 0, EndDateMs: 100,
		ActivityIdentifier: "Gone tab", ItemType: activity.ItemTypeWebsite, NewCategoryID: "cat-y",
	})
	require.NoError(t, err)
	require.Zero(t, result.UpdatedCount)
	require.Nil(t, result.LatestEvent)
	samples.AssertNotCalled(t, "LatestMatching", mock.Anything, mock.Anything, mock.Anything)
}

func TestRecategorize_LooksLikeURLWithoutProbe(t *testing.T) {
	ctx := context.Background()
	samples := &mocks.SampleRepository{}
	samples.On("FindProbe", ctx, userID, int64(0), int64(100), "www.example.com").Return(nil, repository.ErrNotFound)

	filter, err := newEngine(samples, &mocks.CategoryRepository{}).ResolveFilter(ctx, userID, 0, 100, "www.example.com", activity.ItemTypeWebsite)
	require.NoError(t, err)
	require.Equal(t, recategorize.ByURL, filter.Strategy)
	require.Equal(t, "www.example.com", filter.URL)
}

func TestRecategorize_ByOwnerSkipsProbe(t *testing.T) {
	ctx := context.Background()
	samples := &mocks.SampleRepository{}
	filter, err := newEngine(samples, &mocks.CategoryRepository{}).ResolveFilter(ctx, userID, 0, 100, " Slack ", activity.ItemTypeApp)
	require.NoError(t, err)
	require.Equal(t, recategorize.MatchFilter{Strategy: recategorize.ByOwner, Start: 0, End: 100, OwnerName: "Slack"}, filter)
	samples.AssertNotCalled(t, "FindProbe", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestRecategorize_NoOps(t *testing.T) {
	ctx := context.Background()
	base := recategorize.Request{
		UserID: userID, StartDateMs: 0, EndDateMs: 100,
		ActivityIdentifier: "Slack", ItemType: activity.ItemTypeApp, NewCategoryID: "cat-y",
	}

	cases := map[string]struct {
		mutate func(*recategorize.Request)
		cat    *category.Category
		err    error
	}{
		"empty range":      {mutate: func(r *recategorize.Request) { r.EndDateMs = r.StartDateMs }},
		"empty identifier": {mutate: func(r *recategorize.Request) { r.ActivityIdentifier = "  " }},
		"bad item type":    {mutate: func(r *recategorize.Request) { r.ItemType = "folder" }},
		"missing category": {err: category.ErrCategoryNotFound},
		"archived":         {cat: &category.Category{ID: "cat-y", UserID: userID, IsArchived: true}},
		"other user":       {cat: &category.Category{ID: "cat-y", UserID: "u2"}},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			samples := &mocks.SampleRepository{}
			categories := &mocks.CategoryRepository{}
			if tc.cat != nil || tc.err != nil {
				categories.On("Get", ctx, userID, "cat-y").Return(tc.cat, tc.err)
			}
			req := base
			if tc.mutate != nil {
				tc.mutate(&req)
			}

			result, err := newEngine(samples, categories).Recategorize(ctx, req)
			require.NoError(t, err)
			require.Zero(t, result.UpdatedCount)
			samples.AssertNotCalled(t, "BulkRecategorize", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestRecategorize_StoreErrorPropagates(t *testing.T) {
	ctx := context.Background()
	samples := &mocks.SampleRepository{}
	categories := &mocks.CategoryRepository{}
	activeCategory(categories, ctx)
	samples.On("BulkRecategorize", ctx, userID, mock.Anything, mock.Anything).Return(int64(0), errors.New("database is locked"))

	_, err := newEngine(samples, categories).Recategorize(ctx, recategorize.Request{
		UserID: userID, StartDateMs: 0, EndDateMs: 100,
		ActivityIdentifier: "Slack", ItemType: activity.ItemTypeApp, NewCategoryID: "cat-y",
	})
	require.Error(t, err)
}
