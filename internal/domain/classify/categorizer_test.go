package classify_test

import (
	"context"
	"errors"
	"testing"

	"github.com/rpggio/focuslog/internal/domain/activity"
	"github.com/rpggio/focuslog/internal/domain/category"
	"github.com/rpggio/focuslog/internal/domain/classify"
	"github.com/rpggio/focuslog/internal/domain/profile"
	"github.com/rpggio/focuslog/internal/repository"
	"github.com/stretchr/testify/require"
)

type stubHistory struct {
	previous *activity.Sample
	err      error
}

func (s stubHistory) LatestCategorized(context.Context, string, activity.Sample) (*activity.Sample, error) {
	return s.previous, s.err
}

type stubCategories []category.Category

func (s stubCategories) EnsureDefaults(context.Context, string) ([]category.Category, error) {
	return s, nil
}

type stubProfiles struct{ p *profile.Profile }

func (s stubProfiles) Get(context.Context, string) (*profile.Profile, error) { return s.p, nil }

func TestCategorizer_ReusesHistory(t *testing.T) {
	fake := &fakeClassifier{}
	prevCat := "cat-fun"
	c := classify.NewCategorizer(
		classify.NewGateway(fake, nil, nil),
		stubHistory{previous: &activity.Sample{CategoryID: &prevCat}},
		stubCategories(testCategories),
		nil, nil,
	)

	result, err := c.Categorize(context.Background(), activity.Sample{UserID: "u1", OwnerName: "YouTube"})
	require.NoError(t, err)
	require.NotNil(t, result)
	require.Equal(t, "cat-fun", *result.CategoryID)
	require.Equal(t, classify.HistoryReasoning, result.Reasoning)
	require.Empty(t, fake.prompts)
}

func TestCategorizer_IgnoresArchivedHistory(t *testing.T) {
	fake := &fakeClassifier{result: payload(t, map[string]any{"categoryId": "cat-work", "reasoning": "coding"})}
	prevCat := "cat-old"
	c := classify.NewCategorizer(
		classify.NewGateway(fake, nil, nil),
		stubHistory{previous: &activity.Sample{CategoryID: &prevCat}},
		stubCategories(testCategories),
		nil, nil,
	)

	result, err := c.Categorize(context.Background(), activity.Sample{UserID: "u1", OwnerName: "Code"})
	require.NoError(t, err)
	require.Equal(t, "cat-work", *result.CategoryID)
	require.Len(t, fake.prompts, 1)
}

func TestCategorizer_UsesProfile(t *testing.T) {
	fake := &fakeClassifier{result: payload(t, map[string]any{"categoryId": nil, "reasoning": "unsure"})}
	c := classify.NewCategorizer(
		classify.NewGateway(fake, editorAllowList(), nil),
		stubHistory{err: repository.ErrNotFound},
		stubCategories(testCategories),
		stubProfiles{p: &profile.Profile{DailyGoal: "write docs", MultiPurposeApps: []string{"Code"}}},
		nil,
	)

	result, err := c.Categorize(context.Background(), activity.Sample{UserID: "u1", OwnerName: "Code"})
	require.NoError(t, err)
	require.Nil(t, result)
	require.Len(t, fake.prompts, 1, "multi-purpose app must skip the fast path")
	require.Contains(t, fake.prompts[0].User, "write docs")
}

func TestCategorizer_HistoryErrorFallsThrough(t *testing.T) {
	c := classify.NewCategorizer(
		classify.NewGateway(nil, editorAllowList(), nil),
		stubHistory{err: errors.New("db locked")},
		stubCategories(testCategories),
		nil, nil,
	)

	result, err := c.Categorize(context.Background(), activity.Sample{UserID: "u1", OwnerName: "Code"})
	require.NoError(t, err)
	require.Equal(t, "cat-work", *result.CategoryID)
}
