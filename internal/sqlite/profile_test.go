package sqlite

import (
	"context"
	"testing"

	"github.com/rpggio/focuslog/internal/domain/profile"
	"github.com/rpggio/focuslog/internal/repository"
	"github.com/stretchr/testify/require"
)

func TestProfileRepository_Upsert(t *testing.T) {
	db := NewTestDB(t)
	repo := NewProfileRepository(db)
	ctx := context.Background()

	_, err := repo.Get(ctx, "u1")
	require.ErrorIs(t, err, repository.ErrNotFound)

	require.NoError(t, repo.Upsert(ctx, &profile.Profile{UserID: "u1", DailyGoal: "write", MultiPurposeApps: []string{"Chrome"}}))
	require.NoError(t, repo.Upsert(ctx, &profile.Profile{UserID: "u1", DailyGoal: "review", MultiPurposeApps: []string{"Chrome", "Slack"}}))

	got, err := repo.Get(ctx, "u1")
	require.NoError(t, err)
	require.Equal(t, "review", got.DailyGoal)
	require.Equal(t, []string{"Chrome", "Slack"}, got.MultiPurposeApps)
	require.True(t, got.IsMultiPurpose("slack"))
}

func TestProfileService_PartialUpdate(t *testing.T) {
	db := NewTestDB(t)
	svc := profile.NewService(NewProfileRepository(db), nil)
	ctx := context.Background()

	empty, err := svc.Get(ctx, "u1")
	require.NoError(t, err)
	require.Equal(t, "u1", empty.UserID)

	life := "  build things "
	_, err = svc.Update(ctx, "u1", profile.UpdateRequest{LifeGoal: &life})
	require.NoError(t, err)
	daily := "ship the release"
	updated, err := svc.Update(ctx, "u1", profile.UpdateRequest{DailyGoal: &daily})
	require.NoError(t, err)
	require.Equal(t, "build things", updated.LifeGoal)
	require.Equal(t, "ship the release", updated.DailyGoal)
}
