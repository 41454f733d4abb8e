package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/repopulse/repopulse/internal/domain/model"
)

func sampleActivity(username string) model.ContributorActivity {
	return model.ContributorActivity{
		Username:     username,
		RepositoryID: 7,
		Weeks: []model.WeekStat{
			{WeekStart: time.Date(2026, 1, 4, 0, 0, 0, 0, time.UTC), Additions: 100, Deletions: 20, Commits: 5},
			{WeekStart: time.Date(2026, 1, 11, 0, 0, 0, 0, time.UTC), Additions: 40, Deletions: 5, Commits: 2},
		},
		RecentEvents: []model.ActorEvent{
			{ID: "e1", Type: "PushEvent", Actor: username, OccurredAt: time.Date(2026, 1, 12, 10, 0, 0, 0, time.UTC)},
		},
		LastUpdated: time.Date(2026, 1, 12, 11, 0, 0, 0, time.UTC),
	}
}

func TestActivityRepoUpsertAndGet(t *testing.T) {
	db := newTestDB(t)
	repo := NewActivityRepo(db)
	ctx := context.Background()

	want := sampleActivity("octocat")
	require.NoError(t, repo.Upsert(ctx, want))

	got, err := repo.Get(ctx, "octocat", 7)
	require.NoError(t, err)

	require.Len(t, got.Weeks, 2)
	assert.Equal(t, 7, got.TotalCommits())
	require.Len(t, got.RecentEvents, 1)
	assert.Equal(t, "PushEvent", got.RecentEvents[0].Type)
	assert.False(t, got.CollectedAt.IsZero())
}

func TestActivityRepoCompositeKey(t *testing.T) {
	db := newTestDB(t)
	repo := NewActivityRepo(db)
	ctx := context.Background()

	first := sampleActivity("octocat")
	other := sampleActivity("octocat")
	other.RepositoryID = 8
	other.Weeks = other.Weeks[:1]

	require.NoError(t, repo.Upsert(ctx, first))
	require.NoError(t, repo.Upsert(ctx, other))

	got, err := repo.Get(ctx, "octocat", 8)
	require.NoError(t, err)
	assert.Len(t, got.Weeks, 1)

	// Re-upsert replaces the matching row only.
	first.Weeks = nil
	require.NoError(t, repo.Upsert(ctx, first))

	activities, err := repo.GetByRepository(ctx, 7)
	require.NoError(t, err)
	require.Len(t, activities, 1)
	assert.Empty(t, activities[0].Weeks)
}

func TestActivityRepoGetNotFound(t *testing.T) {
	db := newTestDB(t)
	repo := NewActivityRepo(db)

	_, err := repo.Get(context.Background(), "ghost", 7)
	assert.ErrorIs(t, err, model.ErrNotFound)
}
