package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/repopulse/repopulse/internal/domain/model"
)

func sampleIssue() model.Issue {
	milestone := "v1.2"
	return model.Issue{
		ID:            501,
		Number:        40,
		RepositoryID:  7,
		Title:         "Fetcher retries forever on 403",
		Description:   "Observed during a long collection run.",
		Author:        "hubber",
		State:         "open",
		CreatedAt:     time.Date(2026, 1, 20, 8, 0, 0, 0, time.UTC),
		Labels:        []string{"bug", "collector"},
		Assignees:     []string{"octocat"},
		CommentsCount: 3,
		Milestone:     &milestone,
		URL:           "https://github.com/acme/widgets/issues/40",
	}
}

func TestIssueRepoUpsertAndGet(t *testing.T) {
	db := newTestDB(t)
	repo := NewIssueRepo(db)
	ctx := context.Background()

	want := sampleIssue()
	require.NoError(t, repo.Upsert(ctx, want))

	got, err := repo.GetByID(ctx, want.ID)
	require.NoError(t, err)

	assert.Equal(t, want.Title, got.Title)
	assert.Equal(t, []string{"bug", "collector"}, got.Labels)
	assert.Equal(t, []string{"octocat"}, got.Assignees)
	require.NotNil(t, got.Milestone)
	assert.Equal(t, "v1.2", *got.Milestone)
	assert.Nil(t, got.ClosedAt)
	assert.False(t, got.CollectedAt.IsZero())
}

func TestIssueRepoUpsertReplacesDocument(t *testing.T) {
	db := newTestDB(t)
	repo := NewIssueRepo(db)
	ctx := context.Background()

	issue := sampleIssue()
	require.NoError(t, repo.Upsert(ctx, issue))

	closed := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	issue.State = "closed"
	issue.ClosedAt = &closed
	issue.Milestone = nil
	require.NoError(t, repo.Upsert(ctx, issue))

	issues, err := repo.GetByRepository(ctx, issue.RepositoryID)
	require.NoError(t, err)
	require.Len(t, issues, 1)

	assert.Equal(t, "closed", issues[0].State)
	require.NotNil(t, issues[0].ClosedAt)
	assert.Nil(t, issues[0].Milestone)
}

func TestIssueRepoGetByRepositoryOrdersNewestFirst(t *testing.T) {
	db := newTestDB(t)
	repo := NewIssueRepo(db)
	ctx := context.Background()

	older := sampleIssue()
	newer := sampleIssue()
	newer.ID = 502
	newer.Number = 41
	newer.CreatedAt = older.CreatedAt.Add(48 * time.Hour)

	require.NoError(t, repo.Upsert(ctx, older))
	require.NoError(t, repo.Upsert(ctx, newer))

	issues, err := repo.GetByRepository(ctx, older.RepositoryID)
	require.NoError(t, err)
	require.Len(t, issues, 2)
	assert.Equal(t, int64(502), issues[0].ID)
}
