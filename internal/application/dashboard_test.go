package application

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/repopulse/repopulse/internal/domain/model"
)

func mustWindow(t *testing.T, start, end string) model.TimeWindow {
	t.Helper()
	s, err := time.Parse("2006-01-02", start)
	require.NoError(t, err)
	e, err := time.Parse("2006-01-02", end)
	require.NoError(t, err)
	w, err := model.CustomWindow(s, e)
	require.NoError(t, err)
	return w
}

func dashboardClient() *stubClient {
	day := func(d int, hour int) time.Time {
		return time.Date(2026, 2, d, hour, 0, 0, 0, time.UTC)
	}
	return &stubClient{
		commits: []model.Commit{
			{SHA: "a1", Author: "octocat", Message: "Fix pagination stop", AuthoredAt: day(10, 0)},
			{SHA: "a2", Author: "octocat", Message: "Add retry budget", AuthoredAt: day(11, 12)},
			{SHA: "a3", Author: "hubber", Message: "Tidy config", AuthoredAt: day(12, 23)},
			{SHA: "a4", Author: "octocat", Message: "Outside window", AuthoredAt: day(20, 0)},
		},
		prs: []model.PullRequest{
			{ID: 1, Number: 10, Author: "octocat", State: model.PRStateOpen, CreatedAt: day(10, 0)},
			{ID: 2, Number: 11, Author: "hubber", State: model.PRStateMerged, CreatedAt: day(12, 23)},
			{ID: 3, Number: 12, Author: "hubber", State: model.PRStateOpen, CreatedAt: day(20, 0)},
		},
		issues: []model.Issue{
			{ID: 4, Number: 20, Author: "hubber", State: "open", CreatedAt: day(10, 0)},
			{ID: 5, Number: 21, Author: "octocat", State: "closed", CreatedAt: day(12, 0)},
			{ID: 6, Number: 22, Author: "octocat", State: "open", CreatedAt: day(1, 0)},
		},
	}
}

func TestFetchWindowBoundaryInclusive(t *testing.T) {
	svc := NewDashboardService(dashboardClient(), newMemActivityStore())
	window := mustWindow(t, "2026-02-10", "2026-02-12")

	data, err := svc.FetchWindow(context.Background(), "acme", "widgets", window)
	require.NoError(t, err)

	// Feb 10 00:00 and Feb 12 23:00 both fall inside; Feb 20 and Feb 1 do not.
	assert.Len(t, data.Commits, 3)
	assert.Len(t, data.PullRequests, 2)
	assert.Len(t, data.Issues, 2)
	assert.Empty(t, data.Warning)
}

func TestFetchWindowSummary(t *testing.T) {
	svc := NewDashboardService(dashboardClient(), newMemActivityStore())
	window := mustWindow(t, "2026-02-10", "2026-02-12")

	data, err := svc.FetchWindow(context.Background(), "acme", "widgets", window)
	require.NoError(t, err)

	assert.Equal(t, Summary{
		ActivePRs:    1,
		MergedPRs:    1,
		OpenIssues:   1,
		ClosedIssues: 1,
		TotalCommits: 3,
	}, data.Summary)
}

func TestFetchWindowTopContributors(t *testing.T) {
	svc := NewDashboardService(dashboardClient(), newMemActivityStore())
	window := mustWindow(t, "2026-02-10", "2026-02-12")

	data, err := svc.FetchWindow(context.Background(), "acme", "widgets", window)
	require.NoError(t, err)

	require.Len(t, data.TopContributors, 2)
	assert.Equal(t, ContributorCount{Author: "octocat", Commits: 2}, data.TopContributors[0])
	assert.Equal(t, ContributorCount{Author: "hubber", Commits: 1}, data.TopContributors[1])
}

func TestFetchWindowFeedIsReverseChronologicalAndCapped(t *testing.T) {
	client := dashboardClient()
	// Pad the commit stream well past the feed cap.
	for i := 0; i < 20; i++ {
		client.commits = append(client.commits, model.Commit{
			SHA:        fmt.Sprintf("pad%d", i),
			Author:     "octocat",
			Message:    "padding",
			AuthoredAt: time.Date(2026, 2, 11, i%24, 30, 0, 0, time.UTC),
		})
	}

	svc := NewDashboardService(client, newMemActivityStore())
	window := mustWindow(t, "2026-02-10", "2026-02-12")

	data, err := svc.FetchWindow(context.Background(), "acme", "widgets", window)
	require.NoError(t, err)

	require.Len(t, data.Feed, 15)
	for i := 1; i < len(data.Feed); i++ {
		assert.False(t, data.Feed[i].OccurredAt.After(data.Feed[i-1].OccurredAt),
			"feed entry %d is newer than entry %d", i, i-1)
	}
}

func TestFetchWindowDegradesOnFetchFailure(t *testing.T) {
	client := dashboardClient()
	client.commitsErr = errors.New("boom")

	svc := NewDashboardService(client, newMemActivityStore())
	window := mustWindow(t, "2026-02-10", "2026-02-12")

	data, err := svc.FetchWindow(context.Background(), "acme", "widgets", window)
	require.NoError(t, err)

	assert.NotEmpty(t, data.Warning)
	assert.Empty(t, data.Commits)
	assert.NotEmpty(t, data.PullRequests, "other panels still populate")
}

func TestFetchWindowNotFoundIsWarningNotError(t *testing.T) {
	client := dashboardClient()
	client.commitsErr = model.ErrNotFound
	client.prsErr = model.ErrNotFound
	client.issuesErr = model.ErrNotFound

	svc := NewDashboardService(client, newMemActivityStore())
	window := mustWindow(t, "2026-02-10", "2026-02-12")

	data, err := svc.FetchWindow(context.Background(), "acme", "gone", window)
	require.NoError(t, err)
	assert.Equal(t, "user or repository not found", data.Warning)
	assert.Empty(t, data.Commits)
	assert.Empty(t, data.PullRequests)
	assert.Empty(t, data.Issues)
}

func TestFetchWindowUnauthorizedIsFatal(t *testing.T) {
	client := dashboardClient()
	client.commitsErr = model.ErrUnauthorized

	svc := NewDashboardService(client, newMemActivityStore())
	window := mustWindow(t, "2026-02-10", "2026-02-12")

	_, err := svc.FetchWindow(context.Background(), "acme", "widgets", window)
	assert.ErrorIs(t, err, model.ErrUnauthorized)
}

func TestContributorVelocity(t *testing.T) {
	activity := newMemActivityStore()
	ctx := context.Background()

	require.NoError(t, activity.Upsert(ctx, model.ContributorActivity{
		Username:     "octocat",
		RepositoryID: 7,
		Weeks: []model.WeekStat{
			{Commits: 4}, {Commits: 0}, {Commits: 8},
		},
		RecentEvents: []model.ActorEvent{{ID: "e1"}},
	}))
	require.NoError(t, activity.Upsert(ctx, model.ContributorActivity{
		Username:     "hubber",
		RepositoryID: 7,
		Weeks:        []model.WeekStat{{Commits: 1}},
	}))

	svc := NewDashboardService(&stubClient{}, activity)

	velocities, err := svc.ContributorVelocity(ctx, 7)
	require.NoError(t, err)
	require.Len(t, velocities, 2)

	top := velocities[0]
	assert.Equal(t, "octocat", top.Username)
	assert.Equal(t, 12, top.TotalCommits)
	assert.InDelta(t, 4.0, top.MeanPerWeek, 1e-9)
	assert.InDelta(t, 4.0, top.MedianPerWeek, 1e-9)
	assert.Equal(t, 2, top.WeeksWithWork)
	assert.Equal(t, 1, top.RecentEventLen)
}
