package application

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/montanaflynn/stats"

	"github.com/repopulse/repopulse/internal/domain/model"
	"github.com/repopulse/repopulse/internal/domain/port/driven"
)

const (
	topContributorCount = 5
	feedLimit           = 15
)

// Summary is the headline count block of a dashboard view.
type Summary struct {
	ActivePRs    int `json:"active_prs"`
	MergedPRs    int `json:"merged_prs"`
	OpenIssues   int `json:"open_issues"`
	ClosedIssues int `json:"closed_issues"`
	TotalCommits int `json:"total_commits"`
}

// ContributorCount is one entry in the top-contributors list.
type ContributorCount struct {
	Author  string `json:"author"`
	Commits int    `json:"commits"`
}

// FeedEntry is one row in the merged activity feed. Body carries the raw
// markdown; rendering to HTML happens at the presentation boundary.
type FeedEntry struct {
	Type       string    `json:"type"`
	Title      string    `json:"title"`
	Author     string    `json:"author"`
	URL        string    `json:"url"`
	Body       string    `json:"body,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// DashboardData is a complete time-window view over one repository, built
// from live fetches. Raw slices back the raw-JSON panels.
type DashboardData struct {
	Repository      string              `json:"repository"`
	Window          model.TimeWindow    `json:"window"`
	Summary         Summary             `json:"summary"`
	TopContributors []ContributorCount  `json:"top_contributors"`
	Feed            []FeedEntry         `json:"feed"`
	Commits         []model.Commit      `json:"commits"`
	PullRequests    []model.PullRequest `json:"pull_requests"`
	Issues          []model.Issue       `json:"issues"`
	Warning         string              `json:"warning,omitempty"`
}

// VelocityStat summarizes a contributor's stored weekly commit cadence.
type VelocityStat struct {
	Username       string  `json:"username"`
	TotalCommits   int     `json:"total_commits"`
	MeanPerWeek    float64 `json:"mean_commits_per_week"`
	MedianPerWeek  float64 `json:"median_commits_per_week"`
	WeeksWithWork  int     `json:"weeks_with_work"`
	RecentEventLen int     `json:"recent_events"`
}

// DashboardService assembles time-window views from live fetches and serves
// velocity summaries from the collected store.
type DashboardService struct {
	client   driven.GitHubClient
	activity driven.ActivityStore
}

// NewDashboardService creates a dashboard service over the given client and
// activity store.
func NewDashboardService(client driven.GitHubClient, activity driven.ActivityStore) *DashboardService {
	return &DashboardService{client: client, activity: activity}
}

// FetchWindow builds the dashboard view for one repository and window from
// live data. Credential failures are returned as errors; every other fetch
// failure degrades to a warning with empty rows, never a hard failure.
func (s *DashboardService) FetchWindow(ctx context.Context, owner, repo string, window model.TimeWindow) (*DashboardData, error) {
	data := &DashboardData{
		Repository:      owner + "/" + repo,
		Window:          window,
		TopContributors: []ContributorCount{},
		Feed:            []FeedEntry{},
		Commits:         []model.Commit{},
		PullRequests:    []model.PullRequest{},
		Issues:          []model.Issue{},
	}

	commits, err := s.client.FetchCommits(ctx, owner, repo, &window)
	if err != nil {
		warn, werr := degrade("commits", err)
		if werr != nil {
			return nil, werr
		}
		data.Warning = warn
	} else {
		data.Commits = commits
	}

	prs, err := s.client.FetchPullRequests(ctx, owner, repo)
	if err != nil {
		warn, werr := degrade("pull requests", err)
		if werr != nil {
			return nil, werr
		}
		if data.Warning == "" {
			data.Warning = warn
		}
	} else {
		data.PullRequests = FilterPRs(prs, window)
	}

	issues, err := s.client.FetchIssues(ctx, owner, repo)
	if err != nil {
		warn, werr := degrade("issues", err)
		if werr != nil {
			return nil, werr
		}
		if data.Warning == "" {
			data.Warning = warn
		}
	} else {
		data.Issues = FilterIssues(issues, window)
	}

	data.Summary = summarize(data.Commits, data.PullRequests, data.Issues)
	data.TopContributors = topContributors(data.Commits)
	data.Feed = buildFeed(data.Commits, data.PullRequests, data.Issues)

	return data, nil
}

// degrade maps a fetch error to either a user-facing warning or a hard error.
func degrade(what string, err error) (string, error) {
	switch {
	case errors.Is(err, model.ErrUnauthorized):
		return "", err
	case errors.Is(err, model.ErrNotFound):
		return "user or repository not found", nil
	default:
		return fmt.Sprintf("fetching %s failed, showing partial data", what), nil
	}
}

// FilterPRs keeps pull requests created inside the window, inclusive at both
// boundaries.
func FilterPRs(prs []model.PullRequest, window model.TimeWindow) []model.PullRequest {
	kept := []model.PullRequest{}
	for _, pr := range prs {
		if window.Contains(pr.CreatedAt) {
			kept = append(kept, pr)
		}
	}
	return kept
}

// FilterIssues keeps issues created inside the window, inclusive at both
// boundaries.
func FilterIssues(issues []model.Issue, window model.TimeWindow) []model.Issue {
	kept := []model.Issue{}
	for _, issue := range issues {
		if window.Contains(issue.CreatedAt) {
			kept = append(kept, issue)
		}
	}
	return kept
}

func summarize(commits []model.Commit, prs []model.PullRequest, issues []model.Issue) Summary {
	var sum Summary
	sum.TotalCommits = len(commits)

	for _, pr := range prs {
		switch {
		case pr.IsMerged():
			sum.MergedPRs++
		case pr.State == model.PRStateOpen:
			sum.ActivePRs++
		}
	}

	for _, issue := range issues {
		if issue.State == "open" {
			sum.OpenIssues++
		} else {
			sum.ClosedIssues++
		}
	}

	return sum
}

// topContributors counts commit authors and returns the five busiest, with a
// name tiebreak for stable output.
func topContributors(commits []model.Commit) []ContributorCount {
	counts := make(map[string]int)
	for _, c := range commits {
		if c.Author != "" {
			counts[c.Author]++
		}
	}

	ranked := make([]ContributorCount, 0, len(counts))
	for author, n := range counts {
		ranked = append(ranked, ContributorCount{Author: author, Commits: n})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Commits != ranked[j].Commits {
			return ranked[i].Commits > ranked[j].Commits
		}
		return ranked[i].Author < ranked[j].Author
	})

	if len(ranked) > topContributorCount {
		ranked = ranked[:topContributorCount]
	}
	return ranked
}

// buildFeed merges PRs, issues, and commits into one reverse-chronological
// feed capped at 15 entries.
func buildFeed(commits []model.Commit, prs []model.PullRequest, issues []model.Issue) []FeedEntry {
	feed := make([]FeedEntry, 0, len(commits)+len(prs)+len(issues))

	for _, pr := range prs {
		feed = append(feed, FeedEntry{
			Type:       "pull_request",
			Title:      pr.Title,
			Author:     pr.Author,
			URL:        pr.URL,
			Body:       pr.Description,
			OccurredAt: pr.CreatedAt,
		})
	}
	for _, issue := range issues {
		feed = append(feed, FeedEntry{
			Type:       "issue",
			Title:      issue.Title,
			Author:     issue.Author,
			URL:        issue.URL,
			Body:       issue.Description,
			OccurredAt: issue.CreatedAt,
		})
	}
	for _, c := range commits {
		feed = append(feed, FeedEntry{
			Type:       "commit",
			Title:      c.Subject(),
			Author:     c.Author,
			URL:        c.URL,
			OccurredAt: c.AuthoredAt,
		})
	}

	sort.Slice(feed, func(i, j int) bool {
		return feed[i].OccurredAt.After(feed[j].OccurredAt)
	})

	if len(feed) > feedLimit {
		feed = feed[:feedLimit]
	}
	return feed
}

// UserRepositories lists a user's repositories for the dashboard's picker.
func (s *DashboardService) UserRepositories(ctx context.Context, user string) ([]model.Repository, error) {
	repos, err := s.client.FetchUserRepositories(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("list repositories for %s: %w", user, err)
	}
	return repos, nil
}

// RepositoryMetadata resolves the current metadata snapshot for one repository.
func (s *DashboardService) RepositoryMetadata(ctx context.Context, owner, repo string) (*model.Repository, error) {
	meta, err := s.client.FetchRepository(ctx, owner, repo)
	if err != nil {
		return nil, fmt.Errorf("fetch repository %s/%s: %w", owner, repo, err)
	}
	return meta, nil
}

// ContributorVelocity computes per-contributor commit cadence from the stored
// weekly stats for a repository.
func (s *DashboardService) ContributorVelocity(ctx context.Context, repositoryID int64) ([]VelocityStat, error) {
	activities, err := s.activity.GetByRepository(ctx, repositoryID)
	if err != nil {
		return nil, fmt.Errorf("load contributor activity: %w", err)
	}

	velocities := make([]VelocityStat, 0, len(activities))
	for _, a := range activities {
		weekly := make([]float64, 0, len(a.Weeks))
		weeksWithWork := 0
		for _, w := range a.Weeks {
			weekly = append(weekly, float64(w.Commits))
			if w.Commits > 0 {
				weeksWithWork++
			}
		}

		v := VelocityStat{
			Username:       a.Username,
			TotalCommits:   a.TotalCommits(),
			WeeksWithWork:  weeksWithWork,
			RecentEventLen: len(a.RecentEvents),
		}
		if len(weekly) > 0 {
			// stats only errors on empty input, guarded above.
			v.MeanPerWeek, _ = stats.Mean(weekly)
			v.MedianPerWeek, _ = stats.Median(weekly)
		}
		velocities = append(velocities, v)
	}

	sort.Slice(velocities, func(i, j int) bool {
		if velocities[i].TotalCommits != velocities[j].TotalCommits {
			return velocities[i].TotalCommits > velocities[j].TotalCommits
		}
		return velocities[i].Username < velocities[j].Username
	})

	return velocities, nil
}
