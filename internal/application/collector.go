// Package application holds the use-case services wiring the ports together:
// the collector that pulls remote data into the store and the dashboard that
// assembles time-window views.
package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/repopulse/repopulse/internal/domain/model"
	"github.com/repopulse/repopulse/internal/domain/port/driven"
)

// repoConcurrency bounds how many repositories are collected at once. The
// pipeline inside each repository stays strictly sequential.
const repoConcurrency = 5

// CollectorService runs the collection pipeline: fetch, transform (done by the
// client adapter), upsert. Re-runs are safe; every write is an idempotent
// full-document replace keyed by the remote ID.
type CollectorService struct {
	client          driven.GitHubClient
	prs             driven.PRStore
	issues          driven.IssueStore
	comments        driven.CommentStore
	activity        driven.ActivityStore
	includeComments bool
	now             func() time.Time
}

// NewCollectorService creates a collector over the given client and stores.
// When includeComments is false the comment pass (issue comments, review
// comments, reviews) is skipped.
func NewCollectorService(
	client driven.GitHubClient,
	prs driven.PRStore,
	issues driven.IssueStore,
	comments driven.CommentStore,
	activity driven.ActivityStore,
	includeComments bool,
) *CollectorService {
	return &CollectorService{
		client:          client,
		prs:             prs,
		issues:          issues,
		comments:        comments,
		activity:        activity,
		includeComments: includeComments,
		now:             time.Now,
	}
}

// Run collects every repository in the list, given as "owner/name" strings.
// Repositories are fanned out concurrently; a failure in one repository does
// not stop the others, but Run reports an error if any repository failed.
func (s *CollectorService) Run(ctx context.Context, repos []string) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(repoConcurrency)

	for _, full := range repos {
		owner, name, ok := strings.Cut(full, "/")
		if !ok || owner == "" || name == "" {
			return fmt.Errorf("invalid repository %q, want owner/name", full)
		}

		g.Go(func() error {
			if err := s.CollectRepository(ctx, owner, name); err != nil {
				slog.Error("repository collection failed", "repository", owner+"/"+name, "error", err)
				return fmt.Errorf("collect %s/%s: %w", owner, name, err)
			}
			return nil
		})
	}

	return g.Wait()
}

// CollectRepository runs the full sequential pipeline for one repository:
// resolve, pull requests, issues, comments, contributor activity. A missing
// repository aborts the run for that repository only.
func (s *CollectorService) CollectRepository(ctx context.Context, owner, name string) error {
	started := s.now()

	repo, err := s.client.FetchRepository(ctx, owner, name)
	if err != nil {
		return fmt.Errorf("resolve repository: %w", err)
	}

	slog.Info("collecting repository", "repository", repo.FullName(), "repository_id", repo.ID)

	prs, err := s.collectPullRequests(ctx, repo)
	if err != nil {
		return err
	}

	issues, err := s.collectIssues(ctx, repo)
	if err != nil {
		return err
	}

	if s.includeComments {
		if err := s.collectComments(ctx, repo, prs, issues); err != nil {
			return err
		}
	}

	if err := s.collectContributorActivity(ctx, repo); err != nil {
		return err
	}

	slog.Info("repository collected",
		"repository", repo.FullName(),
		"pull_requests", len(prs),
		"issues", len(issues),
		"elapsed", s.now().Sub(started).Round(time.Millisecond))
	return nil
}

// collectPullRequests lists PRs, re-fetches each one for full detail (list
// payloads omit diff stats and the merge flag), resolves linked issues over
// GraphQL, and upserts.
func (s *CollectorService) collectPullRequests(ctx context.Context, repo *model.Repository) ([]model.PullRequest, error) {
	listed, err := s.client.FetchPullRequests(ctx, repo.Owner, repo.Name)
	if err != nil {
		return nil, fmt.Errorf("list pull requests: %w", err)
	}

	collected := make([]model.PullRequest, 0, len(listed))
	for _, stub := range listed {
		detail, err := s.client.FetchPullRequestDetail(ctx, repo.Owner, repo.Name, stub.Number)
		if err != nil {
			return nil, fmt.Errorf("fetch PR #%d detail: %w", stub.Number, err)
		}

		linked, err := s.client.FetchLinkedIssues(ctx, repo.Owner, repo.Name, stub.Number)
		if err != nil {
			// Linked issues are enrichment; a GraphQL failure should not
			// lose the PR document.
			slog.Warn("linked issue lookup failed", "pr", stub.Number, "error", err)
			linked = []string{}
		}

		pr := *detail
		pr.RepositoryID = repo.ID
		pr.LinkedIssues = linked

		if err := s.prs.Upsert(ctx, pr); err != nil {
			return nil, fmt.Errorf("upsert PR #%d: %w", pr.Number, err)
		}
		collected = append(collected, pr)
	}

	return collected, nil
}

func (s *CollectorService) collectIssues(ctx context.Context, repo *model.Repository) ([]model.Issue, error) {
	issues, err := s.client.FetchIssues(ctx, repo.Owner, repo.Name)
	if err != nil {
		return nil, fmt.Errorf("list issues: %w", err)
	}

	for i := range issues {
		issues[i].RepositoryID = repo.ID
		if err := s.issues.Upsert(ctx, issues[i]); err != nil {
			return nil, fmt.Errorf("upsert issue #%d: %w", issues[i].Number, err)
		}
	}

	return issues, nil
}

// collectComments tags each comment with its parent from the endpoint it came
// through. The raw payloads never self-identify their parent.
func (s *CollectorService) collectComments(ctx context.Context, repo *model.Repository, prs []model.PullRequest, issues []model.Issue) error {
	for _, issue := range issues {
		comments, err := s.client.FetchIssueComments(ctx, repo.Owner, repo.Name, issue.Number)
		if err != nil {
			return fmt.Errorf("fetch comments for issue #%d: %w", issue.Number, err)
		}
		if err := s.upsertComments(ctx, repo.ID, model.ParentTypeIssue, issue.Number, comments); err != nil {
			return err
		}
	}

	for _, pr := range prs {
		reviewComments, err := s.client.FetchReviewComments(ctx, repo.Owner, repo.Name, pr.Number)
		if err != nil {
			return fmt.Errorf("fetch review comments for PR #%d: %w", pr.Number, err)
		}
		reviews, err := s.client.FetchReviews(ctx, repo.Owner, repo.Name, pr.Number)
		if err != nil {
			return fmt.Errorf("fetch reviews for PR #%d: %w", pr.Number, err)
		}

		if err := s.upsertComments(ctx, repo.ID, model.ParentTypePR, pr.Number, reviewComments); err != nil {
			return err
		}
		if err := s.upsertComments(ctx, repo.ID, model.ParentTypePR, pr.Number, reviews); err != nil {
			return err
		}
	}

	return nil
}

func (s *CollectorService) upsertComments(ctx context.Context, repositoryID int64, parent model.CommentParentType, number int, comments []model.Comment) error {
	for _, c := range comments {
		c.RepositoryID = repositoryID
		c.ParentType = parent
		c.ParentNumber = number
		if err := s.comments.Upsert(ctx, c); err != nil {
			return fmt.Errorf("upsert comment %d on %s #%d: %w", c.ID, parent, number, err)
		}
	}
	return nil
}

// collectContributorActivity joins the contributor list with weekly stats and
// the repository event stream, keeping the newest 50 events per contributor.
func (s *CollectorService) collectContributorActivity(ctx context.Context, repo *model.Repository) error {
	logins, err := s.client.FetchContributors(ctx, repo.Owner, repo.Name)
	if err != nil {
		return fmt.Errorf("list contributors: %w", err)
	}
	if len(logins) == 0 {
		return nil
	}

	stats, err := s.client.FetchContributorStats(ctx, repo.Owner, repo.Name)
	if err != nil {
		return fmt.Errorf("fetch contributor stats: %w", err)
	}

	events, err := s.client.FetchRepositoryEvents(ctx, repo.Owner, repo.Name)
	if err != nil {
		return fmt.Errorf("fetch repository events: %w", err)
	}

	byActor := make(map[string][]model.ActorEvent)
	for _, e := range events {
		byActor[e.Actor] = append(byActor[e.Actor], e)
	}

	for _, login := range logins {
		activity := model.ContributorActivity{
			Username:     login,
			RepositoryID: repo.ID,
			Weeks:        stats[login],
			RecentEvents: byActor[login],
			LastUpdated:  s.now().UTC(),
		}
		activity.TrimRecentEvents()

		if err := s.activity.Upsert(ctx, activity); err != nil {
			return fmt.Errorf("upsert activity for %s: %w", login, err)
		}
	}

	return nil
}

// IsFatal reports whether a collection error should stop the whole run rather
// than just the repository it occurred in. Only credential failures qualify.
func IsFatal(err error) bool {
	return errors.Is(err, model.ErrUnauthorized)
}
