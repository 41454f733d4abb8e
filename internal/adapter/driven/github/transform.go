package github

import (
	"fmt"
	"time"

	gh "github.com/google/go-github/v82/github"

	"github.com/repopulse/repopulse/internal/domain/model"
)

// Transform functions map raw API payloads into the fixed output schema.
// Required fields (remote ID, number, author login) are validated here and a
// missing one fails with model.ErrMalformedRecord; optional fields default to
// zero values, empty sets, or nil.

func mapRepository(r *gh.Repository) (*model.Repository, error) {
	if r.GetID() == 0 || r.GetName() == "" {
		return nil, fmt.Errorf("repository missing id or name: %w", model.ErrMalformedRecord)
	}

	return &model.Repository{
		ID:          r.GetID(),
		Owner:       r.GetOwner().GetLogin(),
		Name:        r.GetName(),
		Description: r.GetDescription(),
		Stars:       r.GetStargazersCount(),
		Forks:       r.GetForksCount(),
		Watchers:    r.GetWatchersCount(),
	}, nil
}

func mapPullRequest(pr *gh.PullRequest) (model.PullRequest, error) {
	if pr.GetID() == 0 || pr.GetNumber() == 0 {
		return model.PullRequest{}, fmt.Errorf("pull request missing id or number: %w", model.ErrMalformedRecord)
	}
	if pr.GetUser().GetLogin() == "" {
		return model.PullRequest{}, fmt.Errorf("pull request #%d missing author: %w", pr.GetNumber(), model.ErrMalformedRecord)
	}

	// A merge timestamp or flag overrides the raw state.
	state := model.PRState(pr.GetState())
	if pr.GetMerged() || pr.MergedAt != nil {
		state = model.PRStateMerged
	}

	return model.PullRequest{
		ID:             pr.GetID(),
		Number:         pr.GetNumber(),
		Title:          pr.GetTitle(),
		Description:    pr.GetBody(),
		Author:         pr.GetUser().GetLogin(),
		State:          state,
		CreatedAt:      pr.GetCreatedAt().Time,
		MergedAt:       timePtr(pr.MergedAt),
		ClosedAt:       timePtr(pr.ClosedAt),
		FilesChanged:   pr.GetChangedFiles(),
		Additions:      pr.GetAdditions(),
		Deletions:      pr.GetDeletions(),
		ReviewComments: pr.GetReviewComments(),
		Commits:        pr.GetCommits(),
		LinkedIssues:   []string{},
		Head: model.GitRef{
			Ref: pr.GetHead().GetRef(),
			SHA: pr.GetHead().GetSHA(),
		},
		Base: model.GitRef{
			Ref: pr.GetBase().GetRef(),
			SHA: pr.GetBase().GetSHA(),
		},
		URL: pr.GetHTMLURL(),
	}, nil
}

func mapIssue(issue *gh.Issue) (model.Issue, error) {
	if issue.GetID() == 0 || issue.GetNumber() == 0 {
		return model.Issue{}, fmt.Errorf("issue missing id or number: %w", model.ErrMalformedRecord)
	}
	if issue.GetUser().GetLogin() == "" {
		return model.Issue{}, fmt.Errorf("issue #%d missing author: %w", issue.GetNumber(), model.ErrMalformedRecord)
	}

	labels := make([]string, 0, len(issue.Labels))
	for _, l := range issue.Labels {
		labels = append(labels, l.GetName())
	}

	assignees := make([]string, 0, len(issue.Assignees))
	for _, a := range issue.Assignees {
		assignees = append(assignees, a.GetLogin())
	}

	var milestone *string
	if issue.Milestone != nil {
		title := issue.Milestone.GetTitle()
		milestone = &title
	}

	return model.Issue{
		ID:            issue.GetID(),
		Number:        issue.GetNumber(),
		Title:         issue.GetTitle(),
		Description:   issue.GetBody(),
		Author:        issue.GetUser().GetLogin(),
		State:         issue.GetState(),
		CreatedAt:     issue.GetCreatedAt().Time,
		ClosedAt:      timePtr(issue.ClosedAt),
		Labels:        labels,
		Assignees:     assignees,
		CommentsCount: issue.GetComments(),
		Milestone:     milestone,
		URL:           issue.GetHTMLURL(),
	}, nil
}

func mapIssueComment(c *gh.IssueComment) (model.Comment, error) {
	if c.GetID() == 0 {
		return model.Comment{}, fmt.Errorf("comment missing id: %w", model.ErrMalformedRecord)
	}
	if c.GetUser().GetLogin() == "" {
		return model.Comment{}, fmt.Errorf("comment %d missing author: %w", c.GetID(), model.ErrMalformedRecord)
	}

	return model.Comment{
		ID:        c.GetID(),
		Author:    c.GetUser().GetLogin(),
		Body:      c.GetBody(),
		CreatedAt: c.GetCreatedAt().Time,
		UpdatedAt: c.GetUpdatedAt().Time,
	}, nil
}

func mapReviewComment(c *gh.PullRequestComment) (model.Comment, error) {
	if c.GetID() == 0 {
		return model.Comment{}, fmt.Errorf("review comment missing id: %w", model.ErrMalformedRecord)
	}
	if c.GetUser().GetLogin() == "" {
		return model.Comment{}, fmt.Errorf("review comment %d missing author: %w", c.GetID(), model.ErrMalformedRecord)
	}

	var inReplyTo *int64
	if c.InReplyTo != nil {
		val := c.GetInReplyTo()
		inReplyTo = &val
	}

	return model.Comment{
		ID:          c.GetID(),
		Author:      c.GetUser().GetLogin(),
		Body:        c.GetBody(),
		InReplyToID: inReplyTo,
		CreatedAt:   c.GetCreatedAt().Time,
		UpdatedAt:   c.GetUpdatedAt().Time,
	}, nil
}

// mapReview shapes a review as a comment. Review payloads never populate an
// in-reply-to ID, so it stays nil; the submission time stands in for both
// created and updated.
func mapReview(r *gh.PullRequestReview) (model.Comment, error) {
	if r.GetID() == 0 {
		return model.Comment{}, fmt.Errorf("review missing id: %w", model.ErrMalformedRecord)
	}
	if r.GetUser().GetLogin() == "" {
		return model.Comment{}, fmt.Errorf("review %d missing author: %w", r.GetID(), model.ErrMalformedRecord)
	}

	return model.Comment{
		ID:        r.GetID(),
		Author:    r.GetUser().GetLogin(),
		Body:      r.GetBody(),
		CreatedAt: r.GetSubmittedAt().Time,
		UpdatedAt: r.GetSubmittedAt().Time,
	}, nil
}

func mapCommit(rc *gh.RepositoryCommit) (model.Commit, error) {
	if rc.GetSHA() == "" {
		return model.Commit{}, fmt.Errorf("commit missing sha: %w", model.ErrMalformedRecord)
	}

	// Prefer the git author name, fall back to the account login.
	author := rc.GetCommit().GetAuthor().GetName()
	if author == "" {
		author = rc.GetAuthor().GetLogin()
	}

	return model.Commit{
		SHA:        rc.GetSHA(),
		Author:     author,
		Message:    rc.GetCommit().GetMessage(),
		URL:        rc.GetHTMLURL(),
		AuthoredAt: rc.GetCommit().GetAuthor().GetDate().Time,
	}, nil
}

// mapWeekStats annotates each week with a timestamp derived from the raw
// week-start epoch.
func mapWeekStats(weeks []*gh.WeeklyStats) []model.WeekStat {
	mapped := make([]model.WeekStat, 0, len(weeks))
	for _, w := range weeks {
		mapped = append(mapped, model.WeekStat{
			WeekStart: w.GetWeek().Time.UTC(),
			Additions: w.GetAdditions(),
			Deletions: w.GetDeletions(),
			Commits:   w.GetCommits(),
		})
	}
	return mapped
}

func mapEvent(e *gh.Event) model.ActorEvent {
	return model.ActorEvent{
		ID:         e.GetID(),
		Type:       e.GetType(),
		Actor:      e.GetActor().GetLogin(),
		OccurredAt: e.GetCreatedAt().Time,
	}
}

func timePtr(ts *gh.Timestamp) *time.Time {
	if ts == nil {
		return nil
	}
	t := ts.Time
	return &t
}
