// Package driven defines the outbound port interfaces implemented by adapters.
package driven

import (
	"context"

	"github.com/repopulse/repopulse/internal/domain/model"
)

// GitHubClient is the port for the remote source-hosting API. Implementations
// handle pagination, rate limiting, and retry internally; every method returns
// the complete result set for its endpoint.
//
// Comments and reviews come back with zero parent fields. The caller tags
// ParentType and ParentNumber from the endpoint it fetched through, because
// the raw payload does not self-identify its parent.
type GitHubClient interface {
	// FetchRepository resolves repository metadata. A missing repository
	// surfaces as model.ErrNotFound.
	FetchRepository(ctx context.Context, owner, repo string) (*model.Repository, error)

	// FetchUserRepositories lists a user's repositories. A missing user
	// surfaces as model.ErrNotFound.
	FetchUserRepositories(ctx context.Context, user string) ([]model.Repository, error)

	// FetchCommits lists commits, optionally bounded by a time window
	// (since/until, inclusive). An empty repository yields an empty slice,
	// not an error.
	FetchCommits(ctx context.Context, owner, repo string, window *model.TimeWindow) ([]model.Commit, error)

	// FetchPullRequests lists pull requests in all states. List payloads lack
	// diff stats and the merge flag; use FetchPullRequestDetail per number for
	// the full record.
	FetchPullRequests(ctx context.Context, owner, repo string) ([]model.PullRequest, error)

	// FetchPullRequestDetail re-fetches a single pull request for its full
	// metadata (diff stats, merge flag, commit counts).
	FetchPullRequestDetail(ctx context.Context, owner, repo string, number int) (*model.PullRequest, error)

	// FetchLinkedIssues returns the URLs of issues a pull request closes.
	FetchLinkedIssues(ctx context.Context, owner, repo string, number int) ([]string, error)

	// FetchIssues lists issues in all states, excluding PR-shaped records.
	FetchIssues(ctx context.Context, owner, repo string) ([]model.Issue, error)

	// FetchIssueComments lists the comments on one issue.
	FetchIssueComments(ctx context.Context, owner, repo string, issueNumber int) ([]model.Comment, error)

	// FetchReviewComments lists the inline review comments on one pull request.
	FetchReviewComments(ctx context.Context, owner, repo string, prNumber int) ([]model.Comment, error)

	// FetchReviews lists the reviews on one pull request, shaped as comments.
	FetchReviews(ctx context.Context, owner, repo string, prNumber int) ([]model.Comment, error)

	// FetchContributors lists contributor logins for a repository.
	FetchContributors(ctx context.Context, owner, repo string) ([]string, error)

	// FetchContributorStats returns weekly commit stats keyed by login.
	FetchContributorStats(ctx context.Context, owner, repo string) (map[string][]model.WeekStat, error)

	// FetchRepositoryEvents lists recent repository events across all actors.
	FetchRepositoryEvents(ctx context.Context, owner, repo string) ([]model.ActorEvent, error)
}
