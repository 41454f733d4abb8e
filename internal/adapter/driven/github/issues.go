package github

import (
	"context"
	"fmt"

	gh "github.com/google/go-github/v82/github"

	"github.com/repopulse/repopulse/internal/domain/model"
)

// FetchIssues lists issues in all states. The issues endpoint returns pull
// requests too; records carrying pull request links are skipped so a PR is
// never stored as an issue.
func (c *Client) FetchIssues(ctx context.Context, owner, repo string) ([]model.Issue, error) {
	op := fmt.Sprintf("listing issues for %s/%s", owner, repo)
	opts := &gh.IssueListByRepoOptions{
		State:       "all",
		ListOptions: gh.ListOptions{PerPage: perPage},
	}

	issues := []model.Issue{}

	for {
		c.waitForQuota()
		page, resp, err := c.gh.Issues.ListByRepo(ctx, owner, repo, opts)
		c.updateQuota(resp)
		if err != nil {
			if delay, retry := c.retryDelay(err); retry {
				c.sleep(delay)
				continue
			}
			return nil, classify(op, resp, err)
		}

		for _, issue := range page {
			if issue.IsPullRequest() {
				continue
			}
			mapped, err := mapIssue(issue)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", op, err)
			}
			issues = append(issues, mapped)
		}

		logPage(op, opts.ListOptions.Page, len(page), len(issues))

		if resp.NextPage == 0 || len(page) < perPage {
			break
		}
		opts.ListOptions.Page = resp.NextPage
	}

	return issues, nil
}

// FetchIssueComments lists the comments on one issue. Parent fields are left
// zero; the caller tags them from the endpoint it fetched through.
func (c *Client) FetchIssueComments(ctx context.Context, owner, repo string, issueNumber int) ([]model.Comment, error) {
	op := fmt.Sprintf("listing comments for %s/%s issue #%d", owner, repo, issueNumber)
	opts := &gh.IssueListCommentsOptions{
		ListOptions: gh.ListOptions{PerPage: perPage},
	}

	comments := []model.Comment{}

	for {
		c.waitForQuota()
		page, resp, err := c.gh.Issues.ListComments(ctx, owner, repo, issueNumber, opts)
		c.updateQuota(resp)
		if err != nil {
			if delay, retry := c.retryDelay(err); retry {
				c.sleep(delay)
				continue
			}
			return nil, classify(op, resp, err)
		}

		for _, ic := range page {
			mapped, err := mapIssueComment(ic)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", op, err)
			}
			comments = append(comments, mapped)
		}

		logPage(op, opts.Page, len(page), len(comments))

		if resp.NextPage == 0 || len(page) < perPage {
			break
		}
		opts.Page = resp.NextPage
	}

	return comments, nil
}
