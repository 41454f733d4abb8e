package github

import (
	"context"
	"fmt"

	gh "github.com/google/go-github/v82/github"

	"github.com/repopulse/repopulse/internal/domain/model"
)

// FetchPullRequests lists pull requests in all states. The list payload lacks
// diff stats and the merge flag; callers re-fetch each number through
// FetchPullRequestDetail for the full record.
func (c *Client) FetchPullRequests(ctx context.Context, owner, repo string) ([]model.PullRequest, error) {
	op := fmt.Sprintf("listing pull requests for %s/%s", owner, repo)
	opts := &gh.PullRequestListOptions{
		State:       "all",
		ListOptions: gh.ListOptions{PerPage: perPage},
	}

	prs := []model.PullRequest{}

	for {
		c.waitForQuota()
		page, resp, err := c.gh.PullRequests.List(ctx, owner, repo, opts)
		c.updateQuota(resp)
		if err != nil {
			if delay, retry := c.retryDelay(err); retry {
				c.sleep(delay)
				continue
			}
			return nil, classify(op, resp, err)
		}

		for _, pr := range page {
			mapped, err := mapPullRequest(pr)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", op, err)
			}
			prs = append(prs, mapped)
		}

		logPage(op, opts.Page, len(page), len(prs))

		if resp.NextPage == 0 || len(page) < perPage {
			break
		}
		opts.Page = resp.NextPage
	}

	return prs, nil
}

// FetchPullRequestDetail re-fetches one pull request for its full metadata.
func (c *Client) FetchPullRequestDetail(ctx context.Context, owner, repo string, number int) (*model.PullRequest, error) {
	op := fmt.Sprintf("fetching pull request %s/%s#%d", owner, repo, number)

	for {
		c.waitForQuota()
		pr, resp, err := c.gh.PullRequests.Get(ctx, owner, repo, number)
		c.updateQuota(resp)
		if err != nil {
			if delay, retry := c.retryDelay(err); retry {
				c.sleep(delay)
				continue
			}
			return nil, classify(op, resp, err)
		}

		mapped, err := mapPullRequest(pr)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		return &mapped, nil
	}
}

// FetchReviewComments lists the inline review comments on one pull request.
// Parent fields are left zero; the caller tags them.
func (c *Client) FetchReviewComments(ctx context.Context, owner, repo string, prNumber int) ([]model.Comment, error) {
	op := fmt.Sprintf("listing review comments for %s/%s#%d", owner, repo, prNumber)
	opts := &gh.PullRequestListCommentsOptions{
		ListOptions: gh.ListOptions{PerPage: perPage},
	}

	comments := []model.Comment{}

	for {
		c.waitForQuota()
		page, resp, err := c.gh.PullRequests.ListComments(ctx, owner, repo, prNumber, opts)
		c.updateQuota(resp)
		if err != nil {
			if delay, retry := c.retryDelay(err); retry {
				c.sleep(delay)
				continue
			}
			return nil, classify(op, resp, err)
		}

		for _, rc := range page {
			mapped, err := mapReviewComment(rc)
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

// FetchReviews lists the reviews on one pull request, shaped as comments.
// Review payloads never populate an in-reply-to ID, so InReplyToID stays nil.
func (c *Client) FetchReviews(ctx context.Context, owner, repo string, prNumber int) ([]model.Comment, error) {
	op := fmt.Sprintf("listing reviews for %s/%s#%d", owner, repo, prNumber)
	opts := &gh.ListOptions{PerPage: perPage}

	reviews := []model.Comment{}

	for {
		c.waitForQuota()
		page, resp, err := c.gh.PullRequests.ListReviews(ctx, owner, repo, prNumber, opts)
		c.updateQuota(resp)
		if err != nil {
			if delay, retry := c.retryDelay(err); retry {
				c.sleep(delay)
				continue
			}
			return nil, classify(op, resp, err)
		}

		for _, r := range page {
			mapped, err := mapReview(r)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", op, err)
			}
			reviews = append(reviews, mapped)
		}

		logPage(op, opts.Page, len(page), len(reviews))

		if resp.NextPage == 0 || len(page) < perPage {
			break
		}
		opts.Page = resp.NextPage
	}

	return reviews, nil
}
