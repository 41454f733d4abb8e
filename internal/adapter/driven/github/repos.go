package github

import (
	"context"
	"fmt"
	"net/http"

	gh "github.com/google/go-github/v82/github"

	"github.com/repopulse/repopulse/internal/domain/model"
)

// FetchRepository resolves repository metadata. A 404 surfaces as
// model.ErrNotFound so the collector can abort that repository's run.
func (c *Client) FetchRepository(ctx context.Context, owner, repo string) (*model.Repository, error) {
	op := fmt.Sprintf("fetching repository %s/%s", owner, repo)

	for {
		c.waitForQuota()
		r, resp, err := c.gh.Repositories.Get(ctx, owner, repo)
		c.updateQuota(resp)
		if err != nil {
			if delay, retry := c.retryDelay(err); retry {
				c.sleep(delay)
				continue
			}
			return nil, classify(op, resp, err)
		}

		mapped, err := mapRepository(r)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		return mapped, nil
	}
}

// FetchUserRepositories lists all repositories owned by a user. A missing
// user surfaces as model.ErrNotFound.
func (c *Client) FetchUserRepositories(ctx context.Context, user string) ([]model.Repository, error) {
	op := fmt.Sprintf("listing repositories for user %s", user)
	opts := &gh.RepositoryListByUserOptions{
		ListOptions: gh.ListOptions{PerPage: perPage},
	}

	repos := []model.Repository{}

	for {
		c.waitForQuota()
		page, resp, err := c.gh.Repositories.ListByUser(ctx, user, opts)
		c.updateQuota(resp)
		if err != nil {
			if delay, retry := c.retryDelay(err); retry {
				c.sleep(delay)
				continue
			}
			return nil, classify(op, resp, err)
		}

		for _, r := range page {
			mapped, err := mapRepository(r)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", op, err)
			}
			repos = append(repos, *mapped)
		}

		logPage(op, opts.Page, len(page), len(repos))

		if resp.NextPage == 0 || len(page) < perPage {
			break
		}
		opts.Page = resp.NextPage
	}

	return repos, nil
}

// FetchCommits lists commits, bounded by the window when one is given.
// A 409 means the repository has no commits yet and yields an empty slice.
func (c *Client) FetchCommits(ctx context.Context, owner, repo string, window *model.TimeWindow) ([]model.Commit, error) {
	op := fmt.Sprintf("listing commits for %s/%s", owner, repo)
	opts := &gh.CommitsListOptions{
		ListOptions: gh.ListOptions{PerPage: perPage},
	}
	if window != nil {
		opts.Since = window.Since
		opts.Until = window.Until
	}

	commits := []model.Commit{}

	for {
		c.waitForQuota()
		page, resp, err := c.gh.Repositories.ListCommits(ctx, owner, repo, opts)
		c.updateQuota(resp)
		if err != nil {
			if resp != nil && resp.StatusCode == http.StatusConflict {
				// Empty repository: zero commits, not an error.
				return commits, nil
			}
			if delay, retry := c.retryDelay(err); retry {
				c.sleep(delay)
				continue
			}
			return nil, classify(op, resp, err)
		}

		for _, rc := range page {
			mapped, err := mapCommit(rc)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", op, err)
			}
			commits = append(commits, mapped)
		}

		logPage(op, opts.Page, len(page), len(commits))

		if resp.NextPage == 0 || len(page) < perPage {
			break
		}
		opts.Page = resp.NextPage
	}

	return commits, nil
}
