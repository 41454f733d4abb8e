package github

import (
	"context"
	"errors"
	"fmt"
	"time"

	gh "github.com/google/go-github/v82/github"

	"github.com/repopulse/repopulse/internal/domain/model"
)

// FetchContributors lists contributor logins for a repository. A 404 yields
// an empty slice: some repositories expose no contributor data.
func (c *Client) FetchContributors(ctx context.Context, owner, repo string) ([]string, error) {
	op := fmt.Sprintf("listing contributors for %s/%s", owner, repo)
	opts := &gh.ListContributorsOptions{
		ListOptions: gh.ListOptions{PerPage: perPage},
	}

	logins := []string{}

	for {
		c.waitForQuota()
		page, resp, err := c.gh.Repositories.ListContributors(ctx, owner, repo, opts)
		c.updateQuota(resp)
		if err != nil {
			if delay, retry := c.retryDelay(err); retry {
				c.sleep(delay)
				continue
			}
			classified := classify(op, resp, err)
			if errors.Is(classified, model.ErrNotFound) {
				return logins, nil
			}
			return nil, classified
		}

		for _, contributor := range page {
			if login := contributor.GetLogin(); login != "" {
				logins = append(logins, login)
			}
		}

		logPage(op, opts.Page, len(page), len(logins))

		if resp.NextPage == 0 || len(page) < perPage {
			break
		}
		opts.Page = resp.NextPage
	}

	return logins, nil
}

// FetchContributorStats returns weekly commit stats keyed by login. GitHub
// computes these lazily and answers 202 until they are ready; the call backs
// off and retries a bounded number of times before giving up.
func (c *Client) FetchContributorStats(ctx context.Context, owner, repo string) (map[string][]model.WeekStat, error) {
	op := fmt.Sprintf("fetching contributor stats for %s/%s", owner, repo)

	for attempt := 1; ; attempt++ {
		c.waitForQuota()
		stats, resp, err := c.gh.Repositories.ListContributorsStats(ctx, owner, repo)
		c.updateQuota(resp)
		if err != nil {
			var accepted *gh.AcceptedError
			if errors.As(err, &accepted) {
				if attempt >= statsMaxAttempts {
					return nil, fmt.Errorf("%s: stats not ready after %d attempts", op, attempt)
				}
				c.sleep(2 * time.Second)
				continue
			}
			if delay, retry := c.retryDelay(err); retry {
				c.sleep(delay)
				continue
			}
			return nil, classify(op, resp, err)
		}

		byLogin := make(map[string][]model.WeekStat, len(stats))
		for _, cs := range stats {
			login := cs.GetAuthor().GetLogin()
			if login == "" {
				continue
			}
			byLogin[login] = mapWeekStats(cs.Weeks)
		}
		return byLogin, nil
	}
}

// FetchRepositoryEvents lists recent repository events across all actors.
// The events API only serves the most recent pages, so pagination here is
// shallow by construction.
func (c *Client) FetchRepositoryEvents(ctx context.Context, owner, repo string) ([]model.ActorEvent, error) {
	op := fmt.Sprintf("listing events for %s/%s", owner, repo)
	opts := &gh.ListOptions{PerPage: perPage}

	events := []model.ActorEvent{}

	for {
		c.waitForQuota()
		page, resp, err := c.gh.Activity.ListRepositoryEvents(ctx, owner, repo, opts)
		c.updateQuota(resp)
		if err != nil {
			if delay, retry := c.retryDelay(err); retry {
				c.sleep(delay)
				continue
			}
			return nil, classify(op, resp, err)
		}

		for _, e := range page {
			events = append(events, mapEvent(e))
		}

		logPage(op, opts.Page, len(page), len(events))

		if resp.NextPage == 0 || len(page) < perPage {
			break
		}
		opts.Page = resp.NextPage
	}

	return events, nil
}
