// Package github implements the GitHubClient port using the go-github library.
package github

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/gofri/go-github-ratelimit/v2/github_ratelimit"
	gh "github.com/google/go-github/v82/github"
	"github.com/gregjones/httpcache"
	"github.com/shurcooL/githubv4"
	"golang.org/x/oauth2"

	"github.com/repopulse/repopulse/internal/domain/model"
	"github.com/repopulse/repopulse/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.GitHubClient = (*Client)(nil)

// perPage is the API maximum page size; every list call requests it, and a
// page shorter than this is the pagination termination signal.
const perPage = 100

// statsMaxAttempts bounds the 202-retry loop on the contributor stats
// endpoint while GitHub computes the statistics server-side.
const statsMaxAttempts = 4

// Client implements the driven.GitHubClient port. It owns the remaining-quota
// and reset-time counters; callers never see a rate-limited response, only
// the (possibly long) wait for one.
type Client struct {
	gh      *gh.Client
	graphql *githubv4.Client

	// sleep is time.Sleep in production; tests inject a recorder so
	// backoff can be asserted in simulated time.
	sleep func(time.Duration)

	mu             sync.Mutex
	quotaRemaining int // -1 until the first response is seen
	quotaReset     time.Time
}

// NewClient creates a GitHub API client with the following transport stack:
//  1. httpcache (ETag-based conditional request caching)
//  2. go-github-ratelimit (secondary rate limit middleware, sleeps on 429)
//  3. go-github (GitHub REST API client with PAT auth)
//
// The GraphQL client shares the token through an oauth2 static token source.
func NewClient(token string) *Client {
	cacheTransport := httpcache.NewMemoryCacheTransport()
	rateLimitClient := github_ratelimit.NewClient(cacheTransport)
	restClient := gh.NewClient(rateLimitClient).WithAuthToken(token)

	src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	graphqlClient := githubv4.NewClient(oauth2.NewClient(context.Background(), src))

	return &Client{
		gh:             restClient,
		graphql:        graphqlClient,
		sleep:          time.Sleep,
		quotaRemaining: -1,
	}
}

// NewClientWithHTTPClient creates a Client with a custom http.Client and base URL.
// This constructor is intended for testing, allowing injection of an httptest server.
func NewClientWithHTTPClient(httpClient *http.Client, baseURL string) (*Client, error) {
	client := gh.NewClient(httpClient)

	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing base URL: %w", err)
	}
	client.BaseURL = u

	// Point the GraphQL client at the same server so httptest handlers can
	// intercept GraphQL requests.
	graphqlU := *u
	graphqlU.Path = "/graphql"

	return &Client{
		gh:             client,
		graphql:        githubv4.NewEnterpriseClient(graphqlU.String(), httpClient),
		sleep:          time.Sleep,
		quotaRemaining: -1,
	}, nil
}

// SetSleep replaces the backoff sleep function. Tests use it to observe
// rate-limit waits without real delays.
func (c *Client) SetSleep(fn func(time.Duration)) {
	c.sleep = fn
}

// waitForQuota blocks until the locally cached quota permits another request.
func (c *Client) waitForQuota() {
	c.mu.Lock()
	remaining, reset := c.quotaRemaining, c.quotaReset
	c.mu.Unlock()

	if remaining != 0 {
		return
	}

	wait := time.Until(reset)
	if wait <= 0 {
		return
	}

	slog.Warn("rate limit quota exhausted, waiting for reset",
		"wait", wait.Round(time.Second),
		"reset", reset.UTC().Format(time.RFC3339),
	)
	c.sleep(wait)
}

// updateQuota refreshes the cached quota counters from a response.
func (c *Client) updateQuota(resp *gh.Response) {
	if resp == nil {
		return
	}

	c.mu.Lock()
	c.quotaRemaining = resp.Rate.Remaining
	c.quotaReset = resp.Rate.Reset.Time
	c.mu.Unlock()

	if resp.Rate.Remaining >= 0 && resp.Rate.Remaining < 100 {
		slog.Warn("github rate limit low",
			"remaining", resp.Rate.Remaining,
			"reset_in", time.Until(resp.Rate.Reset.Time).Round(time.Second),
		)
	}
}

// retryDelay reports whether err is a transient rate-limit condition and how
// long to back off before retrying the same request with identical parameters.
func (c *Client) retryDelay(err error) (time.Duration, bool) {
	var abuseErr *gh.AbuseRateLimitError
	if errors.As(err, &abuseErr) {
		delay := time.Minute
		if abuseErr.RetryAfter != nil {
			delay = *abuseErr.RetryAfter
		}
		slog.Warn("secondary rate limit hit, backing off", "retry_after", delay)
		return delay, true
	}

	var rateErr *gh.RateLimitError
	if errors.As(err, &rateErr) {
		delay := time.Until(rateErr.Rate.Reset.Time)
		if delay < 0 {
			delay = 0
		}
		slog.Warn("primary rate limit hit, waiting for reset", "wait", delay.Round(time.Second))
		return delay, true
	}

	return 0, false
}

// classify maps a terminal API error to a domain error. Unclassified failures
// are logged with their status code and body before being returned.
func classify(op string, resp *gh.Response, err error) error {
	if resp != nil {
		switch resp.StatusCode {
		case http.StatusUnauthorized:
			return fmt.Errorf("%s: %w", op, model.ErrUnauthorized)
		case http.StatusNotFound:
			return fmt.Errorf("%s: %w", op, model.ErrNotFound)
		}
	}

	var respErr *gh.ErrorResponse
	if errors.As(err, &respErr) && respErr.Response != nil {
		slog.Error("github api request failed",
			"op", op,
			"status", respErr.Response.StatusCode,
			"message", respErr.Message,
		)
	}

	return fmt.Errorf("%s: %w", op, err)
}

// logPage records pagination progress as a side channel for observability.
func logPage(endpoint string, page, count, total int) {
	slog.Debug("github api page fetched",
		"endpoint", endpoint,
		"page", page,
		"count", count,
		"total", total,
	)
}
