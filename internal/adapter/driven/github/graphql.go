package github

import (
	"context"
	"fmt"

	"github.com/shurcooL/githubv4"
)

// linkedIssuesQuery resolves the issues a pull request closes. The REST
// payload does not carry this linkage; only the GraphQL API exposes it.
type linkedIssuesQuery struct {
	Repository struct {
		PullRequest struct {
			ClosingIssuesReferences struct {
				Nodes []struct {
					URL githubv4.URI
				}
			} `graphql:"closingIssuesReferences(first: 50)"`
		} `graphql:"pullRequest(number: $number)"`
	} `graphql:"repository(owner: $owner, name: $name)"`
}

// FetchLinkedIssues returns the URLs of issues the pull request closes.
func (c *Client) FetchLinkedIssues(ctx context.Context, owner, repo string, number int) ([]string, error) {
	var q linkedIssuesQuery
	vars := map[string]interface{}{
		"owner":  githubv4.String(owner),
		"name":   githubv4.String(repo),
		"number": githubv4.Int(number),
	}

	if err := c.graphql.Query(ctx, &q, vars); err != nil {
		return nil, fmt.Errorf("fetching linked issues for %s/%s#%d: %w", owner, repo, number, err)
	}

	urls := []string{}
	for _, node := range q.Repository.PullRequest.ClosingIssuesReferences.Nodes {
		if node.URL.URL != nil {
			urls = append(urls, node.URL.String())
		}
	}

	return urls, nil
}
