package application

import (
	"context"
	"fmt"

	"github.com/repopulse/repopulse/internal/domain/model"
)

// stubClient serves canned data per repository and records nothing unless a
// hook is set. Unset hooks fall back to the canned fields.
type stubClient struct {
	repository   *model.Repository
	repositories []model.Repository
	commits      []model.Commit
	prs          []model.PullRequest
	prDetails    map[int]*model.PullRequest
	linked       map[int][]string
	issues       []model.Issue
	issueComs    map[int][]model.Comment
	reviewComs   map[int][]model.Comment
	reviews      map[int][]model.Comment
	contributors []string
	stats        map[string][]model.WeekStat
	events       []model.ActorEvent

	repositoryErr error
	commitsErr    error
	prsErr        error
	issuesErr     error
}

func (c *stubClient) FetchRepository(ctx context.Context, owner, repo string) (*model.Repository, error) {
	if c.repositoryErr != nil {
		return nil, c.repositoryErr
	}
	return c.repository, nil
}

func (c *stubClient) FetchUserRepositories(ctx context.Context, user string) ([]model.Repository, error) {
	return c.repositories, nil
}

func (c *stubClient) FetchCommits(ctx context.Context, owner, repo string, window *model.TimeWindow) ([]model.Commit, error) {
	if c.commitsErr != nil {
		return nil, c.commitsErr
	}
	if window == nil {
		return c.commits, nil
	}
	inWindow := []model.Commit{}
	for _, commit := range c.commits {
		if window.Contains(commit.AuthoredAt) {
			inWindow = append(inWindow, commit)
		}
	}
	return inWindow, nil
}

func (c *stubClient) FetchPullRequests(ctx context.Context, owner, repo string) ([]model.PullRequest, error) {
	if c.prsErr != nil {
		return nil, c.prsErr
	}
	return c.prs, nil
}

func (c *stubClient) FetchPullRequestDetail(ctx context.Context, owner, repo string, number int) (*model.PullRequest, error) {
	detail, ok := c.prDetails[number]
	if !ok {
		return nil, fmt.Errorf("no detail for PR #%d: %w", number, model.ErrNotFound)
	}
	return detail, nil
}

func (c *stubClient) FetchLinkedIssues(ctx context.Context, owner, repo string, number int) ([]string, error) {
	return c.linked[number], nil
}

func (c *stubClient) FetchIssues(ctx context.Context, owner, repo string) ([]model.Issue, error) {
	if c.issuesErr != nil {
		return nil, c.issuesErr
	}
	return c.issues, nil
}

func (c *stubClient) FetchIssueComments(ctx context.Context, owner, repo string, issueNumber int) ([]model.Comment, error) {
	return c.issueComs[issueNumber], nil
}

func (c *stubClient) FetchReviewComments(ctx context.Context, owner, repo string, prNumber int) ([]model.Comment, error) {
	return c.reviewComs[prNumber], nil
}

func (c *stubClient) FetchReviews(ctx context.Context, owner, repo string, prNumber int) ([]model.Comment, error) {
	return c.reviews[prNumber], nil
}

func (c *stubClient) FetchContributors(ctx context.Context, owner, repo string) ([]string, error) {
	return c.contributors, nil
}

func (c *stubClient) FetchContributorStats(ctx context.Context, owner, repo string) (map[string][]model.WeekStat, error) {
	return c.stats, nil
}

func (c *stubClient) FetchRepositoryEvents(ctx context.Context, owner, repo string) ([]model.ActorEvent, error) {
	return c.events, nil
}

// memPRStore keeps upserted PRs in a map, like the real store would.
type memPRStore struct {
	docs map[int64]model.PullRequest
}

func newMemPRStore() *memPRStore {
	return &memPRStore{docs: make(map[int64]model.PullRequest)}
}

func (s *memPRStore) Upsert(ctx context.Context, pr model.PullRequest) error {
	s.docs[pr.ID] = pr
	return nil
}

func (s *memPRStore) GetByID(ctx context.Context, prID int64) (*model.PullRequest, error) {
	pr, ok := s.docs[prID]
	if !ok {
		return nil, model.ErrNotFound
	}
	return &pr, nil
}

func (s *memPRStore) GetByRepository(ctx context.Context, repositoryID int64) ([]model.PullRequest, error) {
	prs := []model.PullRequest{}
	for _, pr := range s.docs {
		if pr.RepositoryID == repositoryID {
			prs = append(prs, pr)
		}
	}
	return prs, nil
}

type memIssueStore struct {
	docs map[int64]model.Issue
}

func newMemIssueStore() *memIssueStore {
	return &memIssueStore{docs: make(map[int64]model.Issue)}
}

func (s *memIssueStore) Upsert(ctx context.Context, issue model.Issue) error {
	s.docs[issue.ID] = issue
	return nil
}

func (s *memIssueStore) GetByID(ctx context.Context, issueID int64) (*model.Issue, error) {
	issue, ok := s.docs[issueID]
	if !ok {
		return nil, model.ErrNotFound
	}
	return &issue, nil
}

func (s *memIssueStore) GetByRepository(ctx context.Context, repositoryID int64) ([]model.Issue, error) {
	issues := []model.Issue{}
	for _, issue := range s.docs {
		if issue.RepositoryID == repositoryID {
			issues = append(issues, issue)
		}
	}
	return issues, nil
}

type memCommentStore struct {
	docs map[int64]model.Comment
}

func newMemCommentStore() *memCommentStore {
	return &memCommentStore{docs: make(map[int64]model.Comment)}
}

func (s *memCommentStore) Upsert(ctx context.Context, comment model.Comment) error {
	s.docs[comment.ID] = comment
	return nil
}

func (s *memCommentStore) GetByID(ctx context.Context, commentID int64) (*model.Comment, error) {
	comment, ok := s.docs[commentID]
	if !ok {
		return nil, model.ErrNotFound
	}
	return &comment, nil
}

func (s *memCommentStore) GetByParent(ctx context.Context, repositoryID int64, parentType model.CommentParentType, parentNumber int) ([]model.Comment, error) {
	comments := []model.Comment{}
	for _, c := range s.docs {
		if c.RepositoryID == repositoryID && c.ParentType == parentType && c.ParentNumber == parentNumber {
			comments = append(comments, c)
		}
	}
	return comments, nil
}

type activityKey struct {
	username     string
	repositoryID int64
}

type memActivityStore struct {
	docs map[activityKey]model.ContributorActivity
}

func newMemActivityStore() *memActivityStore {
	return &memActivityStore{docs: make(map[activityKey]model.ContributorActivity)}
}

func (s *memActivityStore) Upsert(ctx context.Context, activity model.ContributorActivity) error {
	s.docs[activityKey{activity.Username, activity.RepositoryID}] = activity
	return nil
}

func (s *memActivityStore) Get(ctx context.Context, username string, repositoryID int64) (*model.ContributorActivity, error) {
	activity, ok := s.docs[activityKey{username, repositoryID}]
	if !ok {
		return nil, model.ErrNotFound
	}
	return &activity, nil
}

func (s *memActivityStore) GetByRepository(ctx context.Context, repositoryID int64) ([]model.ContributorActivity, error) {
	activities := []model.ContributorActivity{}
	for key, activity := range s.docs {
		if key.repositoryID == repositoryID {
			activities = append(activities, activity)
		}
	}
	return activities, nil
}
