package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/repopulse/repopulse/internal/domain/model"
)

// IssueRepo persists issue documents keyed by the remote issue ID.
type IssueRepo struct {
	db *DB
}

// NewIssueRepo creates an issue repository backed by the given database.
func NewIssueRepo(db *DB) *IssueRepo {
	return &IssueRepo{db: db}
}

const upsertIssueQuery = `
INSERT INTO issues (
	issue_id, number, repository_id, title, description, author, state,
	created_at, closed_at, labels, assignees, comments_count, milestone,
	url, collected_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (issue_id) DO UPDATE SET
	number = excluded.number,
	repository_id = excluded.repository_id,
	title = excluded.title,
	description = excluded.description,
	author = excluded.author,
	state = excluded.state,
	created_at = excluded.created_at,
	closed_at = excluded.closed_at,
	labels = excluded.labels,
	assignees = excluded.assignees,
	comments_count = excluded.comments_count,
	milestone = excluded.milestone,
	url = excluded.url,
	collected_at = excluded.collected_at
`

const selectIssueColumns = `
SELECT issue_id, number, repository_id, title, description, author, state,
	created_at, closed_at, labels, assignees, comments_count, milestone,
	url, collected_at
FROM issues
`

// Upsert writes the full document, replacing any existing row with the same
// issue ID. CollectedAt is stamped here, not taken from the argument.
func (r *IssueRepo) Upsert(ctx context.Context, issue model.Issue) error {
	labels, err := json.Marshal(issue.Labels)
	if err != nil {
		return fmt.Errorf("marshal labels for issue %d: %w", issue.ID, err)
	}
	assignees, err := json.Marshal(issue.Assignees)
	if err != nil {
		return fmt.Errorf("marshal assignees for issue %d: %w", issue.ID, err)
	}

	var milestone any
	if issue.Milestone != nil {
		milestone = *issue.Milestone
	}

	_, err = r.db.Writer.ExecContext(ctx, upsertIssueQuery,
		issue.ID, issue.Number, issue.RepositoryID, issue.Title, issue.Description,
		issue.Author, issue.State,
		formatTime(issue.CreatedAt), formatTimePtr(issue.ClosedAt),
		string(labels), string(assignees), issue.CommentsCount, milestone,
		issue.URL, formatTime(now()),
	)
	if err != nil {
		return fmt.Errorf("upsert issue %d: %w", issue.ID, err)
	}
	return nil
}

// GetByID returns a single issue, or model.ErrNotFound.
func (r *IssueRepo) GetByID(ctx context.Context, issueID int64) (*model.Issue, error) {
	row := r.db.Reader.QueryRowContext(ctx, selectIssueColumns+"WHERE issue_id = ?", issueID)
	issue, err := scanIssue(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("issue %d: %w", issueID, model.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get issue %d: %w", issueID, err)
	}
	return issue, nil
}

// GetByRepository returns every stored issue for a repository, newest created
// first.
func (r *IssueRepo) GetByRepository(ctx context.Context, repositoryID int64) ([]model.Issue, error) {
	rows, err := r.db.Reader.QueryContext(ctx,
		selectIssueColumns+"WHERE repository_id = ? ORDER BY created_at DESC", repositoryID)
	if err != nil {
		return nil, fmt.Errorf("list issues for repository %d: %w", repositoryID, err)
	}
	defer rows.Close()

	issues := []model.Issue{}
	for rows.Next() {
		issue, err := scanIssue(rows)
		if err != nil {
			return nil, fmt.Errorf("scan issue row: %w", err)
		}
		issues = append(issues, *issue)
	}
	return issues, rows.Err()
}

func scanIssue(s scanner) (*model.Issue, error) {
	var (
		issue                  model.Issue
		createdAt, collectedAt string
		closedAt, milestone    sql.NullString
		labels, assignees      string
	)

	err := s.Scan(
		&issue.ID, &issue.Number, &issue.RepositoryID, &issue.Title, &issue.Description,
		&issue.Author, &issue.State,
		&createdAt, &closedAt, &labels, &assignees, &issue.CommentsCount, &milestone,
		&issue.URL, &collectedAt,
	)
	if err != nil {
		return nil, err
	}

	if issue.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	if issue.ClosedAt, err = parseTimePtr(closedAt); err != nil {
		return nil, fmt.Errorf("parse closed_at: %w", err)
	}
	if issue.CollectedAt, err = parseTime(collectedAt); err != nil {
		return nil, fmt.Errorf("parse collected_at: %w", err)
	}
	if milestone.Valid {
		issue.Milestone = &milestone.String
	}
	if err := json.Unmarshal([]byte(labels), &issue.Labels); err != nil {
		return nil, fmt.Errorf("unmarshal labels: %w", err)
	}
	if err := json.Unmarshal([]byte(assignees), &issue.Assignees); err != nil {
		return nil, fmt.Errorf("unmarshal assignees: %w", err)
	}

	return &issue, nil
}
