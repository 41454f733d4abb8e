package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/repopulse/repopulse/internal/domain/model"
)

// now stamps collected_at on every upsert. Tests swap it for a fixed clock.
var now = time.Now

// PRRepo persists pull request documents keyed by the remote PR ID.
type PRRepo struct {
	db *DB
}

// NewPRRepo creates a pull request repository backed by the given database.
func NewPRRepo(db *DB) *PRRepo {
	return &PRRepo{db: db}
}

const upsertPRQuery = `
INSERT INTO pull_requests (
	pr_id, number, repository_id, title, description, author, state,
	created_at, merged_at, closed_at,
	files_changed, additions, deletions, review_comments, commits,
	linked_issues, head_ref, head_sha, base_ref, base_sha, url, collected_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (pr_id) DO UPDATE SET
	number = excluded.number,
	repository_id = excluded.repository_id,
	title = excluded.title,
	description = excluded.description,
	author = excluded.author,
	state = excluded.state,
	created_at = excluded.created_at,
	merged_at = excluded.merged_at,
	closed_at = excluded.closed_at,
	files_changed = excluded.files_changed,
	additions = excluded.additions,
	deletions = excluded.deletions,
	review_comments = excluded.review_comments,
	commits = excluded.commits,
	linked_issues = excluded.linked_issues,
	head_ref = excluded.head_ref,
	head_sha = excluded.head_sha,
	base_ref = excluded.base_ref,
	base_sha = excluded.base_sha,
	url = excluded.url,
	collected_at = excluded.collected_at
`

const selectPRColumns = `
SELECT pr_id, number, repository_id, title, description, author, state,
	created_at, merged_at, closed_at,
	files_changed, additions, deletions, review_comments, commits,
	linked_issues, head_ref, head_sha, base_ref, base_sha, url, collected_at
FROM pull_requests
`

// Upsert writes the full document, replacing any existing row with the same
// PR ID. CollectedAt is stamped here, not taken from the argument.
func (r *PRRepo) Upsert(ctx context.Context, pr model.PullRequest) error {
	linked, err := json.Marshal(pr.LinkedIssues)
	if err != nil {
		return fmt.Errorf("marshal linked issues for PR %d: %w", pr.ID, err)
	}

	_, err = r.db.Writer.ExecContext(ctx, upsertPRQuery,
		pr.ID, pr.Number, pr.RepositoryID, pr.Title, pr.Description, pr.Author, string(pr.State),
		formatTime(pr.CreatedAt), formatTimePtr(pr.MergedAt), formatTimePtr(pr.ClosedAt),
		pr.FilesChanged, pr.Additions, pr.Deletions, pr.ReviewComments, pr.Commits,
		string(linked), pr.Head.Ref, pr.Head.SHA, pr.Base.Ref, pr.Base.SHA, pr.URL,
		formatTime(now()),
	)
	if err != nil {
		return fmt.Errorf("upsert PR %d: %w", pr.ID, err)
	}
	return nil
}

// GetByID returns a single pull request, or model.ErrNotFound.
func (r *PRRepo) GetByID(ctx context.Context, prID int64) (*model.PullRequest, error) {
	row := r.db.Reader.QueryRowContext(ctx, selectPRColumns+"WHERE pr_id = ?", prID)
	pr, err := scanPR(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("PR %d: %w", prID, model.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get PR %d: %w", prID, err)
	}
	return pr, nil
}

// GetByRepository returns every stored pull request for a repository, newest
// created first.
func (r *PRRepo) GetByRepository(ctx context.Context, repositoryID int64) ([]model.PullRequest, error) {
	rows, err := r.db.Reader.QueryContext(ctx,
		selectPRColumns+"WHERE repository_id = ? ORDER BY created_at DESC", repositoryID)
	if err != nil {
		return nil, fmt.Errorf("list PRs for repository %d: %w", repositoryID, err)
	}
	defer rows.Close()

	prs := []model.PullRequest{}
	for rows.Next() {
		pr, err := scanPR(rows)
		if err != nil {
			return nil, fmt.Errorf("scan PR row: %w", err)
		}
		prs = append(prs, *pr)
	}
	return prs, rows.Err()
}

func scanPR(s scanner) (*model.PullRequest, error) {
	var (
		pr                             model.PullRequest
		state                          string
		createdAt, collectedAt, linked string
		mergedAt, closedAt             sql.NullString
	)

	err := s.Scan(
		&pr.ID, &pr.Number, &pr.RepositoryID, &pr.Title, &pr.Description, &pr.Author, &state,
		&createdAt, &mergedAt, &closedAt,
		&pr.FilesChanged, &pr.Additions, &pr.Deletions, &pr.ReviewComments, &pr.Commits,
		&linked, &pr.Head.Ref, &pr.Head.SHA, &pr.Base.Ref, &pr.Base.SHA, &pr.URL, &collectedAt,
	)
	if err != nil {
		return nil, err
	}

	pr.State = model.PRState(state)

	if pr.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	if pr.MergedAt, err = parseTimePtr(mergedAt); err != nil {
		return nil, fmt.Errorf("parse merged_at: %w", err)
	}
	if pr.ClosedAt, err = parseTimePtr(closedAt); err != nil {
		return nil, fmt.Errorf("parse closed_at: %w", err)
	}
	if pr.CollectedAt, err = parseTime(collectedAt); err != nil {
		return nil, fmt.Errorf("parse collected_at: %w", err)
	}
	if err := json.Unmarshal([]byte(linked), &pr.LinkedIssues); err != nil {
		return nil, fmt.Errorf("unmarshal linked issues: %w", err)
	}

	return &pr, nil
}
