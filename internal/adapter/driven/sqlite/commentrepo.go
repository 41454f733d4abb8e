package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/repopulse/repopulse/internal/domain/model"
)

// CommentRepo persists comment documents keyed by the remote comment ID.
// Reviews land here too, shaped as comments with parent type PR.
type CommentRepo struct {
	db *DB
}

// NewCommentRepo creates a comment repository backed by the given database.
func NewCommentRepo(db *DB) *CommentRepo {
	return &CommentRepo{db: db}
}

const upsertCommentQuery = `
INSERT INTO comments (
	comment_id, repository_id, author, body, parent_type, parent_number,
	in_reply_to_id, created_at, updated_at, collected_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (comment_id) DO UPDATE SET
	repository_id = excluded.repository_id,
	author = excluded.author,
	body = excluded.body,
	parent_type = excluded.parent_type,
	parent_number = excluded.parent_number,
	in_reply_to_id = excluded.in_reply_to_id,
	created_at = excluded.created_at,
	updated_at = excluded.updated_at,
	collected_at = excluded.collected_at
`

const selectCommentColumns = `
SELECT comment_id, repository_id, author, body, parent_type, parent_number,
	in_reply_to_id, created_at, updated_at, collected_at
FROM comments
`

// Upsert writes the full document, replacing any existing row with the same
// comment ID. CollectedAt is stamped here, not taken from the argument.
func (r *CommentRepo) Upsert(ctx context.Context, comment model.Comment) error {
	var inReplyTo any
	if comment.InReplyToID != nil {
		inReplyTo = *comment.InReplyToID
	}

	_, err := r.db.Writer.ExecContext(ctx, upsertCommentQuery,
		comment.ID, comment.RepositoryID, comment.Author, comment.Body,
		string(comment.ParentType), comment.ParentNumber, inReplyTo,
		formatTime(comment.CreatedAt), formatTime(comment.UpdatedAt), formatTime(now()),
	)
	if err != nil {
		return fmt.Errorf("upsert comment %d: %w", comment.ID, err)
	}
	return nil
}

// GetByID returns a single comment, or model.ErrNotFound.
func (r *CommentRepo) GetByID(ctx context.Context, commentID int64) (*model.Comment, error) {
	row := r.db.Reader.QueryRowContext(ctx, selectCommentColumns+"WHERE comment_id = ?", commentID)
	comment, err := scanComment(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("comment %d: %w", commentID, model.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get comment %d: %w", commentID, err)
	}
	return comment, nil
}

// GetByParent returns the comments attached to one PR or issue, oldest first.
func (r *CommentRepo) GetByParent(ctx context.Context, repositoryID int64, parentType model.CommentParentType, parentNumber int) ([]model.Comment, error) {
	rows, err := r.db.Reader.QueryContext(ctx,
		selectCommentColumns+"WHERE repository_id = ? AND parent_type = ? AND parent_number = ? ORDER BY created_at ASC",
		repositoryID, string(parentType), parentNumber)
	if err != nil {
		return nil, fmt.Errorf("list comments for %s #%d: %w", parentType, parentNumber, err)
	}
	defer rows.Close()

	comments := []model.Comment{}
	for rows.Next() {
		comment, err := scanComment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan comment row: %w", err)
		}
		comments = append(comments, *comment)
	}
	return comments, rows.Err()
}

func scanComment(s scanner) (*model.Comment, error) {
	var (
		comment                           model.Comment
		parentType                        string
		inReplyTo                         sql.NullInt64
		createdAt, updatedAt, collectedAt string
	)

	err := s.Scan(
		&comment.ID, &comment.RepositoryID, &comment.Author, &comment.Body,
		&parentType, &comment.ParentNumber, &inReplyTo,
		&createdAt, &updatedAt, &collectedAt,
	)
	if err != nil {
		return nil, err
	}

	comment.ParentType = model.CommentParentType(parentType)
	if inReplyTo.Valid {
		comment.InReplyToID = &inReplyTo.Int64
	}

	if comment.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	if comment.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, fmt.Errorf("parse updated_at: %w", err)
	}
	if comment.CollectedAt, err = parseTime(collectedAt); err != nil {
		return nil, fmt.Errorf("parse collected_at: %w", err)
	}

	return &comment, nil
}
