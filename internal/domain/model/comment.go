package model

import "time"

// CommentParentType identifies which kind of record a comment hangs off.
// A PR review is stored as a Comment with parent type PR.
type CommentParentType string

const (
	ParentTypePR    CommentParentType = "PR"
	ParentTypeIssue CommentParentType = "Issue"
)

// Comment is the normalized comment document, keyed by the remote comment ID.
// ParentType and ParentNumber are assigned by the collector from the endpoint
// the comment was fetched through; the raw payload does not self-identify its
// parent. InReplyToID is nil for reviews and for top-level comments.
type Comment struct {
	ID           int64
	RepositoryID int64
	Author       string
	Body         string
	ParentType   CommentParentType
	ParentNumber int
	InReplyToID  *int64
	CreatedAt    time.Time
	UpdatedAt    time.Time
	CollectedAt  time.Time
}
