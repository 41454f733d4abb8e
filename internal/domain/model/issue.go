package model

import "time"

// Issue is the normalized issue document, keyed by the remote issue ID.
// Records that are pull requests in disguise (the issues endpoint returns
// both) are filtered out before an Issue is ever constructed.
type Issue struct {
	ID            int64
	Number        int
	RepositoryID  int64
	Title         string
	Description   string
	Author        string
	State         string
	CreatedAt     time.Time
	ClosedAt      *time.Time
	Labels        []string
	Assignees     []string
	CommentsCount int
	Milestone     *string
	URL           string
	CollectedAt   time.Time
}
