package model

import "time"

// PRState is the stored state of a pull request. A merge timestamp overrides
// the raw API state, so a merged PR is "merged" even though GitHub reports it
// as "closed".
type PRState string

const (
	PRStateOpen   PRState = "open"
	PRStateClosed PRState = "closed"
	PRStateMerged PRState = "merged"
)

// GitRef is a branch name plus the commit it pointed at when fetched.
type GitRef struct {
	Ref string `json:"ref"`
	SHA string `json:"sha"`
}

// PullRequest is the normalized pull request document, keyed by the remote
// PR ID and linked to its repository by RepositoryID.
type PullRequest struct {
	ID             int64
	Number         int
	RepositoryID   int64
	Title          string
	Description    string
	Author         string
	State          PRState
	CreatedAt      time.Time
	MergedAt       *time.Time
	ClosedAt       *time.Time
	FilesChanged   int
	Additions      int
	Deletions      int
	ReviewComments int
	Commits        int
	LinkedIssues   []string
	Head           GitRef
	Base           GitRef
	URL            string
	CollectedAt    time.Time
}

// IsMerged reports whether the PR has been merged.
func (pr PullRequest) IsMerged() bool {
	return pr.State == PRStateMerged
}
