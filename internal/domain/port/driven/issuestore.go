package driven

import (
	"context"

	"github.com/repopulse/repopulse/internal/domain/model"
)

// IssueStore persists issue documents keyed by remote issue ID.
type IssueStore interface {
	Upsert(ctx context.Context, issue model.Issue) error
	GetByID(ctx context.Context, issueID int64) (*model.Issue, error)
	GetByRepository(ctx context.Context, repositoryID int64) ([]model.Issue, error)
}
