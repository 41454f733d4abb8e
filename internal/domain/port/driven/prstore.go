package driven

import (
	"context"

	"github.com/repopulse/repopulse/internal/domain/model"
)

// PRStore persists pull request documents keyed by remote PR ID.
// Upsert replaces the full document and stamps CollectedAt at write time;
// repeated collection runs never duplicate. Nothing is ever deleted.
type PRStore interface {
	Upsert(ctx context.Context, pr model.PullRequest) error
	GetByID(ctx context.Context, prID int64) (*model.PullRequest, error)
	GetByRepository(ctx context.Context, repositoryID int64) ([]model.PullRequest, error)
}
