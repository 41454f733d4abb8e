package driven

import (
	"context"

	"github.com/repopulse/repopulse/internal/domain/model"
)

// ActivityStore persists contributor activity documents keyed by
// (username, repository ID).
type ActivityStore interface {
	Upsert(ctx context.Context, activity model.ContributorActivity) error
	Get(ctx context.Context, username string, repositoryID int64) (*model.ContributorActivity, error)
	GetByRepository(ctx context.Context, repositoryID int64) ([]model.ContributorActivity, error)
}
