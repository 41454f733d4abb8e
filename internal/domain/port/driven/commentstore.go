package driven

import (
	"context"

	"github.com/repopulse/repopulse/internal/domain/model"
)

// CommentStore persists comment documents keyed by remote comment ID.
type CommentStore interface {
	Upsert(ctx context.Context, comment model.Comment) error
	GetByID(ctx context.Context, commentID int64) (*model.Comment, error)
	GetByParent(ctx context.Context, repositoryID int64, parentType model.CommentParentType, parentNumber int) ([]model.Comment, error)
}
