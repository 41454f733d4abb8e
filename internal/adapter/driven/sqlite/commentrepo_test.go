package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/repopulse/repopulse/internal/domain/model"
)

func sampleComment(id int64, parent model.CommentParentType, number int) model.Comment {
	return model.Comment{
		ID:           id,
		RepositoryID: 7,
		Author:       "reviewer",
		Body:         "Looks good overall.",
		ParentType:   parent,
		ParentNumber: number,
		CreatedAt:    time.Date(2026, 2, 5, 14, 0, 0, 0, time.UTC),
		UpdatedAt:    time.Date(2026, 2, 5, 15, 0, 0, 0, time.UTC),
	}
}

func TestCommentRepoUpsertAndGet(t *testing.T) {
	db := newTestDB(t)
	repo := NewCommentRepo(db)
	ctx := context.Background()

	replyTo := int64(90)
	want := sampleComment(100, model.ParentTypePR, 42)
	want.InReplyToID = &replyTo
	require.NoError(t, repo.Upsert(ctx, want))

	got, err := repo.GetByID(ctx, want.ID)
	require.NoError(t, err)

	assert.Equal(t, model.ParentTypePR, got.ParentType)
	assert.Equal(t, 42, got.ParentNumber)
	require.NotNil(t, got.InReplyToID)
	assert.Equal(t, int64(90), *got.InReplyToID)
	assert.False(t, got.CollectedAt.IsZero())
}

func TestCommentRepoGetByParentFiltersTypeAndNumber(t *testing.T) {
	db := newTestDB(t)
	repo := NewCommentRepo(db)
	ctx := context.Background()

	// Same parent number on both a PR and an issue; the type disambiguates.
	require.NoError(t, repo.Upsert(ctx, sampleComment(100, model.ParentTypePR, 42)))
	require.NoError(t, repo.Upsert(ctx, sampleComment(101, model.ParentTypeIssue, 42)))
	require.NoError(t, repo.Upsert(ctx, sampleComment(102, model.ParentTypePR, 43)))

	comments, err := repo.GetByParent(ctx, 7, model.ParentTypePR, 42)
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Equal(t, int64(100), comments[0].ID)
}

func TestCommentRepoUpsertIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	repo := NewCommentRepo(db)
	ctx := context.Background()

	comment := sampleComment(100, model.ParentTypeIssue, 40)
	require.NoError(t, repo.Upsert(ctx, comment))

	comment.Body = "Looks good overall. Edited."
	require.NoError(t, repo.Upsert(ctx, comment))

	comments, err := repo.GetByParent(ctx, 7, model.ParentTypeIssue, 40)
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Equal(t, "Looks good overall. Edited.", comments[0].Body)
	assert.Nil(t, comments[0].InReplyToID)
}
