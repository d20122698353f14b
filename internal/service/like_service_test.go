package service

import (
	"context"
	"testing"

	"ripple/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLikeService_CreateLike(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("missing post propagates", func(t *testing.T) {
		t.Parallel()
		postRepo := noopPostRepo()
		postRepo.getByIDFn = func(_ context.Context, id uint) (*models.Post, error) {
			return nil, models.NewNotFoundError("Post", id)
		}
		svc := NewLikeService(noopLikeRepo(), postRepo)
		_, err := svc.CreateLike(ctx, 1, 99)
		assertAppErrorCode(t, err, models.CodeNotFound)
	})

	t.Run("duplicate like is a conflict", func(t *testing.T) {
		t.Parallel()
		likeRepo := noopLikeRepo()
		likeRepo.createFn = func(_ context.Context, _ *models.Like) error {
			return models.NewConflictError("Post is already liked by this user")
		}
		svc := NewLikeService(likeRepo, noopPostRepo())
		_, err := svc.CreateLike(ctx, 1, 1)
		assertConflictError(t, err)
	})

	t.Run("success sets owner from caller", func(t *testing.T) {
		t.Parallel()
		svc := NewLikeService(noopLikeRepo(), noopPostRepo())
		like, err := svc.CreateLike(ctx, 6, 3)
		require.NoError(t, err)
		assert.EqualValues(t, 6, like.CreatedByID)
		assert.EqualValues(t, 3, like.PostID)
	})
}

func TestLikeService_DeleteLike_OwnerOnly(t *testing.T) {
	t.Parallel()

	likeRepo := noopLikeRepo()
	likeRepo.getByIDFn = func(_ context.Context, id uint) (*models.Like, error) {
		return &models.Like{ID: id, CreatedByID: 6, PostID: 3}, nil
	}
	svc := NewLikeService(likeRepo, noopPostRepo())

	assertForbiddenError(t, svc.DeleteLike(context.Background(), 7, 1))
	assert.NoError(t, svc.DeleteLike(context.Background(), 6, 1))
}
