package service

import (
	"context"

	"ripple/internal/models"
	"ripple/internal/repository"
)

// LikeService manages likes on posts.
type LikeService struct {
	likeRepo repository.LikeRepository
	postRepo repository.PostRepository
}

// NewLikeService constructs a LikeService.
func NewLikeService(likeRepo repository.LikeRepository, postRepo repository.PostRepository) *LikeService {
	return &LikeService{likeRepo: likeRepo, postRepo: postRepo}
}

// CreateLike likes a post for the caller. A second like on the same post
// by the same user is a conflict; the unique constraint settles races.
func (s *LikeService) CreateLike(ctx context.Context, userID, postID uint) (*models.Like, error) {
	if _, err := s.postRepo.GetByID(ctx, postID); err != nil {
		return nil, err
	}

	like := &models.Like{
		PostID:      postID,
		CreatedByID: userID,
	}
	if err := s.likeRepo.Create(ctx, like); err != nil {
		return nil, err
	}
	return like, nil
}

// GetLike returns one like.
func (s *LikeService) GetLike(ctx context.Context, id uint) (*models.Like, error) {
	return s.likeRepo.GetByID(ctx, id)
}

// ListLikes returns a filtered page of likes.
func (s *LikeService) ListLikes(ctx context.Context, filter repository.LikeFilter, limit, offset int) ([]models.Like, int64, error) {
	return s.likeRepo.List(ctx, filter, limit, offset)
}

// DeleteLike removes a like. Only its owner may remove it.
func (s *LikeService) DeleteLike(ctx context.Context, userID, likeID uint) error {
	like, err := s.likeRepo.GetByID(ctx, likeID)
	if err != nil {
		return err
	}
	if like.CreatedByID != userID {
		return models.NewForbiddenError("You can only remove your own likes")
	}
	return s.likeRepo.Delete(ctx, likeID)
}
