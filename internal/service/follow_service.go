package service

import (
	"context"

	"ripple/internal/models"
	"ripple/internal/repository"
)

// FollowService manages the directed follow graph.
type FollowService struct {
	followRepo repository.FollowRepository
	userRepo   repository.UserRepository
}

// NewFollowService constructs a FollowService.
func NewFollowService(followRepo repository.FollowRepository, userRepo repository.UserRepository) *FollowService {
	return &FollowService{followRepo: followRepo, userRepo: userRepo}
}

// Follow inserts an edge from the caller to the target user. Self-follows
// are invalid; duplicate edges are conflicts.
func (s *FollowService) Follow(ctx context.Context, userID, followingID uint) (*models.UserProfileFollow, error) {
	if userID == followingID {
		return nil, models.NewValidationError("You cannot follow yourself")
	}
	if _, err := s.userRepo.GetByID(ctx, followingID); err != nil {
		return nil, err
	}

	edge := &models.UserProfileFollow{
		CreatedByID: userID,
		FollowingID: followingID,
	}
	if err := s.followRepo.Create(ctx, edge); err != nil {
		return nil, err
	}
	return edge, nil
}

// GetFollow returns one follow edge.
func (s *FollowService) GetFollow(ctx context.Context, id uint) (*models.UserProfileFollow, error) {
	return s.followRepo.GetByID(ctx, id)
}

// ListFollows returns a filtered page of follow edges.
func (s *FollowService) ListFollows(ctx context.Context, filter repository.FollowFilter, limit, offset int) ([]models.UserProfileFollow, int64, error) {
	return s.followRepo.List(ctx, filter, limit, offset)
}

// Unfollow removes the edge. Only the follower may remove their own edge.
func (s *FollowService) Unfollow(ctx context.Context, userID, edgeID uint) error {
	edge, err := s.followRepo.GetByID(ctx, edgeID)
	if err != nil {
		return err
	}
	if edge.CreatedByID != userID {
		return models.NewForbiddenError("You can only remove your own follows")
	}
	return s.followRepo.Delete(ctx, edgeID)
}
