package repository

import (
	"context"
	"errors"

	"ripple/internal/cache"
	"ripple/internal/models"

	"gorm.io/gorm"
)

// FollowFilter narrows follow list queries to one side of the edge.
type FollowFilter struct {
	CreatedByID uint
	FollowingID uint
}

// FollowRepository defines persistence operations for follow edges.
type FollowRepository interface {
	Create(ctx context.Context, follow *models.UserProfileFollow) error
	GetByID(ctx context.Context, id uint) (*models.UserProfileFollow, error)
	List(ctx context.Context, filter FollowFilter, limit, offset int) ([]models.UserProfileFollow, int64, error)
	Delete(ctx context.Context, id uint) error
	FollowerIDs(ctx context.Context, userID uint) ([]uint, error)
	FollowingIDs(ctx context.Context, userID uint) ([]uint, error)
}

type followRepository struct {
	db *gorm.DB
}

// NewFollowRepository returns a new FollowRepository implementation.
func NewFollowRepository(db *gorm.DB) FollowRepository {
	return &followRepository{db: db}
}

func (r *followRepository) Create(ctx context.Context, follow *models.UserProfileFollow) error {
	if err := r.db.WithContext(ctx).Create(follow).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewConflictError("Follow relationship already exists")
		}
		return models.NewInternalError(err)
	}
	r.invalidateEndpoints(ctx, follow)
	return nil
}

// invalidateEndpoints drops the cached profiles on both sides of the edge
// so their derived follower/following counts are recomputed on next read.
// Follow edges reference user ids; cache keys are profile ids.
func (r *followRepository) invalidateEndpoints(ctx context.Context, follow *models.UserProfileFollow) {
	var profileIDs []uint
	err := r.db.WithContext(ctx).
		Model(&models.UserProfile{}).
		Where("created_by_id IN ?", []uint{follow.CreatedByID, follow.FollowingID}).
		Pluck("id", &profileIDs).Error
	if err != nil {
		return
	}
	for _, id := range profileIDs {
		cache.InvalidateProfile(ctx, id)
	}
}

func (r *followRepository) GetByID(ctx context.Context, id uint) (*models.UserProfileFollow, error) {
	var follow models.UserProfileFollow
	if err := r.db.WithContext(ctx).First(&follow, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("UserProfileFollow", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &follow, nil
}

func (r *followRepository) List(ctx context.Context, filter FollowFilter, limit, offset int) ([]models.UserProfileFollow, int64, error) {
	base := r.db.WithContext(ctx).Model(&models.UserProfileFollow{})
	if filter.CreatedByID != 0 {
		base = base.Where("created_by_id = ?", filter.CreatedByID)
	}
	if filter.FollowingID != 0 {
		base = base.Where("following_id = ?", filter.FollowingID)
	}

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}

	var follows []models.UserProfileFollow
	if err := base.Order("id ASC").Limit(limit).Offset(offset).Find(&follows).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}
	return follows, total, nil
}

func (r *followRepository) Delete(ctx context.Context, id uint) error {
	var follow models.UserProfileFollow
	if err := r.db.WithContext(ctx).First(&follow, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewNotFoundError("UserProfileFollow", id)
		}
		return models.NewInternalError(err)
	}
	if err := r.db.WithContext(ctx).Delete(&models.UserProfileFollow{}, id).Error; err != nil {
		return models.NewInternalError(err)
	}
	r.invalidateEndpoints(ctx, &follow)
	return nil
}

// FollowerIDs returns the ids of users following the given user.
func (r *followRepository) FollowerIDs(ctx context.Context, userID uint) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).
		Model(&models.UserProfileFollow{}).
		Where("following_id = ?", userID).
		Order("created_by_id ASC").
		Pluck("created_by_id", &ids).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return ids, nil
}

// FollowingIDs returns the ids of users the given user follows.
func (r *followRepository) FollowingIDs(ctx context.Context, userID uint) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).
		Model(&models.UserProfileFollow{}).
		Where("created_by_id = ?", userID).
		Order("following_id ASC").
		Pluck("following_id", &ids).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return ids, nil
}
