package repository

import (
	"context"
	"errors"

	"ripple/internal/cache"
	"ripple/internal/models"

	"gorm.io/gorm"
)

// LikeFilter narrows like list queries.
type LikeFilter struct {
	PostID      uint
	CreatedByID uint
}

// LikeRepository defines persistence operations for likes.
type LikeRepository interface {
	Create(ctx context.Context, like *models.Like) error
	GetByID(ctx context.Context, id uint) (*models.Like, error)
	List(ctx context.Context, filter LikeFilter, limit, offset int) ([]models.Like, int64, error)
	Delete(ctx context.Context, id uint) error
}

type likeRepository struct {
	db *gorm.DB
}

// NewLikeRepository returns a new LikeRepository implementation.
func NewLikeRepository(db *gorm.DB) LikeRepository {
	return &likeRepository{db: db}
}

// Create inserts a like; the unique (post, user) index resolves concurrent
// duplicates in favour of the first writer.
func (r *likeRepository) Create(ctx context.Context, like *models.Like) error {
	if err := r.db.WithContext(ctx).Create(like).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewConflictError("Post is already liked by this user")
		}
		return models.NewInternalError(err)
	}
	// The post detail snapshot carries its likes.
	cache.InvalidatePost(ctx, like.PostID)
	return nil
}

func (r *likeRepository) GetByID(ctx context.Context, id uint) (*models.Like, error) {
	var like models.Like
	if err := r.db.WithContext(ctx).First(&like, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Like", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &like, nil
}

func (r *likeRepository) List(ctx context.Context, filter LikeFilter, limit, offset int) ([]models.Like, int64, error) {
	base := r.db.WithContext(ctx).Model(&models.Like{})
	if filter.PostID != 0 {
		base = base.Where("post_id = ?", filter.PostID)
	}
	if filter.CreatedByID != 0 {
		base = base.Where("created_by_id = ?", filter.CreatedByID)
	}

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}

	var likes []models.Like
	if err := base.Order("id ASC").Limit(limit).Offset(offset).Find(&likes).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}
	return likes, total, nil
}

func (r *likeRepository) Delete(ctx context.Context, id uint) error {
	var like models.Like
	if err := r.db.WithContext(ctx).Select("id", "post_id").First(&like, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewNotFoundError("Like", id)
		}
		return models.NewInternalError(err)
	}
	if err := r.db.WithContext(ctx).Delete(&models.Like{}, id).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidatePost(ctx, like.PostID)
	return nil
}
