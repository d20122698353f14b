package repository

import (
	"context"
	"errors"
	"time"

	"ripple/internal/cache"
	"ripple/internal/models"

	"gorm.io/gorm"
)

// PostFilter narrows post list queries. ViewerID drives visibility:
// hidden or future-scheduled posts are only returned to their author.
type PostFilter struct {
	ViewerID    uint
	ProfileID   uint
	CreatedByID uint
	HashtagID   uint
	Title       string
}

// PostRepository defines persistence operations for posts.
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id uint) (*models.Post, error)
	List(ctx context.Context, filter PostFilter, limit, offset int) ([]models.Post, int64, error)
	ListTitlesByProfile(ctx context.Context, profileID uint) ([]string, error)
	Update(ctx context.Context, post *models.Post) error
	ReplaceHashtags(ctx context.Context, post *models.Post, tags []models.HashTag) error
	Delete(ctx context.Context, id uint) error
}

type postRepository struct {
	db *gorm.DB
}

// NewPostRepository returns a new PostRepository implementation.
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	if err := r.db.WithContext(ctx).Create(post).Error; err != nil {
		return models.NewInternalError(err)
	}
	// The cached profile carries a derived posts_count.
	cache.InvalidateProfile(ctx, post.ProfileID)
	return nil
}

func (r *postRepository) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	key := cache.PostKey(id)

	err := cache.Aside(ctx, key, &post, cache.PostTTL, func() error {
		q := r.db.WithContext(ctx).
			Preload("CreatedBy").
			Preload("Hashtags").
			Preload("Comments").
			Preload("Likes")
		if err := q.First(&post, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("Post", id)
			}
			return models.NewInternalError(err)
		}
		return nil
	})

	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) List(ctx context.Context, filter PostFilter, limit, offset int) ([]models.Post, int64, error) {
	base := r.db.WithContext(ctx).Model(&models.Post{})

	// Drafts stay private: anyone but the author only sees visible posts
	// whose scheduled time, if any, has passed.
	visible := "(posts.is_visible = ? AND (posts.scheduled_time IS NULL OR posts.scheduled_time <= ?))"
	if filter.ViewerID != 0 {
		base = base.Where("posts.created_by_id = ? OR "+visible, filter.ViewerID, true, time.Now().UTC())
	} else {
		base = base.Where(visible, true, time.Now().UTC())
	}

	if filter.ProfileID != 0 {
		base = base.Where("posts.profile_id = ?", filter.ProfileID)
	}
	if filter.CreatedByID != 0 {
		base = base.Where("posts.created_by_id = ?", filter.CreatedByID)
	}
	if filter.HashtagID != 0 {
		base = base.Joins("JOIN post_hashtags ON post_hashtags.post_id = posts.id").
			Where("post_hashtags.hash_tag_id = ?", filter.HashtagID)
	}
	if filter.Title != "" {
		base = base.Where("LOWER(posts.title) LIKE LOWER(?)", "%"+filter.Title+"%")
	}

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}

	var posts []models.Post
	err := base.
		Preload("CreatedBy").
		Preload("Hashtags").
		Order("posts.id ASC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	if err != nil {
		return nil, 0, models.NewInternalError(err)
	}
	return posts, total, nil
}

// ListTitlesByProfile returns the titles of every post on the profile,
// drafts included. Used by the profile detail view.
func (r *postRepository) ListTitlesByProfile(ctx context.Context, profileID uint) ([]string, error) {
	var titles []string
	err := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("profile_id = ?", profileID).
		Order("id ASC").
		Pluck("title", &titles).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return titles, nil
}

func (r *postRepository) Update(ctx context.Context, post *models.Post) error {
	if err := r.db.WithContext(ctx).Omit("Hashtags").Save(post).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidatePost(ctx, post.ID)
	return nil
}

// ReplaceHashtags swaps the post's tag set for the given one.
func (r *postRepository) ReplaceHashtags(ctx context.Context, post *models.Post, tags []models.HashTag) error {
	if err := r.db.WithContext(ctx).Model(post).Association("Hashtags").Replace(tags); err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidatePost(ctx, post.ID)
	return nil
}

// Delete removes the post and its comments, likes and hashtag links.
func (r *postRepository) Delete(ctx context.Context, id uint) error {
	var profileID uint
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var post models.Post
		if err := tx.Select("id", "profile_id").First(&post, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("Post", id)
			}
			return err
		}
		profileID = post.ProfileID
		if err := tx.Where("post_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", id).Delete(&models.Like{}).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM post_hashtags WHERE post_id = ?", id).Error; err != nil {
			return err
		}
		res := tx.Unscoped().Delete(&models.Post{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return models.NewNotFoundError("Post", id)
		}
		return nil
	})
	if err != nil {
		var appErr *models.AppError
		if errors.As(err, &appErr) {
			return err
		}
		return models.NewInternalError(err)
	}
	cache.InvalidatePost(ctx, id)
	cache.InvalidateProfile(ctx, profileID)
	return nil
}
