package repository

import (
	"context"
	"errors"

	"ripple/internal/cache"
	"ripple/internal/models"

	"gorm.io/gorm"
)

// ProfileFilter narrows profile list queries. String fields are
// case-insensitive substring matches against the owning user; CreatedByID
// is an exact match.
type ProfileFilter struct {
	CreatedByID uint
	Email       string
	Username    string
	FirstName   string
	LastName    string
}

// ProfileRepository defines persistence operations for user profiles.
type ProfileRepository interface {
	Create(ctx context.Context, profile *models.UserProfile) error
	GetByID(ctx context.Context, id uint) (*models.UserProfile, error)
	GetByOwner(ctx context.Context, userID uint) (*models.UserProfile, error)
	List(ctx context.Context, filter ProfileFilter, limit, offset int) ([]models.UserProfile, int64, error)
	Update(ctx context.Context, profile *models.UserProfile) error
	Delete(ctx context.Context, id uint) error
}

type profileRepository struct {
	db *gorm.DB
}

// NewProfileRepository returns a new ProfileRepository implementation.
func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &profileRepository{db: db}
}

// profileCountSelect annotates each row with live relation counts. Follow
// edges reference users, so the follower/following counts pivot on the
// profile owner's user id.
const profileCountSelect = "user_profiles.*, " +
	"(SELECT COUNT(*) FROM user_profile_follows WHERE user_profile_follows.following_id = user_profiles.created_by_id) AS followers_count, " +
	"(SELECT COUNT(*) FROM user_profile_follows WHERE user_profile_follows.created_by_id = user_profiles.created_by_id) AS followings_count, " +
	"(SELECT COUNT(*) FROM posts WHERE posts.profile_id = user_profiles.id AND posts.deleted_at IS NULL) AS posts_count"

func (r *profileRepository) Create(ctx context.Context, profile *models.UserProfile) error {
	if err := r.db.WithContext(ctx).Create(profile).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewConflictError("User already has a profile")
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *profileRepository) GetByID(ctx context.Context, id uint) (*models.UserProfile, error) {
	var profile models.UserProfile
	key := cache.ProfileKey(id)

	err := cache.Aside(ctx, key, &profile, cache.ProfileTTL, func() error {
		q := r.db.WithContext(ctx).
			Select(profileCountSelect).
			Preload("CreatedBy").
			Where("user_profiles.id = ?", id)
		if err := q.First(&profile).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("UserProfile", id)
			}
			return models.NewInternalError(err)
		}
		return nil
	})

	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *profileRepository) GetByOwner(ctx context.Context, userID uint) (*models.UserProfile, error) {
	var profile models.UserProfile
	err := r.db.WithContext(ctx).
		Select(profileCountSelect).
		Preload("CreatedBy").
		Where("user_profiles.created_by_id = ?", userID).
		First(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &profile, nil
}

func (r *profileRepository) List(ctx context.Context, filter ProfileFilter, limit, offset int) ([]models.UserProfile, int64, error) {
	base := r.db.WithContext(ctx).
		Model(&models.UserProfile{}).
		Joins("JOIN users ON users.id = user_profiles.created_by_id")

	if filter.CreatedByID != 0 {
		base = base.Where("user_profiles.created_by_id = ?", filter.CreatedByID)
	}
	// LOWER + LIKE rather than ILIKE so the query plans on both backends.
	if filter.Email != "" {
		base = base.Where("LOWER(users.email) LIKE LOWER(?)", "%"+filter.Email+"%")
	}
	if filter.Username != "" {
		base = base.Where("LOWER(users.username) LIKE LOWER(?)", "%"+filter.Username+"%")
	}
	if filter.FirstName != "" {
		base = base.Where("LOWER(users.first_name) LIKE LOWER(?)", "%"+filter.FirstName+"%")
	}
	if filter.LastName != "" {
		base = base.Where("LOWER(users.last_name) LIKE LOWER(?)", "%"+filter.LastName+"%")
	}

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}

	var profiles []models.UserProfile
	err := base.
		Select(profileCountSelect).
		Preload("CreatedBy").
		Order("user_profiles.id ASC").
		Limit(limit).
		Offset(offset).
		Find(&profiles).Error
	if err != nil {
		return nil, 0, models.NewInternalError(err)
	}
	return profiles, total, nil
}

func (r *profileRepository) Update(ctx context.Context, profile *models.UserProfile) error {
	if err := r.db.WithContext(ctx).Save(profile).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewConflictError("User already has a profile")
		}
		return models.NewInternalError(err)
	}
	cache.InvalidateProfile(ctx, profile.ID)
	return nil
}

// Delete removes the profile together with its posts and their dependents.
func (r *profileRepository) Delete(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var postIDs []uint
		if err := tx.Model(&models.Post{}).Where("profile_id = ?", id).Pluck("id", &postIDs).Error; err != nil {
			return err
		}
		if len(postIDs) > 0 {
			if err := tx.Where("post_id IN ?", postIDs).Delete(&models.Comment{}).Error; err != nil {
				return err
			}
			if err := tx.Where("post_id IN ?", postIDs).Delete(&models.Like{}).Error; err != nil {
				return err
			}
			if err := tx.Exec("DELETE FROM post_hashtags WHERE post_id IN ?", postIDs).Error; err != nil {
				return err
			}
			if err := tx.Unscoped().Where("id IN ?", postIDs).Delete(&models.Post{}).Error; err != nil {
				return err
			}
		}
		res := tx.Unscoped().Delete(&models.UserProfile{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return models.NewNotFoundError("UserProfile", id)
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
	cache.InvalidateProfile(ctx, id)
	return nil
}
