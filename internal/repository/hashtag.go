package repository

import (
	"context"
	"errors"

	"ripple/internal/models"

	"gorm.io/gorm"
)

// HashTagRepository defines persistence operations for hashtags.
type HashTagRepository interface {
	Create(ctx context.Context, tag *models.HashTag) error
	GetByID(ctx context.Context, id uint) (*models.HashTag, error)
	GetByIDs(ctx context.Context, ids []uint) ([]models.HashTag, error)
	List(ctx context.Context, name string, limit, offset int) ([]models.HashTag, int64, error)
	Update(ctx context.Context, tag *models.HashTag) error
	Delete(ctx context.Context, id uint) error
}

type hashTagRepository struct {
	db *gorm.DB
}

// NewHashTagRepository returns a new HashTagRepository implementation.
func NewHashTagRepository(db *gorm.DB) HashTagRepository {
	return &hashTagRepository{db: db}
}

func (r *hashTagRepository) Create(ctx context.Context, tag *models.HashTag) error {
	if err := r.db.WithContext(ctx).Create(tag).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *hashTagRepository) GetByID(ctx context.Context, id uint) (*models.HashTag, error) {
	var tag models.HashTag
	if err := r.db.WithContext(ctx).First(&tag, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("HashTag", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &tag, nil
}

// GetByIDs resolves a set of tag ids, failing if any is unknown.
func (r *hashTagRepository) GetByIDs(ctx context.Context, ids []uint) ([]models.HashTag, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var tags []models.HashTag
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&tags).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	if len(tags) != len(dedupeIDs(ids)) {
		return nil, models.NewValidationError("One or more hashtags do not exist")
	}
	return tags, nil
}

func (r *hashTagRepository) List(ctx context.Context, name string, limit, offset int) ([]models.HashTag, int64, error) {
	base := r.db.WithContext(ctx).Model(&models.HashTag{})
	if name != "" {
		base = base.Where("LOWER(name) LIKE LOWER(?)", "%"+name+"%")
	}

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}

	var tags []models.HashTag
	if err := base.Order("id ASC").Limit(limit).Offset(offset).Find(&tags).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}
	return tags, total, nil
}

func (r *hashTagRepository) Update(ctx context.Context, tag *models.HashTag) error {
	if err := r.db.WithContext(ctx).Save(tag).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *hashTagRepository) Delete(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM post_hashtags WHERE hash_tag_id = ?", id).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.HashTag{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return models.NewNotFoundError("HashTag", id)
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
	return nil
}

func dedupeIDs(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := ids[:0:0]
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
