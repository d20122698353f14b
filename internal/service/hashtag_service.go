package service

import (
	"context"
	"strings"

	"ripple/internal/models"
	"ripple/internal/repository"
)

const maxHashTagLen = 100

// HashTagService manages hashtag records. Names are not unique; two
// records may carry the same text.
type HashTagService struct {
	hashTagRepo repository.HashTagRepository
}

// NewHashTagService constructs a HashTagService.
func NewHashTagService(hashTagRepo repository.HashTagRepository) *HashTagService {
	return &HashTagService{hashTagRepo: hashTagRepo}
}

// CreateHashTag creates a tag record.
func (s *HashTagService) CreateHashTag(ctx context.Context, name string) (*models.HashTag, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, models.NewValidationError("Name is required")
	}
	if len(name) > maxHashTagLen {
		return nil, models.NewValidationError("Name too long (max 100 characters)")
	}

	tag := &models.HashTag{Name: name}
	if err := s.hashTagRepo.Create(ctx, tag); err != nil {
		return nil, err
	}
	return tag, nil
}

// GetHashTag returns one tag.
func (s *HashTagService) GetHashTag(ctx context.Context, id uint) (*models.HashTag, error) {
	return s.hashTagRepo.GetByID(ctx, id)
}

// ListHashTags returns a page of tags, optionally filtered by name
// substring.
func (s *HashTagService) ListHashTags(ctx context.Context, name string, limit, offset int) ([]models.HashTag, int64, error) {
	return s.hashTagRepo.List(ctx, name, limit, offset)
}

// UpdateHashTag renames a tag.
func (s *HashTagService) UpdateHashTag(ctx context.Context, id uint, name string) (*models.HashTag, error) {
	tag, err := s.hashTagRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, models.NewValidationError("Name is required")
	}
	if len(name) > maxHashTagLen {
		return nil, models.NewValidationError("Name too long (max 100 characters)")
	}

	tag.Name = name
	if err := s.hashTagRepo.Update(ctx, tag); err != nil {
		return nil, err
	}
	return tag, nil
}

// DeleteHashTag removes the tag and its post associations.
func (s *HashTagService) DeleteHashTag(ctx context.Context, id uint) error {
	return s.hashTagRepo.Delete(ctx, id)
}
