package service

import (
	"context"
	"time"

	"ripple/internal/models"
	"ripple/internal/repository"
)

const maxPostContentLen = 10000

// PostService manages posts and their hashtag associations.
type PostService struct {
	postRepo    repository.PostRepository
	profileRepo repository.ProfileRepository
	hashTagRepo repository.HashTagRepository
}

// CreatePostInput carries the fields accepted at post creation. The owner
// is always the authenticated caller, never client-supplied.
type CreatePostInput struct {
	UserID        uint
	Title         string     `json:"title"`
	Content       string     `json:"content"`
	Image         string     `json:"image"`
	HashtagIDs    []uint     `json:"hashtag_ids"`
	IsVisible     *bool      `json:"is_visible"`
	ScheduledTime *time.Time `json:"scheduled_time"`
}

// UpdatePostInput carries a partial post update. Nil fields are left
// untouched; a non-nil HashtagIDs replaces the tag set.
type UpdatePostInput struct {
	UserID        uint
	PostID        uint
	Title         *string    `json:"title"`
	Content       *string    `json:"content"`
	Image         *string    `json:"image"`
	HashtagIDs    *[]uint    `json:"hashtag_ids"`
	IsVisible     *bool      `json:"is_visible"`
	ScheduledTime *time.Time `json:"scheduled_time"`
}

// NewPostService constructs a PostService.
func NewPostService(
	postRepo repository.PostRepository,
	profileRepo repository.ProfileRepository,
	hashTagRepo repository.HashTagRepository,
) *PostService {
	return &PostService{
		postRepo:    postRepo,
		profileRepo: profileRepo,
		hashTagRepo: hashTagRepo,
	}
}

// CreatePost creates a post on the caller's profile.
func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	if in.Content == "" {
		return nil, models.NewValidationError("Content is required")
	}
	if len(in.Content) > maxPostContentLen {
		return nil, models.NewValidationError("Content too long (max 10000 characters)")
	}

	profile, err := s.profileRepo.GetByOwner(ctx, in.UserID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, models.NewValidationError("You need a profile before you can post")
	}

	tags, err := s.hashTagRepo.GetByIDs(ctx, in.HashtagIDs)
	if err != nil {
		return nil, err
	}

	post := &models.Post{
		Title:         in.Title,
		Content:       in.Content,
		Image:         in.Image,
		ProfileID:     profile.ID,
		CreatedByID:   in.UserID,
		IsVisible:     true,
		ScheduledTime: in.ScheduledTime,
	}
	if in.IsVisible != nil {
		post.IsVisible = *in.IsVisible
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}
	if len(tags) > 0 {
		if err := s.postRepo.ReplaceHashtags(ctx, post, tags); err != nil {
			return nil, err
		}
	}

	return s.postRepo.GetByID(ctx, post.ID)
}

// GetPost returns one post. Hidden or future-scheduled posts resolve as
// not found for anyone but their author.
func (s *PostService) GetPost(ctx context.Context, viewerID, id uint) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !s.visibleTo(post, viewerID) {
		return nil, models.NewNotFoundError("Post", id)
	}
	return post, nil
}

func (s *PostService) visibleTo(post *models.Post, viewerID uint) bool {
	if post.CreatedByID == viewerID {
		return true
	}
	if !post.IsVisible {
		return false
	}
	if post.ScheduledTime != nil && post.ScheduledTime.After(time.Now()) {
		return false
	}
	return true
}

// ListPosts returns a filtered page of posts visible to the viewer.
func (s *PostService) ListPosts(ctx context.Context, filter repository.PostFilter, limit, offset int) ([]models.Post, int64, error) {
	return s.postRepo.List(ctx, filter, limit, offset)
}

// UpdatePost applies a partial update. Only the author may update.
func (s *PostService) UpdatePost(ctx context.Context, in UpdatePostInput) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, in.PostID)
	if err != nil {
		return nil, err
	}
	if post.CreatedByID != in.UserID {
		return nil, models.NewForbiddenError("You can only update your own posts")
	}

	if in.Title != nil {
		post.Title = *in.Title
	}
	if in.Content != nil {
		if *in.Content == "" {
			return nil, models.NewValidationError("Content is required")
		}
		if len(*in.Content) > maxPostContentLen {
			return nil, models.NewValidationError("Content too long (max 10000 characters)")
		}
		post.Content = *in.Content
	}
	if in.Image != nil {
		post.Image = *in.Image
	}
	if in.IsVisible != nil {
		post.IsVisible = *in.IsVisible
	}
	if in.ScheduledTime != nil {
		post.ScheduledTime = in.ScheduledTime
	}

	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, err
	}
	if in.HashtagIDs != nil {
		tags, err := s.hashTagRepo.GetByIDs(ctx, *in.HashtagIDs)
		if err != nil {
			return nil, err
		}
		if err := s.postRepo.ReplaceHashtags(ctx, post, tags); err != nil {
			return nil, err
		}
	}

	return s.postRepo.GetByID(ctx, post.ID)
}

// DeletePost removes the post and its dependents. Only the author may
// delete.
func (s *PostService) DeletePost(ctx context.Context, userID, postID uint) error {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return err
	}
	if post.CreatedByID != userID {
		return models.NewForbiddenError("You can only delete your own posts")
	}
	return s.postRepo.Delete(ctx, postID)
}

// SetPostImage stores the path of a freshly uploaded image on the post.
func (s *PostService) SetPostImage(ctx context.Context, userID, postID uint, imagePath string) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post.CreatedByID != userID {
		return nil, models.NewForbiddenError("You can only upload an image to your own posts")
	}

	post.Image = imagePath
	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, err
	}
	return s.postRepo.GetByID(ctx, post.ID)
}
