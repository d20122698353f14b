package service

import (
	"context"

	"ripple/internal/models"
	"ripple/internal/repository"
)

const maxCommentLen = 255

// CommentService manages comments on posts.
type CommentService struct {
	commentRepo repository.CommentRepository
	postRepo    repository.PostRepository
}

// CreateCommentInput carries the fields accepted at comment creation.
type CreateCommentInput struct {
	UserID   uint
	PostID   uint   `json:"post_id"`
	Contents string `json:"comment_contents"`
}

// UpdateCommentInput carries a comment edit.
type UpdateCommentInput struct {
	UserID    uint
	CommentID uint
	Contents  string `json:"comment_contents"`
}

// NewCommentService constructs a CommentService.
func NewCommentService(commentRepo repository.CommentRepository, postRepo repository.PostRepository) *CommentService {
	return &CommentService{commentRepo: commentRepo, postRepo: postRepo}
}

// CreateComment attaches a comment to an existing post.
func (s *CommentService) CreateComment(ctx context.Context, in CreateCommentInput) (*models.Comment, error) {
	if in.Contents == "" {
		return nil, models.NewValidationError("Comment contents are required")
	}
	if len(in.Contents) > maxCommentLen {
		return nil, models.NewValidationError("Comment too long (max 255 characters)")
	}
	if _, err := s.postRepo.GetByID(ctx, in.PostID); err != nil {
		return nil, err
	}

	comment := &models.Comment{
		UserID:   in.UserID,
		PostID:   in.PostID,
		Contents: in.Contents,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}
	return s.commentRepo.GetByID(ctx, comment.ID)
}

// GetComment returns one comment.
func (s *CommentService) GetComment(ctx context.Context, id uint) (*models.Comment, error) {
	return s.commentRepo.GetByID(ctx, id)
}

// ListComments returns a filtered page of comments.
func (s *CommentService) ListComments(ctx context.Context, filter repository.CommentFilter, limit, offset int) ([]models.Comment, int64, error) {
	return s.commentRepo.List(ctx, filter, limit, offset)
}

// UpdateComment edits a comment. Only the author may edit.
func (s *CommentService) UpdateComment(ctx context.Context, in UpdateCommentInput) (*models.Comment, error) {
	comment, err := s.commentRepo.GetByID(ctx, in.CommentID)
	if err != nil {
		return nil, err
	}
	if comment.UserID != in.UserID {
		return nil, models.NewForbiddenError("You can only update your own comments")
	}
	if in.Contents == "" {
		return nil, models.NewValidationError("Comment contents are required")
	}
	if len(in.Contents) > maxCommentLen {
		return nil, models.NewValidationError("Comment too long (max 255 characters)")
	}

	comment.Contents = in.Contents
	if err := s.commentRepo.Update(ctx, comment); err != nil {
		return nil, err
	}
	return s.commentRepo.GetByID(ctx, comment.ID)
}

// DeleteComment removes a comment. Only the author may delete.
func (s *CommentService) DeleteComment(ctx context.Context, userID, commentID uint) error {
	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		return err
	}
	if comment.UserID != userID {
		return models.NewForbiddenError("You can only delete your own comments")
	}
	return s.commentRepo.Delete(ctx, commentID)
}
