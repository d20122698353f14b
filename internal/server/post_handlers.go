package server

import (
	"ripple/internal/models"
	"ripple/internal/repository"
	"ripple/internal/service"

	"github.com/gofiber/fiber/v2"
)

// ListPosts returns a filtered page of posts. Anonymous viewers and
// non-authors only see visible, already-published posts; authors also
// see their own drafts and scheduled posts.
func (s *Server) ListPosts(c *fiber.Ctx) error {
	page := parsePage(c)
	filter := repository.PostFilter{
		ViewerID:    s.optionalUserID(c),
		ProfileID:   queryUint(c, "profile"),
		CreatedByID: queryUint(c, "created_by"),
		HashtagID:   queryUint(c, "hashtag"),
		Title:       c.Query("title"),
	}

	posts, count, err := s.postService.ListPosts(c.Context(), filter, page.Limit(), page.Offset())
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return respondWithPage(c, page, count, posts)
}

// CreatePost creates a post on the caller's profile.
func (s *Server) CreatePost(c *fiber.Ctx) error {
	var in service.CreatePostInput
	if err := c.BodyParser(&in); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	in.UserID = currentUserID(c)

	post, err := s.postService.CreatePost(c.Context(), in)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(post)
}

// GetPost returns one post, honoring visibility for non-authors.
func (s *Server) GetPost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	post, err := s.postService.GetPost(c.Context(), s.optionalUserID(c), id)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(post)
}

// UpdatePost applies a partial update to a post.
func (s *Server) UpdatePost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var in service.UpdatePostInput
	if err := c.BodyParser(&in); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	in.UserID = currentUserID(c)
	in.PostID = id

	post, err := s.postService.UpdatePost(c.Context(), in)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(post)
}

// DeletePost removes a post along with its comments and likes.
func (s *Server) DeletePost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.postService.DeletePost(c.Context(), currentUserID(c), id); err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// UploadPostImage stores a multipart image upload and attaches it to
// the post.
func (s *Server) UploadPostImage(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	name, contentType, data, err := readUpload(c, "image")
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	stored, err := s.mediaService.Store(service.MediaCategoryPosts, name, contentType, data)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	post, err := s.postService.SetPostImage(c.Context(), currentUserID(c), id, stored.Path)
	if err != nil {
		_ = s.mediaService.Remove(stored.Path)
		if stored.ThumbnailPath != "" {
			_ = s.mediaService.Remove(stored.ThumbnailPath)
		}
		return models.RespondWithAppError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(post)
}
