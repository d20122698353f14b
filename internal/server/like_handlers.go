package server

import (
	"ripple/internal/models"
	"ripple/internal/repository"

	"github.com/gofiber/fiber/v2"
)

type createLikeRequest struct {
	PostID uint `json:"post_id"`
}

// ListLikes returns a filtered page of likes.
func (s *Server) ListLikes(c *fiber.Ctx) error {
	page := parsePage(c)
	filter := repository.LikeFilter{
		PostID:      queryUint(c, "post"),
		CreatedByID: queryUint(c, "created_by"),
	}

	likes, count, err := s.likeService.ListLikes(c.Context(), filter, page.Limit(), page.Offset())
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return respondWithPage(c, page, count, likes)
}

// CreateLike likes a post for the caller.
func (s *Server) CreateLike(c *fiber.Ctx) error {
	var req createLikeRequest
	if err := c.BodyParser(&req); err != nil || req.PostID == 0 {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("A post to like is required"))
	}

	like, err := s.likeService.CreateLike(c.Context(), currentUserID(c), req.PostID)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(like)
}

// GetLike returns one like.
func (s *Server) GetLike(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	like, err := s.likeService.GetLike(c.Context(), id)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(like)
}

// DeleteLike removes a like owned by the caller.
func (s *Server) DeleteLike(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.likeService.DeleteLike(c.Context(), currentUserID(c), id); err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
