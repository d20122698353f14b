package server

import (
	"ripple/internal/models"
	"ripple/internal/repository"

	"github.com/gofiber/fiber/v2"
)

type createFollowRequest struct {
	FollowingID uint `json:"following_id"`
}

// ListFollows returns a filtered page of follow edges.
func (s *Server) ListFollows(c *fiber.Ctx) error {
	page := parsePage(c)
	filter := repository.FollowFilter{
		CreatedByID: queryUint(c, "created_by"),
		FollowingID: queryUint(c, "following"),
	}

	follows, count, err := s.followService.ListFollows(c.Context(), filter, page.Limit(), page.Offset())
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return respondWithPage(c, page, count, follows)
}

// CreateFollow adds an edge from the caller to the target user.
func (s *Server) CreateFollow(c *fiber.Ctx) error {
	var req createFollowRequest
	if err := c.BodyParser(&req); err != nil || req.FollowingID == 0 {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("A user to follow is required"))
	}

	edge, err := s.followService.Follow(c.Context(), currentUserID(c), req.FollowingID)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(edge)
}

// GetFollow returns one follow edge.
func (s *Server) GetFollow(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	edge, err := s.followService.GetFollow(c.Context(), id)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(edge)
}

// DeleteFollow removes a follow edge owned by the caller.
func (s *Server) DeleteFollow(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.followService.Unfollow(c.Context(), currentUserID(c), id); err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
