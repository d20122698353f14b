package server

import (
	"ripple/internal/models"

	"github.com/gofiber/fiber/v2"
)

type hashTagRequest struct {
	Name string `json:"name"`
}

// ListHashTags returns a page of hashtags, optionally filtered by a
// case-insensitive name substring.
func (s *Server) ListHashTags(c *fiber.Ctx) error {
	page := parsePage(c)

	tags, count, err := s.hashTagService.ListHashTags(c.Context(), c.Query("name"), page.Limit(), page.Offset())
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return respondWithPage(c, page, count, tags)
}

// CreateHashTag creates a tag record.
func (s *Server) CreateHashTag(c *fiber.Ctx) error {
	var req hashTagRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	tag, err := s.hashTagService.CreateHashTag(c.Context(), req.Name)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(tag)
}

// GetHashTag returns one tag.
func (s *Server) GetHashTag(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	tag, err := s.hashTagService.GetHashTag(c.Context(), id)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(tag)
}

// UpdateHashTag renames a tag.
func (s *Server) UpdateHashTag(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req hashTagRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	tag, err := s.hashTagService.UpdateHashTag(c.Context(), id, req.Name)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(tag)
}

// DeleteHashTag removes a tag and detaches it from its posts.
func (s *Server) DeleteHashTag(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.hashTagService.DeleteHashTag(c.Context(), id); err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
