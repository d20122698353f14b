package server

import (
	"io"

	"ripple/internal/models"
	"ripple/internal/repository"
	"ripple/internal/service"

	"github.com/gofiber/fiber/v2"
)

// ListProfiles returns a filtered page of profiles with derived
// follower, following and post counts.
func (s *Server) ListProfiles(c *fiber.Ctx) error {
	page := parsePage(c)
	// The canonical owner filter is user_id; created_by is accepted as an
	// alias for symmetry with the follow and post list filters.
	createdBy := queryUint(c, "user_id")
	if createdBy == 0 {
		createdBy = queryUint(c, "created_by")
	}
	filter := repository.ProfileFilter{
		CreatedByID: createdBy,
		Email:       c.Query("email"),
		Username:    c.Query("username"),
		FirstName:   c.Query("first_name"),
		LastName:    c.Query("last_name"),
	}

	profiles, count, err := s.profileService.ListProfiles(c.Context(), filter, page.Limit(), page.Offset())
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return respondWithPage(c, page, count, profiles)
}

// CreateProfile creates the caller's profile.
func (s *Server) CreateProfile(c *fiber.Ctx) error {
	var in service.CreateProfileInput
	if err := c.BodyParser(&in); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	in.UserID = currentUserID(c)

	profile, err := s.profileService.CreateProfile(c.Context(), in)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(profile)
}

// GetProfile returns the profile detail view with follower ids,
// following ids and post titles.
func (s *Server) GetProfile(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	detail, err := s.profileService.GetProfileDetail(c.Context(), id)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(detail)
}

// UpdateProfile applies a partial update to a profile.
func (s *Server) UpdateProfile(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var in service.UpdateProfileInput
	if err := c.BodyParser(&in); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	in.UserID = currentUserID(c)
	in.ProfileID = id

	profile, err := s.profileService.UpdateProfile(c.Context(), in)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(profile)
}

// DeleteProfile removes a profile and everything hanging off it.
func (s *Server) DeleteProfile(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.profileService.DeleteProfile(c.Context(), currentUserID(c), id); err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// UploadProfileImage stores a multipart image upload and attaches it to
// the profile.
func (s *Server) UploadProfileImage(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	name, contentType, data, err := readUpload(c, "image")
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	stored, err := s.mediaService.Store(service.MediaCategoryProfiles, name, contentType, data)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	profile, err := s.profileService.SetProfileImage(c.Context(), currentUserID(c), id, stored.Path)
	if err != nil {
		// The profile rejected the upload; don't leave the file orphaned.
		_ = s.mediaService.Remove(stored.Path)
		if stored.ThumbnailPath != "" {
			_ = s.mediaService.Remove(stored.ThumbnailPath)
		}
		return models.RespondWithAppError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(profile)
}

// readUpload pulls the named multipart file out of the request.
func readUpload(c *fiber.Ctx, field string) (name, contentType string, data []byte, err error) {
	fileHeader, err := c.FormFile(field)
	if err != nil {
		return "", "", nil, models.NewValidationError("An image file is required")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return "", "", nil, models.NewValidationError("Could not read the uploaded file")
	}
	defer file.Close()

	data, err = io.ReadAll(file)
	if err != nil {
		return "", "", nil, models.NewValidationError("Could not read the uploaded file")
	}
	return fileHeader.Filename, fileHeader.Header.Get("Content-Type"), data, nil
}
