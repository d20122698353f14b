package server

import (
	"ripple/internal/models"
	"ripple/internal/service"

	"github.com/gofiber/fiber/v2"
)

type obtainTokenRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshTokenRequest struct {
	Refresh string `json:"refresh"`
}

type verifyTokenRequest struct {
	Token string `json:"token"`
}

type logoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// Register handles account creation.
func (s *Server) Register(c *fiber.Ctx) error {
	var in service.RegisterInput
	if err := c.BodyParser(&in); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.userService.Register(c.Context(), in)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(user)
}

// ObtainToken exchanges credentials for an access/refresh token pair.
func (s *Server) ObtainToken(c *fiber.Ctx) error {
	var req obtainTokenRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.tokenService.Authenticate(c.Context(), req.Email, req.Password)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	pair, err := s.tokenService.IssuePair(c.Context(), user.ID)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(pair)
}

// RefreshToken rotates a refresh token into a fresh pair.
func (s *Server) RefreshToken(c *fiber.Ctx) error {
	var req refreshTokenRequest
	if err := c.BodyParser(&req); err != nil || req.Refresh == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Refresh token is required"))
	}

	pair, err := s.tokenService.Refresh(c.Context(), req.Refresh)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(pair)
}

// VerifyToken checks that a token is well-formed, unexpired and not
// revoked. An empty JSON object mirrors a passing verification.
func (s *Server) VerifyToken(c *fiber.Ctx) error {
	var req verifyTokenRequest
	if err := c.BodyParser(&req); err != nil || req.Token == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Token is required"))
	}

	if _, err := s.tokenService.Verify(c.Context(), req.Token, ""); err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{})
}

// Logout revokes the presented refresh token. Success is 205 Reset
// Content; a bad token is 400.
func (s *Server) Logout(c *fiber.Ctx) error {
	var req logoutRequest
	if err := c.BodyParser(&req); err != nil || req.RefreshToken == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Refresh token is required"))
	}

	if err := s.tokenService.Logout(c.Context(), req.RefreshToken); err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.SendStatus(fiber.StatusResetContent)
}

// LogoutAll revokes every outstanding token of the caller.
func (s *Server) LogoutAll(c *fiber.Ctx) error {
	if err := s.tokenService.LogoutAll(c.Context(), currentUserID(c)); err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.SendStatus(fiber.StatusResetContent)
}

// GetMe returns the caller's account with its profile.
func (s *Server) GetMe(c *fiber.Ctx) error {
	user, err := s.userService.Me(c.Context(), currentUserID(c))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(user)
}

// UpdateMe applies a partial update to the caller's account.
func (s *Server) UpdateMe(c *fiber.Ctx) error {
	var in service.UpdateMeInput
	if err := c.BodyParser(&in); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	in.UserID = currentUserID(c)

	user, err := s.userService.UpdateMe(c.Context(), in)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(user)
}
