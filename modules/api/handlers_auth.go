package api

import (
	"errors"
	"log"

	"github.com/example/todo-backend/modules/auth"
	"github.com/gofiber/fiber/v2"
)

// register handles POST /accounts/register/.
func (m *Module) register(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid request body"})
	}

	user, err := m.auth.Register(c.UserContext(), req.Username, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrUserExists):
			return c.Status(fiber.StatusConflict).JSON(ErrorResponse{Error: err.Error()})
		case errors.Is(err, auth.ErrInvalidEmail),
			errors.Is(err, auth.ErrMissingUsername),
			errors.Is(err, auth.ErrWeakPassword),
			errors.Is(err, auth.ErrPasswordTooLong):
			return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: err.Error()})
		default:
			return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "registration failed"})
		}
	}

	return c.Status(fiber.StatusCreated).JSON(RegisterResponse{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
	})
}

// login handles POST /accounts/login/.
func (m *Module) login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid request body"})
	}

	token, expiresIn, err := m.auth.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{Error: err.Error()})
		}
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "login failed"})
	}

	return c.JSON(LoginResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   expiresIn,
	})
}

// logout handles POST /accounts/logout/. Tokens are stateless, so logging
// out means dropping the user's cached reports before the client discards
// the token.
func (m *Module) logout(c *fiber.Ctx) error {
	claims := userClaims(c)

	if err := m.reports.InvalidateUser(c.UserContext(), claims.UserID); err != nil {
		log.Printf("[api] Warning: failed to invalidate report cache for %s: %v", claims.UserID, err)
	}

	return c.JSON(MessageResponse{Response: "successfully logged out"})
}
