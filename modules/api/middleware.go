package api

import (
	"context"
	"strings"

	"github.com/example/todo-backend/modules/auth"
	"github.com/gofiber/fiber/v2"
)

// userContextKey is the Locals key holding the authenticated user's claims.
const userContextKey = "user"

// TokenValidator validates bearer tokens into claims.
type TokenValidator interface {
	ValidateToken(ctx context.Context, token string) (*auth.Claims, error)
}

// AuthMiddleware validates the Authorization header and stores the claims in
// the request context. Every task and report route sits behind it.
func AuthMiddleware(validator TokenValidator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
				Error: "authorization header is required",
			})
		}

		if !strings.HasPrefix(authHeader, "Bearer ") {
			return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
				Error: "invalid authorization header format, use: Bearer <token>",
			})
		}

		token := strings.TrimPrefix(authHeader, "Bearer ")
		if token == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
				Error: "token is required",
			})
		}

		claims, err := validator.ValidateToken(c.UserContext(), token)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
				Error: "invalid or expired token",
			})
		}

		c.Locals(userContextKey, claims)
		return c.Next()
	}
}

// userClaims returns the authenticated user's claims set by AuthMiddleware.
func userClaims(c *fiber.Ctx) *auth.Claims {
	claims, _ := c.Locals(userContextKey).(*auth.Claims)
	return claims
}
