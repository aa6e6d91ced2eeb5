package middleware

import (
	"errors"
	"log"
	"strings"

	"akun/internal/models"
	"akun/internal/services"

	"github.com/gofiber/fiber/v2"
)

// UserLocalKey is the fiber.Ctx locals key holding the authenticated *models.User.
const UserLocalKey = "user"

// AuthRequired is a Fiber middleware that resolves the session token to a user.
// The token is read from the session cookie, or from an
// "Authorization: Bearer <token>" header for clients that do not keep cookies.
func AuthRequired(authService *services.AuthService, userService *services.UserService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString := c.Cookies(services.SessionCookieName)
		if tokenString == "" {
			tokenString = bearerToken(c.Get(fiber.HeaderAuthorization))
		}
		if tokenString == "" {
			return unauthorized(c, "Not authorized, please login")
		}

		userID, err := authService.ValidateToken(tokenString)
		if err != nil {
			return unauthorized(c, "Not authorized, please login")
		}

		user, err := userService.FindByID(c.UserContext(), userID)
		if err != nil {
			if errors.Is(err, services.ErrNotFound) {
				return unauthorized(c, "Not authorized, user not found")
			}
			log.Printf("Failed to load user %s for request: %v", userID, err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"success": false,
				"message": "Could not authenticate request",
			})
		}

		c.Locals(UserLocalKey, user.Redacted())
		return c.Next()
	}
}

// CurrentUser returns the user stored by AuthRequired, or nil.
func CurrentUser(c *fiber.Ctx) *models.User {
	user, _ := c.Locals(UserLocalKey).(*models.User)
	return user
}

func bearerToken(header string) string {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) == 2 && parts[0] == "Bearer" {
		return strings.TrimSpace(parts[1])
	}
	return ""
}

func unauthorized(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"success": false,
		"message": message,
	})
}
