package handlers

import (
	"errors"
	"log"

	"akun/internal/middleware"
	"akun/internal/services"

	"github.com/gofiber/fiber/v2"
)

// UserHandler serves the profile and password routes of the signed-in user.
type UserHandler struct {
	userService *services.UserService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

// RegisterRoutes registers the user routes behind authRequired.
func (h *UserHandler) RegisterRoutes(router fiber.Router, authRequired fiber.Handler) {
	router.Get("/user", authRequired, h.HandleGetUser)
	router.Put("/user", authRequired, h.HandleUpdateUser)
	router.Put("/password", authRequired, h.HandleChangePassword)
}

// HandleGetUser returns the current user's profile.
func (h *UserHandler) HandleGetUser(c *fiber.Ctx) error {
	current := middleware.CurrentUser(c)
	if current == nil {
		return respondError(c, fiber.StatusUnauthorized, "Not authorized, please login")
	}

	user, err := h.userService.FindByID(c.UserContext(), current.ID)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return respondError(c, fiber.StatusNotFound, "User not found")
		}
		log.Printf("Error getting user %s: %v", current.ID, err)
		return respondError(c, fiber.StatusInternalServerError, "Could not retrieve user")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Get user data",
		"data":    user.Redacted(),
	})
}

// HandleUpdateUser applies a partial profile update.
func (h *UserHandler) HandleUpdateUser(c *fiber.Ctx) error {
	current := middleware.CurrentUser(c)
	if current == nil {
		return respondError(c, fiber.StatusUnauthorized, "Not authorized, please login")
	}

	var req services.UpdateInput
	// An empty body changes nothing.
	if len(c.Body()) == 0 {
		req = services.UpdateInput{}
	} else if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing update request body: %v", err)
		return respondError(c, fiber.StatusBadRequest, "Invalid request body")
	}

	user, err := h.userService.Update(c.UserContext(), current.ID, req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrValidation):
			return respondError(c, fiber.StatusBadRequest, err.Error())
		case errors.Is(err, services.ErrConflict):
			return respondError(c, fiber.StatusConflict, err.Error())
		case errors.Is(err, services.ErrNotFound):
			return respondError(c, fiber.StatusNotFound, err.Error())
		}
		log.Printf("Error updating user %s: %v", current.ID, err)
		return respondError(c, fiber.StatusInternalServerError, "Could not update user")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Successfully updated",
		"data":    user,
	})
}

// ChangePasswordRequest represents the request body for a password change.
type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

// HandleChangePassword replaces the password after checking the old one.
func (h *UserHandler) HandleChangePassword(c *fiber.Ctx) error {
	current := middleware.CurrentUser(c)
	if current == nil {
		return respondError(c, fiber.StatusUnauthorized, "Not authorized, please login")
	}

	var req ChangePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing change password request body: %v", err)
		return respondError(c, fiber.StatusBadRequest, "Invalid request body")
	}

	err := h.userService.ChangePassword(c.UserContext(), current.ID, req.OldPassword, req.NewPassword)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrAuth), errors.Is(err, services.ErrNotFound):
			return respondError(c, fiber.StatusNotFound, err.Error())
		case errors.Is(err, services.ErrValidation):
			return respondError(c, fiber.StatusBadRequest, err.Error())
		}
		log.Printf("Error changing password for user %s: %v", current.ID, err)
		return respondError(c, fiber.StatusInternalServerError, "Could not change password")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Password change successful",
	})
}
