package handlers

import (
	"errors"
	"log"

	"akun/internal/services"

	"github.com/gofiber/fiber/v2"
)

// AuthHandler handles HTTP requests for registration and sessions.
type AuthHandler struct {
	authService *services.AuthService
	userService *services.UserService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService, userService *services.UserService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		userService: userService,
	}
}

// RegisterRoutes registers the authentication routes.
func (h *AuthHandler) RegisterRoutes(router fiber.Router) {
	router.Post("/register", h.HandleRegister)
	router.Post("/login", h.HandleLogin)
	router.Post("/logout", h.HandleLogout)
	router.Post("/forgot-password", h.HandleForgotPassword)
}

// HandleRegister creates an account and starts a session for it.
func (h *AuthHandler) HandleRegister(c *fiber.Ctx) error {
	var req services.RegisterInput
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing register request body: %v", err)
		return respondError(c, fiber.StatusBadRequest, "Invalid request body")
	}

	user, err := h.userService.Create(c.UserContext(), req)
	if err != nil {
		if errors.Is(err, services.ErrValidation) || errors.Is(err, services.ErrConflict) {
			return respondError(c, fiber.StatusUnauthorized, err.Error())
		}
		log.Printf("Error registering user: %v", err)
		return respondError(c, fiber.StatusInternalServerError, "Could not register user")
	}

	token, err := h.startSession(c, user.ID)
	if err != nil {
		return respondError(c, fiber.StatusInternalServerError, "Could not create session")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Successfully created the account",
		"data":    user,
		"token":   token,
	})
}

// LoginRequest represents the request body for login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// HandleLogin verifies credentials and issues a session token.
func (h *AuthHandler) HandleLogin(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing login request body: %v", err)
		return respondError(c, fiber.StatusBadRequest, "Invalid request body")
	}

	user, err := h.userService.Authenticate(c.UserContext(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNotFound):
			return respondError(c, fiber.StatusUnauthorized, err.Error())
		case errors.Is(err, services.ErrAuth), errors.Is(err, services.ErrValidation):
			return respondError(c, fiber.StatusBadRequest, err.Error())
		}
		log.Printf("Error during login: %v", err)
		return respondError(c, fiber.StatusInternalServerError, "Could not log in")
	}

	token, err := h.startSession(c, user.ID)
	if err != nil {
		return respondError(c, fiber.StatusInternalServerError, "Could not create session")
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Login successful",
		"data":    user,
		"token":   token,
	})
}

// HandleLogout tells the client to discard the session cookie.
func (h *AuthHandler) HandleLogout(c *fiber.Ctx) error {
	c.Cookie(h.authService.ExpiredSessionCookie())
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Successfully logged out",
	})
}

// HandleForgotPassword is a placeholder; password reset is not implemented.
func (h *AuthHandler) HandleForgotPassword(c *fiber.Ctx) error {
	return c.SendString("forgot password")
}

// startSession issues a token for the user and sets it as the session cookie.
func (h *AuthHandler) startSession(c *fiber.Ctx, userID string) (string, error) {
	token, err := h.authService.IssueToken(userID)
	if err != nil {
		log.Printf("Error issuing token for user %s: %v", userID, err)
		return "", err
	}
	c.Cookie(h.authService.SessionCookie(token))
	return token, nil
}
