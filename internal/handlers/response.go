package handlers

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
)

// respondError writes the error body shared by every route.
func respondError(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"success": false,
		"message": message,
	})
}

// ErrorHandler is the fiber.Config ErrorHandler. Errors that escape a handler
// (unknown routes, panics caught by recover, body limits) get the same shape
// as handled ones.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error"

	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		message = fe.Message
	} else {
		log.Printf("Unhandled error on %s %s: %v", c.Method(), c.Path(), err)
	}
	return respondError(c, code, message)
}
