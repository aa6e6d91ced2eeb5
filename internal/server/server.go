package server

import (
	"time"

	"akun/internal/handlers"
	"akun/internal/middleware"
	"akun/internal/repositories"
	"akun/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// Options configures the HTTP application.
type Options struct {
	APIPrefix   string
	JWTSecret   string
	CORSOrigins string
	// Publisher receives account events; nil disables them.
	Publisher services.EventPublisher
	// DisableRequestLog turns off the request logger, mostly for tests.
	DisableRequestLog bool
}

// New builds the Fiber app with every route wired to userRepo.
func New(opts Options, userRepo repositories.UserRepository) (*fiber.App, *services.AuthService) {
	authService := services.NewAuthService(opts.JWTSecret)
	userService := services.NewUserService(userRepo, opts.Publisher)

	authHandler := handlers.NewAuthHandler(authService, userService)
	userHandler := handlers.NewUserHandler(userService)

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler,
	})

	app.Use(recover.New())
	if !opts.DisableRequestLog {
		app.Use(logger.New())
	}
	if opts.CORSOrigins != "" {
		// Session cookies are SameSite=None, so browsers need credentialed CORS.
		app.Use(cors.New(cors.Config{
			AllowOrigins:     opts.CORSOrigins,
			AllowCredentials: true,
		}))
	}

	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("Server is running")
	})
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	api := app.Group(opts.APIPrefix)
	authHandler.RegisterRoutes(api)
	userHandler.RegisterRoutes(api, middleware.AuthRequired(authService, userService))

	return app, authService
}
