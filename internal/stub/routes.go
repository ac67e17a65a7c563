package stub

import (
	"github.com/ecotrack/console/internal/config"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// SetupRoutes configures the stub's routes on the given app. Everything
// under /api except login requires the bearer token.
func SetupRoutes(app *fiber.App, store Store, cfg *config.Config) *Handlers {
	handlers := NewHandlers(cfg, store)

	app.Use(recover.New())
	app.Use(RequestLogger())

	app.Get("/health", handlers.HealthCheck)
	app.Get("/uploads/:name", handlers.ServeUpload)

	app.Use("/api", BearerAuth(AuthConfig{
		Token: cfg.StubToken,
		Next: func(c *fiber.Ctx) bool {
			return c.Path() == "/api/auth/login"
		},
	}))

	app.Post("/api/auth/login", handlers.Login)

	news := app.Group("/api/news")
	{
		news.Get("", handlers.GetNews)
		news.Post("", handlers.CreateNews)
		news.Post("/upload-image", handlers.UploadImage)
		news.Put("/archive/:id", handlers.ArchiveNews)
		news.Put("/:id", handlers.UpdateNews)
	}

	app.Get("/api/users", handlers.GetUsers)
	app.Put("/api/users/status/:id", handlers.SetUserStatus)
	app.Get("/api/audit", handlers.GetAudit)

	// 404 Handler
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "Endpoint not found",
		})
	})

	return handlers
}
