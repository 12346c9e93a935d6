package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/opusnote/opusnote-api/internal/config"
	"github.com/opusnote/opusnote-api/internal/handler"
	"github.com/opusnote/opusnote-api/internal/middleware"
	"github.com/opusnote/opusnote-api/internal/observability"
	"github.com/opusnote/opusnote-api/internal/session"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	AuthHandler       *handler.AuthHandler
	StudentHandler    *handler.StudentHandler
	GenerationHandler *handler.GenerationHandler
	ImportHandler     *handler.ImportHandler
	Sessions          *session.Store
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	app.Get("/metrics", observability.MetricsHandler())

	if deps.ImportHandler != nil {
		app.Get("/download-sample", deps.ImportHandler.DownloadSample)
	}

	// Every /api route resolves the session cookie; current-user and the
	// conditional registration rule read the identity without requiring one.
	app.Use("/api", middleware.WithSession(deps.Sessions), func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})

	// Data access and mutation require an authenticated session.
	app.Use("/api/students", middleware.RequireSession())
	app.Use("/api/import-xlsx", middleware.RequireSession())

	api := app.Group("/api")
	api.Get("/health", handler.HealthCheck(cfg))

	if deps.AuthHandler != nil {
		deps.AuthHandler.Register(api)
	}
	if deps.StudentHandler != nil {
		deps.StudentHandler.Register(api)
	}
	if deps.GenerationHandler != nil {
		deps.GenerationHandler.Register(api)
	}
	if deps.ImportHandler != nil {
		deps.ImportHandler.Register(api)
	}
}
