package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/project-hub/internal/api/http/handlers"
	"github.com/spec-kit/project-hub/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health   *handlers.HealthHandler
	Auth     *handlers.AuthHandler
	Projects *handlers.ProjectsHandler
	Reset    *handlers.ResetHandler
	Gate     *auth.Gate
}

// RegisterRoutes wires HTTP routes. The gate runs ahead of every handler and
// decides per path whether a credential is required.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Use(cfg.Gate.Handle)

	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/health/metrics", cfg.Health.Metrics)

	api := app.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.Post("/register", cfg.Auth.Register)
	authGroup.Post("/signup", cfg.Auth.Register)
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/signin", cfg.Auth.Login)

	projects := api.Group("/projects")
	projects.Post("/invite", cfg.Projects.Invite)
	projects.Get("/accept_invitation", cfg.Projects.AcceptInvitation)

	app.Post("/reset-password/reset", cfg.Reset.Request)
	app.Post("/reset-password/validate", cfg.Reset.Validate)
	app.Post("/reset-password", cfg.Reset.Confirm)
}
