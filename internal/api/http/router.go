package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/credit-case-service/internal/api/http/handlers"
	"github.com/spec-kit/credit-case-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Clients        *handlers.ClientsHandler
	Admin          *handlers.AdminHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	api := app.Group("/api")
	api.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": "Credit Repair Automation System API"})
	})

	api.Post("/auth/login", cfg.Auth.Login)
	api.Get("/auth/me", cfg.AuthMiddleware.Handle, cfg.Auth.Me)

	api.Post("/clients/submit", cfg.Clients.Submit)
	api.Get("/clients/me/dashboard", cfg.AuthMiddleware.Handle, auth.RequireClient(), cfg.Clients.Dashboard)

	// bootstrap endpoint stays unauthenticated; it conflicts after the
	// first admin exists
	api.Post("/admin/create-initial", cfg.Admin.CreateInitial)

	admin := api.Group("/admin", cfg.AuthMiddleware.Handle, auth.RequireAdmin())
	admin.Get("/clients", cfg.Admin.ListClients)
	admin.Get("/clients/:id", cfg.Admin.GetClient)
	admin.Patch("/clients/:id/status", cfg.Admin.UpdateStatus)
	admin.Get("/stats", cfg.Admin.Stats)
}
