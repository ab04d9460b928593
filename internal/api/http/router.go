package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Geraldo-Morris/tvriapp/internal/api/http/handlers"
	"github.com/Geraldo-Morris/tvriapp/internal/auth"
	"github.com/Geraldo-Morris/tvriapp/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Reports        *handlers.ReportsHandler
	Stats          *handlers.StatsHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/register", cfg.Auth.Register)
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/logout", cfg.AuthMiddleware.Handle, cfg.Auth.Logout)
	authGroup.Post("/password/change", cfg.AuthMiddleware.Handle, cfg.Auth.ChangePassword)

	reports := app.Group("/reports", cfg.AuthMiddleware.Handle)
	reports.Post("", auth.RequireRole(domain.RoleEmployee), cfg.Reports.Create)
	reports.Get("", cfg.Reports.List)
	reports.Get("/:id", cfg.Reports.Get)
	reports.Get("/:id/history", cfg.Reports.History)
	reports.Post("/:id/transition", cfg.Reports.Transition)

	app.Get("/technicians", cfg.AuthMiddleware.Handle,
		auth.RequireRole(domain.RoleOperator), cfg.Reports.ListTechnicians)

	app.Get("/stats/summary", cfg.AuthMiddleware.Handle, cfg.Stats.Summary)
}
