package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/support-desk/internal/api/http/handlers"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health     *handlers.HealthHandler
	Tickets    *handlers.TicketsHandler
	Templates  *handlers.TemplatesHandler
	Rules      *handlers.RulesHandler
	Settings   *handlers.SettingsHandler
	Automation *handlers.AutomationHandler
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	tickets := app.Group("/tickets")
	tickets.Post("/", cfg.Tickets.Create)
	tickets.Get("/approaching-breach", cfg.Tickets.ApproachingBreach)
	tickets.Get("/:id", cfg.Tickets.GetTicket)
	tickets.Patch("/:id/status", cfg.Tickets.UpdateStatus)
	tickets.Get("/:id/sla", cfg.Tickets.GetSLAStatus)
	tickets.Post("/:id/sla/refresh", cfg.Tickets.RefreshSLA)

	templates := app.Group("/templates")
	templates.Post("/compile", cfg.Templates.Compile)
	templates.Post("/preview", cfg.Templates.Preview)

	rules := app.Group("/escalation-rules")
	rules.Get("/", cfg.Rules.List)
	rules.Post("/", cfg.Rules.Create)
	rules.Get("/:id", cfg.Rules.Get)
	rules.Put("/:id", cfg.Rules.Update)

	app.Get("/site-settings", cfg.Settings.Get)
	app.Put("/site-settings", cfg.Settings.Update)

	app.Post("/automation/run/:job", cfg.Automation.RunJob)
}
