package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/assetdesk-io/assetdesk-api/internal/config"
	"github.com/assetdesk-io/assetdesk-api/internal/handler"
	"github.com/assetdesk-io/assetdesk-api/internal/middleware"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	EquipmentHandler *handler.EquipmentHandler
	LocationHandler  *handler.LocationHandler
	EmployeeHandler  *handler.EmployeeHandler
	LedgerHandler    *handler.LedgerHandler
	AuditHandler     *handler.AuditHandler
	JWTMiddleware    fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}

	// Registries
	if deps.EquipmentHandler != nil {
		registry := api.Group("/registry", jwtMiddleware)
		deps.EquipmentHandler.Register(registry)

		if deps.LocationHandler != nil {
			deps.LocationHandler.Register(registry.Group("/locations"))
		}
		if deps.EmployeeHandler != nil {
			deps.EmployeeHandler.Register(registry.Group("/employees"))
		}
	}

	// Assignment ledger & resolver
	if deps.LedgerHandler != nil {
		ledger := api.Group("/ledger", jwtMiddleware)
		deps.LedgerHandler.Register(ledger)
	}

	// Audit trail, admins only
	if deps.AuditHandler != nil {
		audit := api.Group("/audit", jwtMiddleware, middleware.RequireRole("admin"))
		deps.AuditHandler.Register(audit)
	}
}
