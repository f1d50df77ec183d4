package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
)

// Pinger is a dependency that can report connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler responds to liveness and readiness probes. Readiness covers
// postgres, redis, and, when configured, the MJML render engine — a ticket
// API that cannot compile templates is only partially ready.
type HealthHandler struct {
	serviceName string
	version     string
	postgres    Pinger
	redis       Pinger
	renderer    Pinger
}

// NewHealthHandler returns a new handler instance. renderer may be nil when
// no MJML engine is configured; it is then excluded from readiness.
func NewHealthHandler(serviceName, version string, postgres, redis, renderer Pinger) *HealthHandler {
	return &HealthHandler{
		serviceName: serviceName,
		version:     version,
		postgres:    postgres,
		redis:       redis,
		renderer:    renderer,
	}
}

// Live reports service liveness.
func (h *HealthHandler) Live(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "alive",
		"service": h.serviceName,
		"version": h.version,
	})
}

// Ready reports service readiness by checking dependencies.
func (h *HealthHandler) Ready(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	deps := []struct {
		name   string
		pinger Pinger
	}{
		{"postgres", h.postgres},
		{"redis", h.redis},
		{"mjml_renderer", h.renderer},
	}

	depStatus := fiber.Map{}
	ready := true
	for _, dep := range deps {
		if dep.pinger == nil {
			continue
		}
		if err := dep.pinger.Ping(ctx); err != nil {
			depStatus[dep.name] = err.Error()
			ready = false
		} else {
			depStatus[dep.name] = "ok"
		}
	}

	if ready {
		return c.JSON(fiber.Map{
			"status":       "ready",
			"dependencies": depStatus,
		})
	}

	return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
		"error": fiber.Map{
			"code":    "DEPENDENCY_UNAVAILABLE",
			"message": "one or more dependencies unavailable",
			"details": depStatus,
		},
	})
}
