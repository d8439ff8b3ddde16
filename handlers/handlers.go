// Package handlers contains the HTTP endpoints.
package handlers

import (
	"github.com/gofiber/fiber/v2"

	"threadbrief/config"
	"threadbrief/services/brief"
)

type Handlers struct {
	config *config.Config
	briefs *brief.Service
}

func New(cfg *config.Config, briefs *brief.Service) *Handlers {
	return &Handlers{
		config: cfg,
		briefs: briefs,
	}
}

// HealthCheck reports service liveness and version.
func (h *Handlers) HealthCheck(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "ok",
		"version": h.config.Version,
	})
}
