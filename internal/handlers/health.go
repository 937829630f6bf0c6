package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"revforecast-api/internal/services"
)

type HealthHandler struct {
	startTime time.Time
	service   *services.ForecastService
}

func NewHealthHandler(service *services.ForecastService) *HealthHandler {
	return &HealthHandler{
		startTime: time.Now(),
		service:   service,
	}
}

// Health handles GET /health
func (h *HealthHandler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "healthy",
		"service": "revforecast-api",
		"version": Version,
		"uptime":  time.Since(h.startTime).String(),
		"time":    time.Now(),
	})
}

// Ready handles GET /health/ready
func (h *HealthHandler) Ready(c *fiber.Ctx) error {
	archive := "disabled"
	if h.service.ArchiveEnabled() {
		archive = "ok"
	}

	return c.JSON(fiber.Map{
		"status": "ready",
		"checks": fiber.Map{
			"api":      "ok",
			"presets":  len(h.service.Presets()),
			"sessions": h.service.ActiveSessions(),
			"archive":  archive,
		},
	})
}
