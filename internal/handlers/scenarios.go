package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"revforecast-api/internal/models"
	"revforecast-api/internal/services"
	"revforecast-api/pkg/report"
)

type ScenarioHandler struct {
	*ForecastHandler
}

func NewScenarioHandler(service *services.ForecastService, logger *logrus.Logger) *ScenarioHandler {
	return &ScenarioHandler{ForecastHandler: NewForecastHandler(service, logger)}
}

// ListScenarios handles GET /v1/scenarios
func (h *ScenarioHandler) ListScenarios(c *fiber.Ctx) error {
	id := sessionID(c)
	return c.JSON(models.ScenarioList{
		SessionID: id,
		Names:     h.service.ListScenarios(id),
	})
}

// SaveScenario handles POST /v1/scenarios/:name
func (h *ScenarioHandler) SaveScenario(c *fiber.Ctx) error {
	name, ok, err := scenarioName(c)
	if !ok {
		return err
	}

	req, ok, err := parseProjectionRequest(c)
	if !ok {
		return err
	}

	snap, err := h.service.SaveScenario(sessionID(c), name, req)
	if err != nil {
		return h.fail(c, "Failed to save scenario", err)
	}

	return c.Status(fiber.StatusCreated).JSON(snap)
}

// GetScenario handles GET /v1/scenarios/:name
func (h *ScenarioHandler) GetScenario(c *fiber.Ctx) error {
	name, ok, err := scenarioName(c)
	if !ok {
		return err
	}

	snap, err := h.service.GetScenario(sessionID(c), name)
	if err != nil {
		return h.fail(c, "Scenario not found", err)
	}

	return c.JSON(snap)
}

// DeleteScenario handles DELETE /v1/scenarios/:name
func (h *ScenarioHandler) DeleteScenario(c *fiber.Ctx) error {
	name, ok, err := scenarioName(c)
	if !ok {
		return err
	}

	if err := h.service.DeleteScenario(sessionID(c), name); err != nil {
		return h.fail(c, "Scenario not found", err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// RenderScenario handles GET /v1/scenarios/:name/table
func (h *ScenarioHandler) RenderScenario(c *fiber.Ctx) error {
	name, ok, err := scenarioName(c)
	if !ok {
		return err
	}

	snap, err := h.service.GetScenario(sessionID(c), name)
	if err != nil {
		return h.fail(c, "Scenario not found", err)
	}

	out := report.Table(&snap.Projection) + "\n" + report.Warnings(&snap.Projection)
	c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
	return c.SendString(out)
}

// ExportScenario handles POST /v1/scenarios/:name/export
func (h *ScenarioHandler) ExportScenario(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 10*time.Second)
	defer cancel()

	name, ok, err := scenarioName(c)
	if !ok {
		return err
	}

	if err := h.service.ExportScenario(ctx, sessionID(c), name); err != nil {
		return h.fail(c, "Failed to export scenario", err)
	}

	return c.JSON(fiber.Map{
		"message":  "Scenario exported",
		"scenario": name,
		"time":     time.Now(),
	})
}

// ImportScenario handles POST /v1/scenarios/:name/import
func (h *ScenarioHandler) ImportScenario(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 10*time.Second)
	defer cancel()

	name, ok, err := scenarioName(c)
	if !ok {
		return err
	}

	snap, err := h.service.ImportScenario(ctx, sessionID(c), name)
	if err != nil {
		return h.fail(c, "Failed to import scenario", err)
	}

	return c.JSON(snap)
}

func scenarioName(c *fiber.Ctx) (string, bool, error) {
	name := c.Params("name")
	if !validScenarioName(name) {
		return "", false, c.Status(400).JSON(models.ErrorResponse{
			Error:   "Invalid scenario name",
			Message: "Names are 1-100 letters, digits, spaces, dots, dashes or underscores",
			Code:    400,
		})
	}
	return name, true, nil
}
