package handlers

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"revforecast-api/internal/models"
	"revforecast-api/internal/presets"
	"revforecast-api/internal/projection"
	"revforecast-api/internal/services"
)

type ForecastHandler struct {
	service *services.ForecastService
	logger  *logrus.Logger
}

func NewForecastHandler(service *services.ForecastService, logger *logrus.Logger) *ForecastHandler {
	return &ForecastHandler{
		service: service,
		logger:  logger,
	}
}

// GetProjection handles POST /v1/projections
func (h *ForecastHandler) GetProjection(c *fiber.Ctx) error {
	req, ok, err := parseProjectionRequest(c)
	if !ok {
		return err
	}

	p, err := h.service.Project(req)
	if err != nil {
		return h.fail(c, "Failed to project scenario", err)
	}

	return c.JSON(p)
}

// CompareProjection handles POST /v1/projections/compare
func (h *ForecastHandler) CompareProjection(c *fiber.Ctx) error {
	req, ok, err := parseProjectionRequest(c)
	if !ok {
		return err
	}

	cmp, err := h.service.Compare(req)
	if err != nil {
		return h.fail(c, "Failed to compare scenario", err)
	}

	return c.JSON(cmp)
}

// BatchProjection handles POST /v1/projections/batch
func (h *ForecastHandler) BatchProjection(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 30*time.Second)
	defer cancel()

	var req models.BatchRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(models.ErrorResponse{
			Error:   "Invalid request body",
			Message: err.Error(),
			Code:    400,
		})
	}

	if len(req.Items) == 0 {
		return c.Status(400).JSON(models.ErrorResponse{
			Error:   "Items are required",
			Message: "Please provide at least one scenario to project",
			Code:    400,
		})
	}

	resp, err := h.service.ProjectBatch(ctx, req, validateRequest)
	if err != nil {
		return h.fail(c, "Failed to run batch", err)
	}

	return c.JSON(resp)
}

// ListPresets handles GET /v1/presets
func (h *ForecastHandler) ListPresets(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"presets": h.service.Presets(),
	})
}

// GetPreset handles GET /v1/presets/:name
func (h *ForecastHandler) GetPreset(c *fiber.Ctx) error {
	p, err := h.service.Preset(c.Params("name"))
	if err != nil {
		return h.fail(c, "Preset not found", err)
	}
	return c.JSON(p)
}

// RefreshSessions handles POST /v1/admin/refresh
func (h *ForecastHandler) RefreshSessions(c *fiber.Ctx) error {
	removed := h.service.RefreshSessions()

	return c.JSON(fiber.Map{
		"message": "Expired sessions purged",
		"removed": removed,
		"active":  h.service.ActiveSessions(),
		"time":    time.Now(),
	})
}

// fail maps service errors onto HTTP status codes
func (h *ForecastHandler) fail(c *fiber.Ctx, title string, err error) error {
	code := statusFor(err)
	if code >= 500 {
		h.logger.WithError(err).WithField("path", c.Path()).Error(title)
	}

	return c.Status(code).JSON(models.ErrorResponse{
		Error:   title,
		Message: err.Error(),
		Code:    code,
	})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, projection.ErrInvalidConfig),
		errors.Is(err, services.ErrBatchTooLarge):
		return fiber.StatusBadRequest
	case errors.Is(err, services.ErrScenarioNotFound),
		errors.Is(err, services.ErrArchiveNotFound),
		errors.Is(err, presets.ErrPresetNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, services.ErrArchiveDisabled):
		return fiber.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return fiber.StatusGatewayTimeout
	default:
		return fiber.StatusInternalServerError
	}
}

// parseProjectionRequest decodes and range-checks a projection body. When
// ok is false the 400 response has been written and err is its send error.
func parseProjectionRequest(c *fiber.Ctx) (req models.ProjectionRequest, ok bool, err error) {
	if err := c.BodyParser(&req); err != nil {
		return req, false, c.Status(400).JSON(models.ErrorResponse{
			Error:   "Invalid request body",
			Message: err.Error(),
			Code:    400,
		})
	}

	if err := validateRequest(req); err != nil {
		return req, false, c.Status(400).JSON(models.ErrorResponse{
			Error:   "Invalid scenario config",
			Message: err.Error(),
			Code:    400,
		})
	}

	return req, true, nil
}

// CustomErrorHandler handles Fiber errors
func CustomErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	return c.Status(code).JSON(models.ErrorResponse{
		Error:   "Request failed",
		Message: err.Error(),
		Code:    code,
	})
}
