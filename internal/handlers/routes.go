package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/sirupsen/logrus"

	"revforecast-api/internal/services"
)

const Version = "1.0.0"

// NewApp builds the Fiber app with its middleware stack and routes
func NewApp(service *services.ForecastService, log *logrus.Logger) *fiber.App {
	forecastHandler := NewForecastHandler(service, log)
	scenarioHandler := NewScenarioHandler(service, log)
	healthHandler := NewHealthHandler(service)

	app := fiber.New(fiber.Config{
		StrictRouting: true,
		CaseSensitive: true,
		UnescapePath:  true,
		Immutable:     true, // scenario names and session ids outlive the request
		ServerHeader:  "RevForecast-API",
		AppName:       "RevForecast v" + Version,
		ReadTimeout:   time.Second * 10,
		WriteTimeout:  time.Second * 10,
		BodyLimit:     1 * 1024 * 1024, // 1MB
		ErrorHandler:  CustomErrorHandler,
	})

	// Middleware stack
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins:     "*",
		AllowMethods:     "GET,POST,DELETE,OPTIONS",
		AllowHeaders:     "Origin,Content-Type,Accept," + SessionHeader,
		ExposeHeaders:    SessionHeader,
		AllowCredentials: false,
		MaxAge:           3600,
	}))
	app.Use(limiter.New(limiter.Config{
		Max:        120,
		Expiration: 1 * time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(429).JSON(fiber.Map{
				"error": "Rate limit exceeded. Please try again later.",
			})
		},
	}))

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"service": "RevForecast API",
			"version": Version,
			"status":  "running",
		})
	})

	app.Get("/health", healthHandler.Health)
	app.Get("/health/ready", healthHandler.Ready)

	// API v1 routes
	v1 := app.Group("/v1")
	v1.Get("/presets", forecastHandler.ListPresets)
	v1.Get("/presets/:name", forecastHandler.GetPreset)
	v1.Post("/projections", forecastHandler.GetProjection)
	v1.Post("/projections/compare", forecastHandler.CompareProjection)
	v1.Post("/projections/batch", forecastHandler.BatchProjection)
	v1.Post("/admin/refresh", forecastHandler.RefreshSessions)

	scenarios := v1.Group("/scenarios", SessionMiddleware())
	scenarios.Get("", scenarioHandler.ListScenarios)
	scenarios.Post("/:name", scenarioHandler.SaveScenario)
	scenarios.Get("/:name", scenarioHandler.GetScenario)
	scenarios.Delete("/:name", scenarioHandler.DeleteScenario)
	scenarios.Get("/:name/table", scenarioHandler.RenderScenario)
	scenarios.Post("/:name/export", scenarioHandler.ExportScenario)
	scenarios.Post("/:name/import", scenarioHandler.ImportScenario)

	return app
}
