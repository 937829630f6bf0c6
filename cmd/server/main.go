package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"revforecast-api/internal/config"
	"revforecast-api/internal/handlers"
	"revforecast-api/internal/presets"
	"revforecast-api/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()

	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.WithField("level", cfg.LogLevel).Warn("unknown log level, using info")
		level = logrus.InfoLevel
	}
	log.SetLevel(level)

	catalog, err := presets.Load(cfg.PresetsFile)
	if err != nil {
		log.WithError(err).Fatal("Failed to load presets")
	}

	// Initialize services
	sessions := services.NewSessionRegistry(cfg.SessionTTL, log)
	archive := services.NewFirestoreArchive(cfg, log)
	forecastService := services.NewForecastService(cfg, sessions, archive, catalog, log)

	app := handlers.NewApp(forecastService, log)

	// Graceful shutdown
	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.WithError(err).Fatal("Failed to start server")
		}
	}()

	log.WithFields(logrus.Fields{
		"port":        cfg.Port,
		"environment": cfg.Environment,
		"presets":     len(catalog.Names()),
		"archive":     archive.Enabled(),
		"session_ttl": cfg.SessionTTL.String(),
	}).Info("RevForecast API started")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down gracefully...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.WithError(err).Fatal("Server forced to shutdown")
	}

	sessions.Close()
	if err := archive.Close(); err != nil {
		log.WithError(err).Warn("Failed to close archive")
	}

	log.Info("Server shutdown complete")
}
