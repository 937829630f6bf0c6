package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

type Config struct {
	Port                     string
	Environment              string
	LogLevel                 string
	FirestoreProject         string
	PresetsFile              string
	SessionTTL               time.Duration
	MaxConcurrentProjections int
	MaxBatchSize             int
}

func Load() *Config {
	// A missing .env is normal outside local development
	if err := godotenv.Load(); err != nil {
		logrus.Debug(".env file not found, using process environment")
	}

	cfg := &Config{
		Port:                     getEnv("PORT", "8080"),
		Environment:              getEnv("ENVIRONMENT", "production"),
		LogLevel:                 getEnv("LOG_LEVEL", "info"),
		FirestoreProject:         getEnv("FIRESTORE_PROJECT_ID", ""),
		PresetsFile:              getEnv("PRESETS_FILE", ""),
		SessionTTL:               getDuration("SESSION_TTL", 2*time.Hour),
		MaxConcurrentProjections: getInt("MAX_CONCURRENT_PROJECTIONS", 4),
		MaxBatchSize:             getInt("MAX_BATCH_SIZE", 20),
	}

	if cfg.FirestoreProject == "" {
		logrus.Warn("FIRESTORE_PROJECT_ID not set, scenario export/import disabled")
	}

	return cfg
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil || n < 1 {
		logrus.WithField("key", key).Warnf("invalid value %q, using %d", value, defaultValue)
		return defaultValue
	}
	return n
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		logrus.WithField("key", key).Warnf("invalid duration %q, using %s", value, defaultValue)
		return defaultValue
	}
	return d
}
