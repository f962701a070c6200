package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds everything the process reads from the environment.
type Config struct {
	Addr            string
	DSN             string
	JWTSecret       string
	AllowedOrigin   string
	PendingOrderTTL time.Duration // how long a pending/pending order may sit before the sweeper cancels it
	SweepInterval   time.Duration
}

// Load reads .env (if present) and assembles the Config.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Println(".env not loaded:", err)
	}

	return Config{
		Addr:            getEnv("ADDR", ":8080"),
		DSN:             getEnv("DB_DSN", ""),
		JWTSecret:       getEnv("JWT_SECRET", ""),
		AllowedOrigin:   getEnv("ALLOWED_ORIGIN", "http://localhost:5173"),
		PendingOrderTTL: getDurationEnv("PENDING_ORDER_TTL_MINUTES", 60, time.Minute),
		SweepInterval:   getDurationEnv("SWEEP_INTERVAL_MINUTES", 10, time.Minute),
	}
}

func getEnv(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	if fallback == "" {
		log.Fatalf("ENV %s is required", key)
	}
	return fallback
}

func getDurationEnv(key string, defaultValue int, unit time.Duration) time.Duration {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil && parsed > 0 {
			return time.Duration(parsed) * unit
		}
	}
	return time.Duration(defaultValue) * unit
}
