package app

import (
	"os"
	"strconv"
	"time"

	"github.com/aussiebroadwan/checkin/internal/checkin/events"
	"github.com/aussiebroadwan/checkin/internal/checkin/scan"
	"github.com/joho/godotenv"
)

type Config struct {
	DatabaseFile string // Optional: path to SQLite database file (default: ./checkin.db)
	DatabaseURL  string // Optional: postgres DSN; when set, replaces the SQLite file

	JWTSecret string // Optional: HS256 secret for staff tokens; empty disables staff auth
	JWTIssuer string // Optional: expected issuer of staff tokens (default: checkin)

	NATSURL     string // Optional: NATS server for check-in events; empty disables publishing
	NATSSubject string // Optional: subject events are published on (default: checkin.events)

	ScanCooldown         time.Duration // Cooldown after each result before scanning resumes (default: 3s)
	SessionIdleTimeout   time.Duration // Idle scan sessions are closed after this long (default: 30m)
	HousekeepingInterval time.Duration // How often idle sessions are looked for (default: 1m)

	Env                 string        // Environment (dev, staging, prod) (default: dev)
	LogLevel            string        // Log level (debug, info, warn, error) (default: info)
	LogFormat           string        // Log format (json, text) (default: json)
	Port                int           // HTTP server port (default: 8080)
	ShutdownGracePeriod time.Duration // Graceful shutdown timeout (default: 10s)
}

// LoadConfig reads configuration from the environment. A .env file in the
// working directory is loaded first if present; variables already set in the
// environment win.
func LoadConfig() Config {
	_ = godotenv.Load()

	return Config{
		DatabaseFile:         getEnvOrDefault("CHECKIN_DATABASE_FILE", "checkin.db"),
		DatabaseURL:          os.Getenv("DATABASE_URL"),
		JWTSecret:            os.Getenv("CHECKIN_JWT_SECRET"),
		JWTIssuer:            getEnvOrDefault("CHECKIN_JWT_ISSUER", "checkin"),
		NATSURL:              os.Getenv("NATS_URL"),
		NATSSubject:          getEnvOrDefault("NATS_SUBJECT", events.DefaultSubject),
		ScanCooldown:         getEnvDurationOrDefault("SCAN_COOLDOWN", scan.DefaultCooldown),
		SessionIdleTimeout:   getEnvDurationOrDefault("SESSION_IDLE_TIMEOUT", 30*time.Minute),
		HousekeepingInterval: getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", time.Minute),
		Env:                  getEnvOrDefault("ENV", "dev"),
		LogLevel:             getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:            getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                 getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod:  getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// Try parsing as duration (e.g., "3s", "30m")
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Bare integers are seconds
	if seconds, err := strconv.Atoi(value); err == nil {
		return time.Duration(seconds) * time.Second
	}

	return defaultValue
}
