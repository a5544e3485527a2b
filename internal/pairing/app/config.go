package app

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Issuer string // Optional: issuer claim for access tokens (default: faceid-pairing)

	RPID          string   // Optional: WebAuthn relying party id (default: localhost)
	RPDisplayName string   // Optional: relying party display name (default: FaceID Pairing)
	RPOrigins     []string // Optional: allowed WebAuthn origins (default: http://localhost:8080)

	SessionTTL           time.Duration // Optional: pairing session lifetime (default: 5m)
	AccessTokenTTL       time.Duration // Optional: access token lifetime (default: 15m)
	DatabaseFile         string        // Optional: path to SQLite database file (default: ./faceid.db)
	Env                  string        // Environment (dev, staging, prod) (default: dev)
	LogLevel             string        // Log level (debug, info, warn, error) (default: info)
	LogFormat            string        // Log format (json, text) (default: json)
	Port                 int           // HTTP server port (default: 8080)
	ShutdownGracePeriod  time.Duration // Graceful shutdown timeout (default: 10s)
	HousekeepingInterval time.Duration // Expired session sweep interval (default: 15m)
}

func LoadConfig() Config {
	cfg := Config{
		Issuer:               getEnvOrDefault("FACEID_ISSUER", "faceid-pairing"),
		RPID:                 getEnvOrDefault("FACEID_RP_ID", "localhost"),
		RPDisplayName:        getEnvOrDefault("FACEID_RP_DISPLAY_NAME", "FaceID Pairing"),
		SessionTTL:           getEnvDurationOrDefault("FACEID_SESSION_TTL", 5*time.Minute),
		AccessTokenTTL:       getEnvDurationOrDefault("FACEID_ACCESS_TOKEN_TTL", 15*time.Minute),
		DatabaseFile:         getEnvOrDefault("FACEID_DATABASE_FILE", "faceid.db"),
		Env:                  getEnvOrDefault("ENV", "dev"),
		LogLevel:             getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:            getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                 getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod:  getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		HousekeepingInterval: getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", 15*time.Minute),
	}

	// Comma-separated list of origins the browser may complete ceremonies from
	origins := getEnvOrDefault("FACEID_RP_ORIGINS", "http://localhost:8080")
	for _, origin := range strings.Split(origins, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			cfg.RPOrigins = append(cfg.RPOrigins, origin)
		}
	}

	return cfg
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

	// Try parsing as duration (e.g., "1h", "30m", "90s")
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Try parsing as integer minutes (for backwards compatibility)
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}
