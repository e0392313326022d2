// Package config loads and validates application configuration from
// environment variables. A .env file in the working directory is loaded
// first when present (local development convenience; real deployments set
// the environment directly).
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration values for the API server.
// Values are populated by Load from environment variables.
type Config struct {
	// Port is the TCP port the HTTP server listens on. Defaults to "8080".
	Port string

	// DatabaseURL is the Postgres connection string. Required.
	DatabaseURL string

	// JWTSecret signs and verifies access tokens. Required.
	JWTSecret string

	// LogLevel controls the minimum log level. Defaults to "info".
	// Valid values: debug, info, warn, error.
	LogLevel string

	// CORSOrigins is the list of allowed cross-origin request origins.
	// Defaults to ["http://localhost:5173"] (Vite dev server).
	// Set CORS_ORIGINS to a comma-separated list to override.
	CORSOrigins []string

	// RedisAddr enables the response cache when set (host:port).
	// Empty disables caching; the API works fully without it.
	RedisAddr string

	// RedisPassword authenticates against Redis. Optional.
	RedisPassword string

	// CacheTTL is how long cached provider responses stay fresh.
	// Defaults to 10 minutes.
	CacheTTL time.Duration

	// AviationAPIURL and AviationAPIKey configure the flight search provider.
	// The URL defaults to the public aviationstack endpoint; the key may be
	// empty, in which case flight search degrades to the demo offer.
	AviationAPIURL string
	AviationAPIKey string

	// WeatherAPIURL and WeatherAPIKey configure the forecast provider.
	WeatherAPIURL string
	WeatherAPIKey string
}

// Load reads configuration from environment variables and returns a Config.
// Returns an error listing any required variables that are not set.
func Load() (Config, error) {
	// Missing .env is the normal case outside local development.
	_ = godotenv.Load()

	cfg := Config{
		Port:           getEnv("PORT", "8080"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		CORSOrigins:    splitCSV(getEnv("CORS_ORIGINS", "http://localhost:5173")),
		RedisAddr:      os.Getenv("REDIS_ADDR"),
		RedisPassword:  os.Getenv("REDIS_PASSWORD"),
		AviationAPIURL: getEnv("AVIATION_API_URL", "https://api.aviationstack.com"),
		AviationAPIKey: os.Getenv("AVIATION_API_KEY"),
		WeatherAPIURL:  getEnv("WEATHER_API_URL", "https://api.openweathermap.org"),
		WeatherAPIKey:  os.Getenv("WEATHER_API_KEY"),
	}

	ttl, err := time.ParseDuration(getEnv("CACHE_TTL", "10m"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid CACHE_TTL: %w", err)
	}
	cfg.CacheTTL = ttl

	var missing []string

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}
	cfg.JWTSecret = os.Getenv("JWT_SECRET")
	if cfg.JWTSecret == "" {
		missing = append(missing, "JWT_SECRET")
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("required environment variables not set: %s", strings.Join(missing, ", "))
	}

	return cfg, nil
}

// getEnv returns the value of the environment variable named by key,
// or fallback if the variable is not set or is empty.
func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// splitCSV splits a comma-separated string into a trimmed slice, ignoring empty entries.
func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	return out
}
