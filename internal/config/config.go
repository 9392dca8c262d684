// Package config loads service configuration from the environment.
package config

import (
	"os"
	"strconv"
	"time"
)

// Config carries everything the service needs to wire itself up.
type Config struct {
	// Port the HTTP server listens on.
	Port string

	// Environment is a free-form deployment label ("development",
	// "production") surfaced in logs and health output.
	Environment string

	// CatalogURL is the remote catalog base URL. Empty means bundled
	// defaults only.
	CatalogURL string

	// AssetBase resolves relative texture references: an HTTP base URL or
	// a local directory.
	AssetBase string

	// ArtworkBase resolves relative scene artwork references the same way.
	ArtworkBase string

	// LogLevel is the minimum slog level: "debug", "info", "warn", "error".
	LogLevel string

	// ViewportWidth and ViewportHeight override the fallback viewport used
	// for artwork without a usable viewBox. Zero keeps the engine default.
	ViewportWidth  int
	ViewportHeight int

	// HTTP server timeouts.
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	// FetchTimeout bounds outbound catalog, artwork and texture fetches.
	FetchTimeout time.Duration
}

// Load reads configuration from environment variables, falling back to
// development defaults.
func Load() *Config {
	return &Config{
		Port:           getEnv("SURFACE_PORT", "8080"),
		Environment:    getEnv("SURFACE_ENV", "development"),
		CatalogURL:     getEnv("SURFACE_CATALOG_URL", ""),
		AssetBase:      getEnv("SURFACE_ASSET_BASE", "assets"),
		ArtworkBase:    getEnv("SURFACE_ARTWORK_BASE", "assets"),
		LogLevel:       getEnv("SURFACE_LOG_LEVEL", "info"),
		ViewportWidth:  getEnvInt("SURFACE_VIEWPORT_WIDTH", 0),
		ViewportHeight: getEnvInt("SURFACE_VIEWPORT_HEIGHT", 0),
		ReadTimeout:    getEnvSeconds("SURFACE_READ_TIMEOUT", 15),
		WriteTimeout:   getEnvSeconds("SURFACE_WRITE_TIMEOUT", 30),
		FetchTimeout:   getEnvSeconds("SURFACE_FETCH_TIMEOUT", 15),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}

func getEnvSeconds(key string, fallback int) time.Duration {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return time.Duration(n) * time.Second
		}
	}
	return time.Duration(fallback) * time.Second
}
