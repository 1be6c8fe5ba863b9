// Package config handles application configuration loading from environment
// variables. It provides a centralized Config struct used across the application.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration values loaded from the environment.
type Config struct {
	// Server settings
	Host string
	Port string
	Env  string // "development", "production", "testing"

	// Sanity content store
	SanityProjectID  string
	SanityDataset    string
	SanityAPIVersion string
	SanityToken      string // write token, required for comment submission
	SanityBaseURL    string // override for tests / self-hosted gateways
	SanityUseCDN     bool

	// Valkey (Redis-compatible page cache) — optional
	ValkeyHost     string
	ValkeyPort     string
	ValkeyPassword string

	// RevalidateInterval is how long a resolved post stays fresh before a
	// background refresh is triggered on next access.
	RevalidateInterval time.Duration
}

// Load reads configuration from environment variables, applying defaults
// for development where appropriate. A .env file in the working directory
// is loaded first if present (ignored when absent). Returns an error if
// critical values are missing in production mode.
func Load() (*Config, error) {
	// Best-effort .env loading for local development.
	_ = godotenv.Load()

	revalidate, err := strconv.Atoi(envOrDefault("REVALIDATE_INTERVAL", "60"))
	if err != nil || revalidate <= 0 {
		return nil, fmt.Errorf("REVALIDATE_INTERVAL must be a positive integer of seconds")
	}

	cfg := &Config{
		Host: envOrDefault("APP_HOST", "0.0.0.0"),
		Port: envOrDefault("APP_PORT", "8080"),
		Env:  envOrDefault("APP_ENV", "development"),

		SanityProjectID:  envOrDefault("SANITY_PROJECT_ID", "dev-project"),
		SanityDataset:    envOrDefault("SANITY_DATASET", "production"),
		SanityAPIVersion: envOrDefault("SANITY_API_VERSION", "2021-10-21"),
		SanityToken:      os.Getenv("SANITY_API_TOKEN"),
		SanityBaseURL:    os.Getenv("SANITY_BASE_URL"),
		SanityUseCDN:     envOrDefault("SANITY_USE_CDN", "false") == "true",

		ValkeyHost:     os.Getenv("VALKEY_HOST"),
		ValkeyPort:     envOrDefault("VALKEY_PORT", "6379"),
		ValkeyPassword: os.Getenv("VALKEY_PASSWORD"),

		RevalidateInterval: time.Duration(revalidate) * time.Second,
	}

	if cfg.Env == "production" {
		if cfg.SanityProjectID == "dev-project" {
			return nil, fmt.Errorf("SANITY_PROJECT_ID must be set in production")
		}
		if cfg.SanityToken == "" {
			return nil, fmt.Errorf("SANITY_API_TOKEN must be set in production (comment writes need it)")
		}
	}

	return cfg, nil
}

// StoreBaseURL returns the content store API base URL. An explicit
// SANITY_BASE_URL wins; otherwise the URL is derived from the project ID,
// using the CDN host for read-mostly deployments.
func (c *Config) StoreBaseURL() string {
	if c.SanityBaseURL != "" {
		return c.SanityBaseURL
	}
	host := "api.sanity.io"
	if c.SanityUseCDN {
		host = "apicdn.sanity.io"
	}
	return fmt.Sprintf("https://%s.%s", c.SanityProjectID, host)
}

// Addr returns the server listen address (host:port).
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// IsDev returns true if the application is running in development mode.
func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// ValkeyEnabled reports whether a page-cache backend was configured.
func (c *Config) ValkeyEnabled() bool {
	return c.ValkeyHost != ""
}

// envOrDefault reads an environment variable, returning a fallback if unset or empty.
func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
