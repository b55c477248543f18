// Package config provides configuration loading and validation for the CLI
// and server. Values come from an optional JSON file merged with environment
// variables; flags win over both.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Config is the application configuration. All fields are optional; missing
// values fall back to defaults or environment variables.
type Config struct {
	// Content source
	SanityProjectID  string `json:"sanity_project_id,omitempty"`
	SanityDataset    string `json:"sanity_dataset,omitempty"`
	SanityAPIVersion string `json:"sanity_api_version,omitempty"`
	ContentFile      string `json:"content_file,omitempty"`      // Local snapshot JSON, used instead of the CMS
	ContentCacheTTL  string `json:"content_cache_ttl,omitempty"` // Go duration, e.g. "10m"
	RefreshSchedule  string `json:"refresh_schedule,omitempty"`  // Cron spec for background re-fetch

	// Generative backend
	APIKey string `json:"api_key,omitempty"` // Gemini API key

	// Server
	Port        int    `json:"port,omitempty"`
	DatabaseURL string `json:"database_url,omitempty"` // Optional transcript persistence

	// Auth for admin endpoints
	JWTSecret          string `json:"jwt_secret,omitempty"`
	JWTExpirationHours int    `json:"jwt_expiration_hours,omitempty"`

	Verbose bool `json:"verbose,omitempty"`
}

// Load reads configuration from a JSON file.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}
	return &cfg, nil
}

// FromEnv builds a configuration from environment variables alone.
func FromEnv() *Config {
	cfg := &Config{
		SanityProjectID:  os.Getenv("SANITY_PROJECT_ID"),
		SanityDataset:    os.Getenv("SANITY_DATASET"),
		SanityAPIVersion: os.Getenv("SANITY_API_VERSION"),
		ContentFile:      os.Getenv("CONTENT_FILE"),
		ContentCacheTTL:  os.Getenv("CONTENT_CACHE_TTL"),
		RefreshSchedule:  os.Getenv("CONTENT_REFRESH_SCHEDULE"),
		APIKey:           os.Getenv("GEMINI_API_KEY"),
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		JWTSecret:        os.Getenv("JWT_SECRET"),
	}
	if port, err := strconv.Atoi(os.Getenv("PORT")); err == nil {
		cfg.Port = port
	}
	if hours, err := strconv.Atoi(os.Getenv("JWT_EXPIRATION_HOURS")); err == nil {
		cfg.JWTExpirationHours = hours
	}
	return cfg
}

// Merge returns a copy of c with empty fields filled from other.
func (c *Config) Merge(other *Config) *Config {
	result := *c
	if result.SanityProjectID == "" {
		result.SanityProjectID = other.SanityProjectID
	}
	if result.SanityDataset == "" {
		result.SanityDataset = other.SanityDataset
	}
	if result.SanityAPIVersion == "" {
		result.SanityAPIVersion = other.SanityAPIVersion
	}
	if result.ContentFile == "" {
		result.ContentFile = other.ContentFile
	}
	if result.ContentCacheTTL == "" {
		result.ContentCacheTTL = other.ContentCacheTTL
	}
	if result.RefreshSchedule == "" {
		result.RefreshSchedule = other.RefreshSchedule
	}
	if result.APIKey == "" {
		result.APIKey = other.APIKey
	}
	if result.Port == 0 {
		result.Port = other.Port
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = other.DatabaseURL
	}
	if result.JWTSecret == "" {
		result.JWTSecret = other.JWTSecret
	}
	if result.JWTExpirationHours == 0 {
		result.JWTExpirationHours = other.JWTExpirationHours
	}
	if !result.Verbose {
		result.Verbose = other.Verbose
	}
	return &result
}

// Validate checks value ranges and mutually exclusive settings.
func (c *Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("config error: invalid port %d", c.Port)
	}
	if c.ContentFile != "" && c.SanityProjectID != "" {
		return fmt.Errorf("config error: 'content_file' and 'sanity_project_id' are mutually exclusive")
	}
	if c.ContentFile != "" {
		if _, err := os.Stat(c.ContentFile); os.IsNotExist(err) {
			return fmt.Errorf("config error: content file not found: %s", c.ContentFile)
		}
	}
	if _, err := c.CacheTTL(); err != nil {
		return err
	}
	if c.JWTExpirationHours < 0 {
		return fmt.Errorf("config error: 'jwt_expiration_hours' must be non-negative")
	}
	return nil
}

// CacheTTL parses the content cache TTL, defaulting to ten minutes.
func (c *Config) CacheTTL() (time.Duration, error) {
	if c.ContentCacheTTL == "" {
		return 10 * time.Minute, nil
	}
	d, err := time.ParseDuration(c.ContentCacheTTL)
	if err != nil {
		return 0, fmt.Errorf("config error: invalid content_cache_ttl %q: %w", c.ContentCacheTTL, err)
	}
	return d, nil
}

// ExpirationHours returns the JWT lifetime, defaulting to 24 hours.
func (c *Config) ExpirationHours() int {
	if c.JWTExpirationHours <= 0 {
		return 24
	}
	return c.JWTExpirationHours
}
