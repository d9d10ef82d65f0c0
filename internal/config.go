package internal

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env         string
	Port        int
	LogLevel    string
	DatabaseUrl string

	// Templates are read from disk when TemplateReload is set so edits show up
	// without a restart. Otherwise the embedded copy is used.
	TemplatesDir   string
	TemplateReload bool

	// Pagination
	ItemsPerPage    int // Page size shared by every list page
	PaginationDelta int // Page links shown on each side of the current page

	// Identity provider session verification
	AuthJWTSecret    string // HS256 shared secret (development / tests)
	AuthJWTPublicKey string // RS256 PEM public key (production)
	AuthIssuer       string // Optional expected "iss" claim
	AuthSignInURL    string // Where unauthenticated browsers are sent

	// Storage Configuration
	StorageProvider string // "local" or "r2"

	// Local Storage (development)
	LocalStoragePath string
	LocalStorageURL  string

	// R2 Storage (production)
	R2AccountID       string
	R2AccessKeyID     string
	R2SecretAccessKey string
	R2BucketName      string
	R2PublicURL       string

	// API rate limiting (grade mutations, photo uploads)
	APIRateLimit  int
	APIRateWindow time.Duration

	// Metrics endpoint authentication
	// If both are empty, the /metrics endpoint will be unprotected (not recommended)
	MetricsUsername string
	MetricsPassword string
}

func NewConfig() (*Config, error) {
	// Load .env file if it exists (ignored in production)
	_ = godotenv.Load()

	cfg := &Config{
		Env:          getEnv("ENV", "development"),
		Port:         getEnvInt("PORT", 8080),
		LogLevel:     getEnv("LOG_LEVEL", "debug"),
		TemplatesDir: getEnv("TEMPLATES_DIR", "web/templates"),

		ItemsPerPage:    getEnvInt("ITEMS_PER_PAGE", 10),
		PaginationDelta: getEnvInt("PAGINATION_DELTA", 2),

		AuthJWTSecret:    getEnv("AUTH_JWT_SECRET", ""),
		AuthJWTPublicKey: getEnv("AUTH_JWT_PUBLIC_KEY", ""),
		AuthIssuer:       getEnv("AUTH_ISSUER", ""),
		AuthSignInURL:    getEnv("AUTH_SIGN_IN_URL", "/sign-in"),

		// Storage defaults to local filesystem for development
		StorageProvider:  getEnv("STORAGE_PROVIDER", "local"),
		LocalStoragePath: getEnv("LOCAL_STORAGE_PATH", "./storage"),
		LocalStorageURL:  getEnv("LOCAL_STORAGE_URL", "http://localhost:8080/files"),

		R2AccountID:       getEnv("R2_ACCOUNT_ID", ""),
		R2AccessKeyID:     getEnv("R2_ACCESS_KEY_ID", ""),
		R2SecretAccessKey: getEnv("R2_SECRET_ACCESS_KEY", ""),
		R2BucketName:      getEnv("R2_BUCKET_NAME", ""),
		R2PublicURL:       getEnv("R2_PUBLIC_URL", ""),

		APIRateLimit:  getEnvInt("API_RATE_LIMIT", 60),
		APIRateWindow: getEnvDuration("API_RATE_WINDOW", time.Minute),

		MetricsUsername: getEnv("METRICS_USERNAME", ""),
		MetricsPassword: getEnv("METRICS_PASSWORD", ""),
	}

	cfg.TemplateReload = getEnvBool("TEMPLATE_RELOAD", cfg.Env == "development")

	// Required
	cfg.DatabaseUrl = os.Getenv("DATABASE_URL")
	if cfg.DatabaseUrl == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.ItemsPerPage < 1 {
		return fmt.Errorf("ITEMS_PER_PAGE must be at least 1, got %d", c.ItemsPerPage)
	}
	if c.PaginationDelta < 0 {
		return fmt.Errorf("PAGINATION_DELTA must not be negative, got %d", c.PaginationDelta)
	}

	if c.AuthJWTSecret == "" && c.AuthJWTPublicKey == "" {
		return fmt.Errorf("one of AUTH_JWT_SECRET or AUTH_JWT_PUBLIC_KEY is required")
	}

	// Validate storage configuration
	if c.StorageProvider == "r2" {
		if c.R2AccountID == "" {
			return fmt.Errorf("R2_ACCOUNT_ID is required when STORAGE_PROVIDER is 'r2'")
		}
		if c.R2AccessKeyID == "" {
			return fmt.Errorf("R2_ACCESS_KEY_ID is required when STORAGE_PROVIDER is 'r2'")
		}
		if c.R2SecretAccessKey == "" {
			return fmt.Errorf("R2_SECRET_ACCESS_KEY is required when STORAGE_PROVIDER is 'r2'")
		}
		if c.R2BucketName == "" {
			return fmt.Errorf("R2_BUCKET_NAME is required when STORAGE_PROVIDER is 'r2'")
		}
	} else if c.StorageProvider != "local" {
		return fmt.Errorf("STORAGE_PROVIDER must be either 'local' or 'r2', got: %s", c.StorageProvider)
	}

	return nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}
