// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package config handles application configuration loading from environment
// variables. A .env file in the working directory is read first when present;
// real environment variables always take precedence over it.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Storage drivers accepted by STORAGE_DRIVER.
const (
	StorageDisk = "disk"
	StorageS3   = "s3"
)

// Config holds all application configuration values loaded from the environment.
type Config struct {
	// Server settings
	Host     string
	Port     string
	Env      string // "development", "production", "testing"
	LogLevel slog.Level

	// PostgreSQL connection
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	// Valkey (Redis-compatible) list cache. Empty host disables caching.
	ValkeyHost     string
	ValkeyPort     string
	ValkeyPassword string
	ListCacheTTL   time.Duration

	// Uploaded assets
	PublicDir      string // root of the public asset tree; files go under <PublicDir>/uploads
	MaxUploadBytes int64
	StorageDriver  string // "disk" or "s3"

	// S3-compatible object storage, used when StorageDriver is "s3".
	S3Endpoint  string
	S3Region    string
	S3AccessKey string
	S3SecretKey string
	S3Bucket    string
	S3PublicURL string

	// Write rate limiting for the API (per client IP).
	WriteRateLimit float64
	WriteRateBurst int
	// TrustProxy takes the client IP from X-Real-IP or X-Forwarded-For.
	// Enable only behind a reverse proxy that sets those headers.
	TrustProxy bool
}

// Load reads configuration from environment variables, applying defaults
// for development where appropriate. Returns an error if a value cannot be
// parsed or critical values are missing in production mode.
func Load() (*Config, error) {
	// A missing .env file is the normal case outside local development.
	_ = godotenv.Load()

	cfg := &Config{
		Host: envOrDefault("APP_HOST", "0.0.0.0"),
		Port: envOrDefault("APP_PORT", "8080"),
		Env:  envOrDefault("APP_ENV", "development"),

		DBHost:     envOrDefault("POSTGRES_HOST", "localhost"),
		DBPort:     envOrDefault("POSTGRES_PORT", "5432"),
		DBUser:     envOrDefault("POSTGRES_USER", "softcatalog"),
		DBPassword: envOrDefault("POSTGRES_PASSWORD", "changeme"),
		DBName:     envOrDefault("POSTGRES_DB", "softcatalog"),

		ValkeyHost:     os.Getenv("VALKEY_HOST"),
		ValkeyPort:     envOrDefault("VALKEY_PORT", "6379"),
		ValkeyPassword: os.Getenv("VALKEY_PASSWORD"),

		PublicDir:     envOrDefault("PUBLIC_DIR", "public"),
		StorageDriver: strings.ToLower(envOrDefault("STORAGE_DRIVER", StorageDisk)),

		S3Endpoint:  os.Getenv("S3_ENDPOINT"),
		S3Region:    envOrDefault("S3_REGION", "us-east-1"),
		S3AccessKey: os.Getenv("S3_ACCESS_KEY"),
		S3SecretKey: os.Getenv("S3_SECRET_KEY"),
		S3Bucket:    os.Getenv("S3_BUCKET"),
		S3PublicURL: os.Getenv("S3_PUBLIC_URL"),
	}

	var err error
	if cfg.LogLevel, err = parseLevel(envOrDefault("LOG_LEVEL", "debug")); err != nil {
		return nil, err
	}
	if cfg.ListCacheTTL, err = time.ParseDuration(envOrDefault("LIST_CACHE_TTL", "5m")); err != nil {
		return nil, fmt.Errorf("LIST_CACHE_TTL: %w", err)
	}

	maxMB, err := strconv.ParseInt(envOrDefault("MAX_UPLOAD_MB", "50"), 10, 64)
	if err != nil || maxMB <= 0 {
		return nil, fmt.Errorf("MAX_UPLOAD_MB must be a positive integer")
	}
	cfg.MaxUploadBytes = maxMB << 20

	if cfg.WriteRateLimit, err = strconv.ParseFloat(envOrDefault("WRITE_RATE_LIMIT", "5"), 64); err != nil || cfg.WriteRateLimit <= 0 {
		return nil, fmt.Errorf("WRITE_RATE_LIMIT must be a positive number")
	}
	if cfg.WriteRateBurst, err = strconv.Atoi(envOrDefault("WRITE_RATE_BURST", "20")); err != nil || cfg.WriteRateBurst <= 0 {
		return nil, fmt.Errorf("WRITE_RATE_BURST must be a positive integer")
	}
	if cfg.TrustProxy, err = strconv.ParseBool(envOrDefault("TRUST_PROXY", "false")); err != nil {
		return nil, fmt.Errorf("TRUST_PROXY must be true or false")
	}

	switch cfg.StorageDriver {
	case StorageDisk:
	case StorageS3:
		if cfg.S3Endpoint == "" || cfg.S3AccessKey == "" || cfg.S3SecretKey == "" || cfg.S3Bucket == "" {
			return nil, fmt.Errorf("STORAGE_DRIVER=s3 requires S3_ENDPOINT, S3_ACCESS_KEY, S3_SECRET_KEY and S3_BUCKET")
		}
	default:
		return nil, fmt.Errorf("STORAGE_DRIVER must be %q or %q, got %q", StorageDisk, StorageS3, cfg.StorageDriver)
	}

	if cfg.Env == "production" {
		if cfg.DBPassword == "changeme" {
			return nil, fmt.Errorf("POSTGRES_PASSWORD must be set in production")
		}
	}

	return cfg, nil
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName,
	)
}

// Addr returns the server listen address (host:port).
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// IsDev returns true if the application is running in development mode.
func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// CacheEnabled reports whether a Valkey host was configured for list caching.
func (c *Config) CacheEnabled() bool {
	return c.ValkeyHost != ""
}

// parseLevel maps LOG_LEVEL names onto slog levels.
func parseLevel(s string) (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("LOG_LEVEL: %w", err)
	}
	return lvl, nil
}

// envOrDefault reads an environment variable, returning a fallback if unset or empty.
func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
