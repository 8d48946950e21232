// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package config handles application-wide settings and environment parsing.

It leverages 'caarlos0/env' to map OS environment variables into a strongly-typed
Go struct. A '.env' file in the working directory, when present, is loaded first
with 'joho/godotenv'; variables already set in the process environment win.

Usage:

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}
*/
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// # Configuration Schema

// Config holds all runtime configuration for the API server.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8000"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// Relational Database (PostgreSQL)
	DatabaseURL   string `env:"DATABASE_URL,required,notEmpty"`
	MigrationPath string `env:"MIGRATION_PATH" envDefault:"./data/migrations"`

	// Key-Value Store (Redis)
	RedisURL string `env:"REDIS_URL,required,notEmpty"`

	// Token signing
	AccessTokenSecret  string        `env:"ACCESS_TOKEN_SECRET,required,notEmpty"`
	AccessTokenExpiry  time.Duration `env:"ACCESS_TOKEN_EXPIRY"  envDefault:"24h"`
	RefreshTokenSecret string        `env:"REFRESH_TOKEN_SECRET,required,notEmpty"`
	RefreshTokenExpiry time.Duration `env:"REFRESH_TOKEN_EXPIRY" envDefault:"240h"`

	// Login throttling
	LoginMaxAttempts   int64         `env:"LOGIN_MAX_ATTEMPTS"   envDefault:"5"`
	LoginAttemptWindow time.Duration `env:"LOGIN_ATTEMPT_WINDOW" envDefault:"15m"`

	// Cross-Origin Resource Sharing
	CORSOrigin string `env:"CORS_ORIGIN" envDefault:"*"`

	// Object Storage (S3-compatible)
	S3Bucket        string `env:"S3_BUCKET,required"`
	S3Region        string `env:"S3_REGION"   envDefault:"us-east-1"`
	S3Endpoint      string `env:"S3_ENDPOINT"`
	S3PublicBaseURL string `env:"S3_PUBLIC_BASE_URL,required"`

	// Static credentials; empty falls back to the default AWS chain.
	S3AccessKeyID     string `env:"S3_ACCESS_KEY_ID"`
	S3SecretAccessKey string `env:"S3_SECRET_ACCESS_KEY"`

	// Local upload buffering
	UploadTempDir  string `env:"UPLOAD_TEMP_DIR"  envDefault:"./public/temp"`
	UploadMaxBytes int64  `env:"UPLOAD_MAX_BYTES" envDefault:"536870912"`
}

// # Configuration Loading

// Load reads an optional .env file and parses environment variables into a [Config].
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}

	// A missing .env is normal outside local development.
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("config: failed to read env file: %w", err)
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// validate enforces cross-field rules that struct tags cannot express.
func (c *Config) validate() error {
	if c.AccessTokenSecret == c.RefreshTokenSecret {
		return errors.New("config: ACCESS_TOKEN_SECRET and REFRESH_TOKEN_SECRET must differ")
	}
	if c.UploadMaxBytes <= 0 {
		return errors.New("config: UPLOAD_MAX_BYTES must be positive")
	}
	c.S3PublicBaseURL = strings.TrimSuffix(c.S3PublicBaseURL, "/")
	return nil
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction reports whether the server is running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// AllowedOrigin returns the configured cross-origin source.
func (c *Config) AllowedOrigin() string {
	return c.CORSOrigin
}
