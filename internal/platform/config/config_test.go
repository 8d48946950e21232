// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/vidtube/internal/platform/config"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("DATABASE_URL", "postgres://localhost/vidtube")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("ACCESS_TOKEN_SECRET", "access")
	t.Setenv("REFRESH_TOKEN_SECRET", "refresh")
	t.Setenv("S3_BUCKET", "media")
	t.Setenv("S3_PUBLIC_BASE_URL", "https://cdn.example.com/media/")
}

/*
TestLoad_Defaults verifies defaults are applied when only required variables are set.
*/
func TestLoad_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := config.Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "8000", cfg.ServerPort)
	assert.Equal(t, 24*time.Hour, cfg.AccessTokenExpiry)
	assert.Equal(t, 240*time.Hour, cfg.RefreshTokenExpiry)
	assert.Equal(t, "https://cdn.example.com/media", cfg.S3PublicBaseURL)
	assert.True(t, cfg.IsDevelopment())
}

/*
TestLoad_EnvFile verifies that a .env file fills variables missing from the environment.
*/
func TestLoad_EnvFile(t *testing.T) {
	setRequired(t)

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("SERVER_PORT=9090\nCORS_ORIGIN=https://app.example.com\n"), 0o600))
	t.Cleanup(func() {
		_ = os.Unsetenv("SERVER_PORT")
		_ = os.Unsetenv("CORS_ORIGIN")
	})

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.ServerPort)
	assert.Equal(t, "https://app.example.com", cfg.AllowedOrigin())
}

/*
TestLoad_Rejects covers missing and inconsistent settings.
*/
func TestLoad_Rejects(t *testing.T) {
	t.Run("same_secrets", func(t *testing.T) {
		setRequired(t)
		t.Setenv("REFRESH_TOKEN_SECRET", "access")

		_, err := config.Load(filepath.Join(t.TempDir(), "missing.env"))
		assert.Error(t, err)
	})

	t.Run("missing_database", func(t *testing.T) {
		setRequired(t)
		t.Setenv("DATABASE_URL", "")

		_, err := config.Load(filepath.Join(t.TempDir(), "missing.env"))
		assert.Error(t, err)
	})
}
