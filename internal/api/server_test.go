// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package api_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/vidtube/internal/api"
	"github.com/taibuivan/vidtube/internal/content/playlist"
	"github.com/taibuivan/vidtube/internal/content/tweet"
	"github.com/taibuivan/vidtube/internal/content/video"
	"github.com/taibuivan/vidtube/internal/platform/config"
	"github.com/taibuivan/vidtube/internal/platform/middleware/authtest"
	"github.com/taibuivan/vidtube/internal/platform/sec"
	"github.com/taibuivan/vidtube/internal/platform/upload"
	"github.com/taibuivan/vidtube/internal/users/account"
	"github.com/taibuivan/vidtube/internal/users/auth"
)

func newRouter(t *testing.T, deps api.HealthDependencies) http.Handler {
	t.Helper()
	tokens, err := sec.NewTokenService(sec.TokenConfig{
		AccessSecret:  "access-secret",
		AccessTTL:     time.Hour,
		RefreshSecret: "refresh-secret",
		RefreshTTL:    24 * time.Hour,
		Issuer:        "vidtube-test",
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	uploads := upload.Options{Dir: t.TempDir(), MaxBytes: 1 << 20}

	// Services are never reached: every route exercised here stops at the auth gate.
	handlers := api.Handlers{
		Health:   api.NewHealthHandlers(deps, logger),
		Auth:     auth.NewHandler(nil, uploads),
		Account:  account.NewHandler(nil, uploads),
		Tweet:    tweet.NewHandler(nil),
		Video:    video.NewHandler(nil, uploads),
		Playlist: playlist.NewHandler(nil),
	}
	cfg := &config.Config{Environment: "test", CORSOrigin: "*"}
	return api.NewRouter(ctx, cfg, logger, tokens, authtest.NewDirectory(), handlers)
}

func get(router http.Handler, target string) *httptest.ResponseRecorder {
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, target, nil))
	return recorder
}

/*
TestRouter_HealthEndpoints checks the three probes.
*/
func TestRouter_HealthEndpoints(t *testing.T) {
	router := newRouter(t, api.HealthDependencies{
		"postgres": func(context.Context) error { return nil },
	})

	recorder := get(router, "/api/v1/healthcheck")
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `"data":"OK"`)
	assert.NotEmpty(t, recorder.Header().Get("X-Request-ID"))

	assert.Equal(t, http.StatusOK, get(router, "/health").Code)

	recorder = get(router, "/ready")
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `"status":"ready"`)
}

/*
TestRouter_ReadinessDegraded reports 503 when any dependency fails.
*/
func TestRouter_ReadinessDegraded(t *testing.T) {
	router := newRouter(t, api.HealthDependencies{
		"postgres": func(context.Context) error { return nil },
		"redis":    func(context.Context) error { return errors.New("connection refused") },
	})

	recorder := get(router, "/ready")
	assert.Equal(t, http.StatusServiceUnavailable, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `"success":false`)
	assert.Contains(t, recorder.Body.String(), "connection refused")
}

/*
TestRouter_ContentRoutesRequireAuth verifies every resource group is mounted
behind the auth gate.
*/
func TestRouter_ContentRoutesRequireAuth(t *testing.T) {
	router := newRouter(t, api.HealthDependencies{})

	for _, target := range []string{
		"/api/v1/user/get-user",
		"/api/v1/user/history",
		"/api/v1/tweet/",
		"/api/v1/video/",
		"/api/v1/playlist/get-user-playlists/0190f3a2-7c4e-7b1a-9c3d-2e5f6a7b8c9d",
	} {
		t.Run(target, func(t *testing.T) {
			recorder := get(router, target)
			assert.Equal(t, http.StatusUnauthorized, recorder.Code)
			assert.Contains(t, recorder.Body.String(), `"errors":[]`)
		})
	}

	assert.Equal(t, http.StatusNotFound, get(router, "/api/v1/unknown").Code)
}
