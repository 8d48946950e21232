// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package api wires together the HTTP router, middleware chain, and all
domain handlers into a runnable [http.Server].

Architecture:

  - This package is the topmost Presentation layer boundary.
  - It acts as the central composition root for the HTTP transport framework (chi router).
  - Only this package and cmd/api are allowed to import net/http server primitives.
*/
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/taibuivan/vidtube/internal/content/playlist"
	"github.com/taibuivan/vidtube/internal/content/tweet"
	"github.com/taibuivan/vidtube/internal/content/video"
	"github.com/taibuivan/vidtube/internal/platform/config"
	"github.com/taibuivan/vidtube/internal/platform/constants"
	"github.com/taibuivan/vidtube/internal/platform/middleware"
	"github.com/taibuivan/vidtube/internal/users/account"
	"github.com/taibuivan/vidtube/internal/users/auth"
)

// # Server Definitions

// Server wraps the chi router and the [http.Server].
//
// It is constructed once in main.go with all dependencies injected.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	log        *slog.Logger
}

// # Handler Registry

// Handlers groups all domain-specific HTTP handler sets.
type Handlers struct {
	Health HealthHandlers

	// Auth owns the identity lifecycle: register, login, refresh, logout, password.
	Auth *auth.Handler

	// Account owns the profile, images and the admin user routes.
	Account *account.Handler

	Tweet    *tweet.Handler
	Video    *video.Handler
	Playlist *playlist.Handler
}

// # Server Initialization

// NewServer constructs the chi router with the full middleware chain and
// registers all route groups. ctx stops the rate limiter's cleanup loop.
func NewServer(ctx context.Context, cfg *config.Config, log *slog.Logger, verifier middleware.TokenVerifier, identities middleware.IdentityLookup, h Handlers) *Server {
	router := NewRouter(ctx, cfg, log, verifier, identities, h)

	return &Server{
		router: router,
		log:    log,
		httpServer: &http.Server{
			Addr:              ":" + cfg.ServerPort,
			Handler:           router,
			ReadTimeout:       constants.DefaultReadTimeout,
			WriteTimeout:      constants.DefaultWriteTimeout,
			IdleTimeout:       constants.DefaultIdleTimeout,
			ReadHeaderTimeout: constants.DefaultReadHeaderTimeout,
		},
	}
}

// NewRouter builds the routing tree on its own so it can be served by tests.
func NewRouter(ctx context.Context, cfg *config.Config, log *slog.Logger, verifier middleware.TokenVerifier, identities middleware.IdentityLookup, h Handlers) *chi.Mux {
	r := chi.NewRouter()

	// # Middleware Chain
	// Global middleware applied in order of execution.
	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(log))
	r.Use(middleware.Deadline(constants.GlobalRequestTimeout, constants.UploadRequestTimeout))
	r.Use(middleware.NewRateLimiter(ctx, constants.DefaultRateLimitRPS, constants.DefaultRateLimitBurst).Handler)
	r.Use(middleware.PanicRecovery(log))
	r.Use(middleware.Authenticate(verifier, identities))
	r.Use(middleware.CORS(cfg))
	r.Use(chimw.CleanPath)

	// # Infrastructure Endpoints
	// Unauthenticated health probes for container orchestration.
	r.Get("/health", h.Health.Liveness)
	r.Get("/ready", h.Health.Readiness)

	// # Application API
	r.Route("/api/v1", func(api chi.Router) {
		api.Get("/healthcheck", h.Health.HealthCheck)

		api.Route("/user", func(user chi.Router) {
			h.Auth.Register(user)
			h.Account.Register(user)
			h.Video.RegisterHistory(user)
		})
		api.Route("/tweet", h.Tweet.Register)
		api.Route("/video", h.Video.Register)
		api.Route("/playlist", h.Playlist.Register)
	})

	return r
}

// # Server Lifecycle

// ListenAndServe starts the HTTP server.
//
// It blocks until the server is closed or an error occurs.
func (s *Server) ListenAndServe() error {
	s.log.Info("server_starting", slog.String("addr", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the server, waiting for in-flight requests.
func (s *Server) Shutdown(timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.httpServer.Shutdown(ctx)
}
