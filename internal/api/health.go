// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package api

import (
	"context"
	"log/slog"
	"maps"
	"net/http"
	"slices"
	"time"

	"github.com/taibuivan/vidtube/internal/platform/respond"
)

// readinessTimeout bounds every dependency check of one /ready call.
const readinessTimeout = 3 * time.Second

// Check reports whether one dependency is reachable.
type Check func(ctx context.Context) error

// HealthDependencies holds the named checks run by the /ready endpoint, e.g.
// "postgres", "redis" and "media".
type HealthDependencies map[string]Check

type healthHandler struct {
	dependencies HealthDependencies
	logger       *slog.Logger
}

type checkResult struct {
	Name  string `json:"name"`
	IsOK  bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// HealthHandlers are the probe endpoints.
type HealthHandlers struct {
	Liveness    http.HandlerFunc
	Readiness   http.HandlerFunc
	HealthCheck http.HandlerFunc
}

// NewHealthHandlers creates the /health, /ready and /api/v1/healthcheck handlers.
func NewHealthHandlers(deps HealthDependencies, logger *slog.Logger) HealthHandlers {
	handler := &healthHandler{dependencies: deps, logger: logger}
	return HealthHandlers{
		Liveness:    handler.liveness,
		Readiness:   handler.readiness,
		HealthCheck: handler.healthCheck,
	}
}

// liveness handles GET /health.
func (handler *healthHandler) liveness(writer http.ResponseWriter, _ *http.Request) {
	respond.OK(writer, map[string]string{"status": "ok"}, "Service is alive")
}

// healthCheck handles GET /api/v1/healthcheck.
func (handler *healthHandler) healthCheck(writer http.ResponseWriter, _ *http.Request) {
	respond.OK(writer, "OK", "Health check passed")
}

// readiness handles GET /ready. Any failing dependency turns the answer into a 503.
func (handler *healthHandler) readiness(writer http.ResponseWriter, request *http.Request) {
	ctx, cancel := context.WithTimeout(request.Context(), readinessTimeout)
	defer cancel()

	results := make([]checkResult, 0, len(handler.dependencies))
	isSystemReady := true

	for _, name := range slices.Sorted(maps.Keys(handler.dependencies)) {
		result := checkResult{Name: name, IsOK: true}
		if err := handler.dependencies[name](ctx); err != nil {
			result.IsOK = false
			result.Error = err.Error()
			isSystemReady = false
			handler.logger.ErrorContext(ctx, "readiness_check_failed",
				slog.String("dependency", name),
				slog.Any("error", err),
			)
		}
		results = append(results, result)
	}

	payload := map[string]any{"status": "ready", "checks": results}
	if !isSystemReady {
		payload["status"] = "degraded"
		respond.JSON(writer, http.StatusServiceUnavailable, respond.Envelope{
			Status:  http.StatusServiceUnavailable,
			Data:    payload,
			Message: "Service is degraded",
			Success: false,
		})
		return
	}
	respond.OK(writer, payload, "Service is ready")
}
