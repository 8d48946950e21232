// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package middleware provides the cross-cutting HTTP processing chain.

Standard Stack:

  - Trace: RequestID generation for log correlation.
  - Log: Structured activity logging (slog).
  - Guard: Deadlines, rate limiting and CORS validation.
  - Safe: Panic recovery to prevent server crashes.
  - Identity: Authenticate, RequireAuth and RequireRole (authz.go).

Every rejection written here uses the same JSON envelope as the handlers.
*/
package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"runtime"
	"strings"
	"sync"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/taibuivan/vidtube/internal/platform/apperr"
	"github.com/taibuivan/vidtube/internal/platform/constants"
	"github.com/taibuivan/vidtube/internal/platform/ctxutil"
	"github.com/taibuivan/vidtube/internal/platform/respond"
)

// # Request Tracing

// RequestID attaches a correlation ID to every request for log tracing.
func RequestID() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {

			// Honour a client-provided ID, otherwise mint a time-sortable one
			requestID := request.Header.Get(constants.HeaderXRequestID)
			if requestID == "" {
				if id, err := uuid.NewV7(); err == nil {
					requestID = id.String()
				} else {
					requestID = uuid.NewString()
				}
			}

			ctx := ctxutil.WithRequestID(request.Context(), requestID)
			writer.Header().Set(constants.HeaderXRequestID, requestID)

			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// # Activity Logging

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (recorder *statusRecorder) WriteHeader(code int) {
	recorder.status = code
	recorder.ResponseWriter.WriteHeader(code)
}

// StructuredLogger logs every request with status and latency, and injects a
// request-scoped logger into the context.
func StructuredLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {

			startTime := time.Now()
			requestLogger := logger.With(
				slog.String("request_id", ctxutil.GetRequestID(request.Context())),
				slog.String("method", request.Method),
				slog.String("path", request.URL.Path),
				slog.String("ip", RealIP(request)),
			)

			ctx := ctxutil.WithLogger(request.Context(), requestLogger)
			wrappedWriter := &statusRecorder{ResponseWriter: writer, status: http.StatusOK}

			next.ServeHTTP(wrappedWriter, request.WithContext(ctx))

			logLevel := slog.LevelInfo
			if wrappedWriter.status >= 500 {
				logLevel = slog.LevelError
			} else if wrappedWriter.status >= 400 {
				logLevel = slog.LevelWarn
			}

			requestLogger.Log(ctx, logLevel, "http_request_finished",
				slog.Int("status", wrappedWriter.status),
				slog.Int64("latency_ms", time.Since(startTime).Milliseconds()),
				slog.String("user_agent", request.UserAgent()),
			)
		})
	}
}

// # Deadlines

// Deadline bounds the request lifecycle. Multipart bodies carry media and get
// the longer upload budget. A handler that gives up without writing a
// response gets a 504 envelope.
func Deadline(jsonTimeout, uploadTimeout time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			timeout := jsonTimeout
			if strings.HasPrefix(request.Header.Get("Content-Type"), "multipart/") {
				timeout = uploadTimeout
			}

			ctx, cancel := context.WithTimeout(request.Context(), timeout)
			defer cancel()

			wrapped := chimw.NewWrapResponseWriter(writer, request.ProtoMajor)
			next.ServeHTTP(wrapped, request.WithContext(ctx))

			if wrapped.Status() == 0 && errors.Is(ctx.Err(), context.DeadlineExceeded) {
				respond.Error(writer, request, apperr.Timeout(ctx.Err()))
			}
		})
	}
}

// # Rate Limiting

type rateLimitClient struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter limits requests per client IP using a token bucket.
type RateLimiter struct {
	mu      sync.Mutex
	clients map[string]*rateLimitClient
	rps     rate.Limit
	burst   int
}

// NewRateLimiter constructs a limiter and starts its cleanup loop, which stops when ctx is done.
func NewRateLimiter(ctx context.Context, rps float64, burst int) *RateLimiter {
	limiter := &RateLimiter{
		clients: make(map[string]*rateLimitClient),
		rps:     rate.Limit(rps),
		burst:   burst,
	}

	go func() {
		ticker := time.NewTicker(constants.RateLimitCleanupInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				limiter.evictIdle(constants.RateLimitClientTTL)
			case <-ctx.Done():
				return
			}
		}
	}()

	return limiter
}

// Allow reports whether a request from ip may proceed.
func (limiter *RateLimiter) Allow(ip string) bool {
	limiter.mu.Lock()
	defer limiter.mu.Unlock()

	client, found := limiter.clients[ip]
	if !found {
		client = &rateLimitClient{limiter: rate.NewLimiter(limiter.rps, limiter.burst)}
		limiter.clients[ip] = client
	}
	client.lastSeen = time.Now()

	return client.limiter.Allow()
}

func (limiter *RateLimiter) evictIdle(ttl time.Duration) {
	limiter.mu.Lock()
	defer limiter.mu.Unlock()

	for ip, client := range limiter.clients {
		if time.Since(client.lastSeen) > ttl {
			delete(limiter.clients, ip)
		}
	}
}

// Handler rejects requests over the per-IP budget with 429.
func (limiter *RateLimiter) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if !limiter.Allow(RealIP(request)) {
			respond.Failure(writer, http.StatusTooManyRequests, "Rate limit exceeded", nil)
			return
		}
		next.ServeHTTP(writer, request)
	})
}

// # Reliability & Safety

// PanicRecovery recovers from panics, logs the stack trace, and returns 500.
func PanicRecovery(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					if err == http.ErrAbortHandler {
						panic(err)
					}

					stackTrace := make([]byte, 4096)
					length := runtime.Stack(stackTrace, false)

					ctxutil.GetLogger(request.Context()).ErrorContext(request.Context(), "panic_recovered",
						slog.Any("error", err),
						slog.String("stack", string(stackTrace[:length])),
					)

					respond.Failure(writer, http.StatusInternalServerError, "An unexpected error occurred", nil)
				}
			}()

			next.ServeHTTP(writer, request)
		})
	}
}

// # Cross-Origin Resource Sharing

// AppConfig defines the behavior needed by the CORS middleware.
type AppConfig interface {
	IsDevelopment() bool
	AllowedOrigin() string
}

// CORS allows the configured origin. Development mode reflects any origin.
func CORS(cfg AppConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			origin := request.Header.Get(constants.HeaderOrigin)
			if origin == "" {
				next.ServeHTTP(writer, request)
				return
			}

			allowed := cfg.AllowedOrigin()
			if cfg.IsDevelopment() || allowed == "*" || strings.EqualFold(origin, allowed) {
				header := writer.Header()
				header.Set("Access-Control-Allow-Origin", origin)
				header.Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
				header.Set("Access-Control-Allow-Headers", "Accept, Content-Type, Content-Length, Authorization, X-Request-ID")
				header.Set("Access-Control-Expose-Headers", "Content-Length, X-Request-ID")
				header.Set("Access-Control-Allow-Credentials", "true")
				header.Set("Access-Control-Max-Age", "300")
				header.Add("Vary", "Origin")
			}

			if request.Method == http.MethodOptions {
				writer.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(writer, request)
		})
	}
}

// # Middleware Helpers

// RealIP extracts client IP, respecting common proxy headers.
func RealIP(request *http.Request) string {
	if ip := request.Header.Get(constants.HeaderXRealIP); ip != "" {
		return ip
	}

	if forwarded := request.Header.Get(constants.HeaderXForwardedFor); forwarded != "" {
		return strings.TrimSpace(strings.Split(forwarded, ",")[0])
	}

	host, _, err := net.SplitHostPort(request.RemoteAddr)
	if err != nil {
		return request.RemoteAddr
	}
	return host
}
