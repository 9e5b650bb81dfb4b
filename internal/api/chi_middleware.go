// Profilehub - Personal Link Hub with Live Presence Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/profilehub

package api

import (
	"fmt"
	"math"
	"net"
	"net/http"
	"runtime/debug"
	"strconv"
	"time"

	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"

	"github.com/tomtom215/profilehub/internal/logging"
	"github.com/tomtom215/profilehub/internal/metrics"
)

// ChiMiddlewareConfig holds configuration for Chi middleware factories.
type ChiMiddlewareConfig struct {
	// CORS configuration
	CORSAllowedOrigins   []string
	CORSAllowCredentials bool
	CORSMaxAge           int // seconds

	// Rate limiting configuration
	RateLimitRequests int
	RateLimitWindow   time.Duration
	RateLimitDisabled bool
}

// DefaultChiMiddlewareConfig returns the defaults: the original site's
// origins and 10 requests per minute per IP on write endpoints.
func DefaultChiMiddlewareConfig() *ChiMiddlewareConfig {
	return &ChiMiddlewareConfig{
		CORSAllowedOrigins: []string{
			"http://localhost:3000",
			"http://127.0.0.1:3000",
			"https://chavis.com.tr",
		},
		CORSAllowCredentials: true,
		CORSMaxAge:           86400,

		RateLimitRequests: 10,
		RateLimitWindow:   time.Minute,
	}
}

// ChiMiddleware provides Chi-compatible middleware factories.
type ChiMiddleware struct {
	config *ChiMiddlewareConfig
	cors   func(http.Handler) http.Handler
}

// NewChiMiddleware creates a new Chi middleware factory with the given configuration.
func NewChiMiddleware(config *ChiMiddlewareConfig) *ChiMiddleware {
	if config == nil {
		config = DefaultChiMiddlewareConfig()
	}

	corsHandler := cors.Handler(cors.Options{
		AllowedOrigins:   config.CORSAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID", "Retry-After"},
		AllowCredentials: config.CORSAllowCredentials,
		MaxAge:           config.CORSMaxAge,
	})

	return &ChiMiddleware{
		config: config,
		cors:   corsHandler,
	}
}

// CORS returns the go-chi/cors middleware.
func (m *ChiMiddleware) CORS() func(http.Handler) http.Handler {
	return m.cors
}

// RateLimit returns a per-IP limiter. Every call creates an independent
// counter, so routes that must share a budget must share one instance.
func (m *ChiMiddleware) RateLimit(endpoint string) func(http.Handler) http.Handler {
	if m.config.RateLimitDisabled {
		return func(next http.Handler) http.Handler {
			return next
		}
	}

	return httprate.Limit(
		m.config.RateLimitRequests,
		m.config.RateLimitWindow,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(m.limitHandler(endpoint)),
	)
}

// limitHandler writes the 429 body with the seconds until the window resets.
func (m *ChiMiddleware) limitHandler(endpoint string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		metrics.APIRateLimitHits.WithLabelValues(endpoint).Inc()

		retryAfter := int(math.Ceil(m.config.RateLimitWindow.Seconds()))
		if v, err := strconv.Atoi(w.Header().Get("Retry-After")); err == nil && v >= 0 {
			retryAfter = v
		}

		respondJSON(w, http.StatusTooManyRequests, map[string]any{
			"error":      "Too many requests. Please try again later.",
			"retryAfter": retryAfter,
		})
	}
}

// RecoverJSON recovers from handler panics and answers 500 in the API's
// error shape. http.ErrAbortHandler is re-panicked as net/http expects.
func RecoverJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}

			logging.Ctx(r.Context()).Error().
				Str("panic", fmt.Sprint(rec)).
				Str("stack", string(debug.Stack())).
				Str("path", logging.Sanitize(r.URL.Path)).
				Msg("Unhandled error")

			respondJSON(w, http.StatusInternalServerError, ErrorResponse{
				Error:   "Internal server error",
				Message: "Something went wrong",
			})
		}()
		next.ServeHTTP(w, r)
	})
}

// WhitelistChecker reports whether an IP may reach admin routes.
type WhitelistChecker interface {
	Contains(ip string) bool
}

// RequireWhitelistedIP answers 403 to clients whose IP is not whitelisted.
func RequireWhitelistedIP(list WhitelistChecker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if ip := clientIP(r); !list.Contains(ip) {
				logging.Ctx(r.Context()).Warn().Str("ip", logging.Sanitize(ip)).Msg("Admin request from non-whitelisted IP")
				respondError(w, r, http.StatusForbidden, "Forbidden", "Your IP address is not allowed", nil)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// clientIP returns the host part of RemoteAddr, which chi's RealIP
// middleware has already replaced with the proxied client address.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
