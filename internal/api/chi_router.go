// Profilehub - Personal Link Hub with Live Presence Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/profilehub

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/profilehub/internal/middleware"
)

// RouterConfig holds the non-handler inputs of the route tree.
type RouterConfig struct {
	StaticDir          string
	UploadDir          string
	HSTS               bool
	EnforceIPWhitelist bool
	Middleware         *ChiMiddlewareConfig
}

// Router builds the HTTP route tree.
type Router struct {
	handler       *Handler
	config        RouterConfig
	chiMiddleware *ChiMiddleware
}

// NewRouter creates a router for handler.
func NewRouter(handler *Handler, config RouterConfig) *Router {
	return &Router{
		handler:       handler,
		config:        config,
		chiMiddleware: NewChiMiddleware(config.Middleware),
	}
}

// Setup configures all HTTP routes.
func (router *Router) Setup() http.Handler {
	h := router.handler
	r := chi.NewRouter()

	// ========================
	// Global Middleware Stack
	// ========================
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(RecoverJSON)
	r.Use(middleware.SecurityHeaders(router.config.HSTS))
	r.Use(router.chiMiddleware.CORS())
	r.Use(middleware.PrometheusMetrics)

	r.NotFound(notFound)
	r.MethodNotAllowed(methodNotAllowed)

	// ========================
	// Public API
	// ========================
	r.Route("/api", func(r chi.Router) {
		r.Get("/health", h.Health)
		r.Get("/views", h.Views)

		// Increment and set share one budget, as in the original limiter.
		r.Group(func(r chi.Router) {
			r.Use(router.chiMiddleware.RateLimit("views"))
			r.Post("/views/increment", h.IncrementViews)
			r.Put("/views", h.SetViews)
		})

		r.Get("/discord/status", h.DiscordStatus)
		r.Get("/discord/status/stream", h.DiscordStatusStream)

		if h.links != nil {
			r.With(middleware.Compression).Get("/links", h.Links)
		}

		if h.adminEnabled() {
			r.Route("/admin", router.adminRoutes)
		}
	})

	r.Handle("/metrics", promhttp.Handler())

	// ========================
	// Static Content
	// ========================
	if router.config.UploadDir != "" {
		uploads := http.StripPrefix("/uploads", fileServer(router.config.UploadDir))
		r.Method(http.MethodGet, "/uploads/*", uploads)
		r.Method(http.MethodHead, "/uploads/*", uploads)
	}
	if router.config.StaticDir != "" {
		static := middleware.Compression(fileServer(router.config.StaticDir))
		r.Method(http.MethodGet, "/*", static)
		r.Method(http.MethodHead, "/*", static)
	}

	return r
}

// adminRoutes registers the admin panel API.
func (router *Router) adminRoutes(r chi.Router) {
	h := router.handler

	if router.config.EnforceIPWhitelist && h.whitelist != nil {
		r.Use(RequireWhitelistedIP(h.whitelist))
	}

	r.With(router.chiMiddleware.RateLimit("admin_login")).Post("/login", h.Login)
	r.Post("/logout", h.Logout)
	r.With(h.sessions.Authenticate).Get("/session", h.Session)

	r.Group(func(r chi.Router) {
		r.Use(h.sessions.RequireAdmin)

		if h.whitelist != nil {
			r.Get("/whitelist", h.Whitelist)
			r.Post("/whitelist", h.AddWhitelistIP)
			r.Delete("/whitelist/{ip}", h.RemoveWhitelistIP)
		}

		if h.links != nil {
			r.Get("/links", h.Links)
			r.Post("/links", h.CreateLink)
			r.Put("/links/{id}", h.UpdateLink)
			r.Delete("/links/{id}", h.DeleteLink)
		}

		if h.uploads != nil {
			r.Get("/uploads", h.Uploads)
			r.Post("/uploads", h.Upload)
			r.Delete("/uploads/{name}", h.DeleteUpload)
		}
	})
}
