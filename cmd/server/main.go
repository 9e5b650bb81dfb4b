// Profilehub - Personal Link Hub with Live Presence Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/profilehub

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/tomtom215/profilehub/internal/api"
	"github.com/tomtom215/profilehub/internal/auth"
	"github.com/tomtom215/profilehub/internal/bot"
	"github.com/tomtom215/profilehub/internal/config"
	"github.com/tomtom215/profilehub/internal/logging"
	"github.com/tomtom215/profilehub/internal/presence"
	"github.com/tomtom215/profilehub/internal/sse"
	"github.com/tomtom215/profilehub/internal/store"
	"github.com/tomtom215/profilehub/internal/supervisor"
	"github.com/tomtom215/profilehub/internal/supervisor/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	if err := run(cfg); err != nil {
		logging.Fatal().Err(err).Msg("Server failed")
	}
	logging.Info().Msg("Application stopped gracefully")
}

func run(cfg *config.Config) error {
	logging.Info().
		Str("addr", cfg.Server.Addr()).
		Str("environment", cfg.Server.Environment).
		Bool("presence", cfg.Presence.Enabled).
		Bool("bot", cfg.Bot.Enabled()).
		Msg("Starting profilehub")

	// === STORAGE ===

	var db *badger.DB
	if cfg.NeedsBadger() {
		var err error
		db, err = store.OpenBadger(cfg.Storage.BadgerPath)
		if err != nil {
			return err
		}
		defer func() {
			if err := db.Close(); err != nil {
				logging.Error().Err(err).Msg("Error closing badger")
			}
		}()
		logging.Info().Str("path", cfg.Storage.BadgerPath).Msg("Badger opened")
	}

	views, err := newViewCounter(cfg, db)
	if err != nil {
		return err
	}
	whitelist := store.NewWhitelistStore(cfg.Storage.WhitelistPath())
	links := store.NewLinkStore(cfg.Storage.LinksPath())
	uploads := store.NewUploadStore(cfg.Storage.UploadDir, "/uploads", cfg.Storage.MaxUploadSize)

	// === PRESENCE ===

	cache := presence.NewCache(cfg.Presence.StaleAfter)
	hub := sse.NewHub(cache, sse.Config{
		HeartbeatInterval: cfg.Stream.HeartbeatInterval,
		BufferSize:        cfg.Stream.BufferSize,
	})
	feed := presence.NewFeed(presence.FeedConfig{
		URL:       cfg.Presence.URL,
		SubjectID: cfg.Presence.SubjectID,
		Backoff: presence.ExponentialBackoff{
			Base:        cfg.Presence.BackoffBase,
			Ceiling:     cfg.Presence.BackoffCeiling,
			MaxAttempts: cfg.Presence.MaxAttempts,
		},
		HeartbeatTimeout: cfg.Presence.HeartbeatTimeout,
	}, cache, hub, presence.WithDialer(presence.WebSocketDialer{
		HandshakeTimeout: cfg.Presence.HandshakeTimeout,
	}))

	// === ADMIN AUTH ===

	deps := api.HandlerDeps{
		Views:     views,
		Cache:     cache,
		Feed:      feed,
		Hub:       hub,
		Whitelist: whitelist,
		Links:     links,
		Uploads:   uploads,
	}

	var sessionStore auth.SessionStore
	verifier, err := auth.NewPasswordVerifier(cfg.Security.AdminPasswordHash, cfg.Security.AdminPassword)
	switch {
	case errors.Is(err, auth.ErrNoAdminPassword):
		logging.Warn().Msg("No admin password configured; admin API disabled")
	case err != nil:
		return err
	default:
		sessionStore, err = auth.NewSessionStore(auth.SessionStoreType(cfg.Security.SessionStore), db)
		if err != nil {
			return err
		}
		sessCfg := auth.DefaultSessionMiddlewareConfig()
		sessCfg.SessionTTL = cfg.Security.SessionTTL
		sessCfg.CookieSecure = cfg.Security.CookieSecure

		deps.Sessions = auth.NewSessionMiddleware(sessionStore, sessCfg)
		deps.Password = verifier
		deps.Lockout = auth.NewLockoutManager(auth.LockoutConfig{
			MaxAttempts:     cfg.Security.LoginMaxAttempts,
			LockoutDuration: cfg.Security.LoginLockout,
		})
		logging.Info().Str("session_store", cfg.Security.SessionStore).Msg("Admin API enabled")
	}

	// === HTTP ===

	router := api.NewRouter(api.NewHandler(deps), api.RouterConfig{
		StaticDir:          cfg.Server.StaticDir,
		UploadDir:          cfg.Storage.UploadDir,
		HSTS:               cfg.IsProduction(),
		EnforceIPWhitelist: cfg.Security.EnforceIPWhitelist,
		Middleware: &api.ChiMiddlewareConfig{
			CORSAllowedOrigins:   cfg.Security.CORSOrigins,
			CORSAllowCredentials: true,
			CORSMaxAge:           86400,
			RateLimitRequests:    cfg.Security.RateLimitReqs,
			RateLimitWindow:      cfg.Security.RateLimitWindow,
			RateLimitDisabled:    cfg.Security.RateLimitDisabled,
		},
	})

	server := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           router.Setup(),
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: 10 * time.Second,
		// The SSE handler clears its own write deadline.
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	// === SUPERVISOR TREE ===

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
	if err != nil {
		return err
	}

	if sessionStore != nil {
		tree.AddDataService(services.NewSessionCleanupService(sessionStore, 0))
	}

	tree.AddMessagingService(services.NewHubService(hub))
	if cfg.Presence.Enabled {
		tree.AddMessagingService(services.NewFeedService(feed))
	} else {
		logging.Info().Msg("Presence feed disabled")
	}
	if cfg.Bot.Enabled() {
		b, err := bot.New(cfg.Bot, whitelist)
		if err != nil {
			return err
		}
		tree.AddMessagingService(services.NewBotService(b))
	}

	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout, hub.CloseAll))

	watchLogLevel()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	logging.Info().Str("addr", server.Addr).Msg("Starting supervisor tree")
	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logging.Error().Err(err).Msg("Supervisor tree error")
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
	}
	return nil
}

func newViewCounter(cfg *config.Config, db *badger.DB) (store.ViewCounter, error) {
	if cfg.Views.Backend == "badger" {
		return store.NewBadgerViewCounter(db, cfg.Views.Initial)
	}
	return store.NewMemoryViewCounter(cfg.Views.Initial), nil
}

// watchLogLevel applies log level edits in the config file. Other
// settings need a restart.
func watchLogLevel() {
	path := config.ConfigFilePath()
	if path == "" {
		return
	}
	err := config.WatchConfigFile(path, func() {
		cfg, err := config.Load()
		if err != nil {
			logging.Warn().Err(err).Msg("Ignoring invalid config change")
			return
		}
		if err := logging.SetLevelString(cfg.Logging.Level); err != nil {
			logging.Warn().Err(err).Msg("Ignoring invalid log level")
			return
		}
		logging.Info().Str("level", cfg.Logging.Level).Msg("Log level reloaded")
	})
	if err != nil {
		logging.Warn().Err(err).Str("path", path).Msg("Config file watch unavailable")
	}
}
