// Profilehub - Personal Link Hub with Live Presence Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/profilehub

// Package logging provides centralized zerolog-based structured logging for Profilehub.
//
// # Quick Start
//
//	logging.Init(logging.Config{
//	    Level:  "info",
//	    Format: "json",
//	})
//
//	logging.Info().Str("subject", id).Msg("Subscribed to presence feed")
//	logging.Error().Err(err).Msg("Failed to save whitelist")
//
//	// Request-scoped (request_id and correlation_id attached by the API middleware)
//	logging.Ctx(r.Context()).Warn().Msg("Login failed")
//
// # Configuration
//
// Environment Variables:
//
//	LOG_LEVEL   - Minimum log level: trace, debug, info, warn, error (default: info)
//	LOG_FORMAT  - Output format: json, console (default: json)
//	LOG_CALLER  - Include caller file:line: true, false (default: false)
//
// # Suture Integration
//
// The supervisor tree logs through log/slog. NewSlogLogger returns an slog.Logger
// whose records are written by the global zerolog logger:
//
//	handler := &sutureslog.Handler{Logger: logging.NewSlogLogger()}
//
// # Best Practices
//
// Always terminate log chains with .Msg() or .Send(), and prefer structured
// fields over Msgf. Values that originate from clients (paths, usernames, IPs
// from headers) go through Sanitize first.
package logging
