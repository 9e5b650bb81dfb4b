// Profilehub - Personal Link Hub with Live Presence Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/profilehub

/*
Command server runs the profilehub web service.

It serves the static profile site, the view counter, the admin panel API
and a live mirror of one Discord user's presence, relayed from the
Lanyard WebSocket feed to browsers over server-sent events. When
DISCORD_BOT_TOKEN is set it also runs the whitelist bot.

# Startup

 1. Configuration: koanf (defaults, optional config.yaml, environment)
 2. Logging: zerolog, bridged to slog for the supervisor
 3. Storage: JSON stores, badger if sessions or views are persisted
 4. Presence: cache, SSE hub and upstream feed
 5. Admin auth: bcrypt verifier, session store, login lockout
 6. HTTP: chi router
 7. Supervisor tree: suture v4, runs until SIGINT or SIGTERM

# Example

	export PORT=3000
	export PRESENCE_SUBJECT_ID=750800056453693472
	export ADMIN_PASSWORD=change-me
	./server

# Shutdown

On SIGINT or SIGTERM the feed socket is closed, every SSE stream is ended
and the HTTP server drains within SHUTDOWN_TIMEOUT. The log level follows
edits to the config file without a restart.
*/
package main
