// Profilehub - Personal Link Hub with Live Presence Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/profilehub

/*
Package config provides centralized configuration management for Profilehub.

Configuration is layered with koanf: built-in defaults, then an optional YAML
file (CONFIG_PATH, ./config.yaml, /etc/profilehub/config.yaml), then
environment variables. Later layers win.

# Configuration Structure

  - ServerConfig: listen address, timeouts, static directory, environment
  - PresenceConfig: upstream presence socket, subject and reconnect policy
  - StreamConfig: SSE heartbeat interval and per-subscriber buffer
  - ViewsConfig: initial page view count and storage backend
  - SecurityConfig: admin password, sessions, CORS, rate limits, lockout
  - StorageConfig: whitelist/links JSON files, uploads, badger path
  - BotConfig: Discord whitelist bot credentials and channels
  - LoggingConfig: zerolog level and format

# Environment Variables

Server:
  - PORT / HTTP_PORT: Listen port (default: 3000)
  - HTTP_HOST: Bind address (default: 0.0.0.0)
  - ENVIRONMENT / NODE_ENV: development or production

Presence:
  - LANYARD_URL: Upstream socket (default: wss://api.lanyard.rest/socket)
  - PRESENCE_SUBJECT_ID: Mirrored user id
  - PRESENCE_MAX_ATTEMPTS: Reconnect attempts before giving up (default: 5)
  - PRESENCE_HEARTBEAT_TIMEOUT: Silence before forcing a reconnect (default: 0, off)

Security:
  - ADMIN_PASSWORD / ADMIN_PASSWORD_HASH: Admin login secret
  - ALLOWED_ORIGINS: Comma-separated CORS origins
  - SESSION_STORE: memory or badger
  - RATE_LIMIT_REQUESTS / RATE_LIMIT_WINDOW: Per-IP view increment limit (default: 10/1m)

Discord bot:
  - DISCORD_BOT_TOKEN: Enables the bot when set
  - DISCORD_APP_ID, DISCORD_GUILD_ID, DISCORD_CHANNEL_ID, DISCORD_LOG_CHANNEL_ID

Logging:
  - LOG_LEVEL: trace, debug, info, warn, error (default: info)
  - LOG_FORMAT: json or console (default: json)

# Usage

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}
	srv := &http.Server{Addr: cfg.Server.Addr()}
*/
package config
