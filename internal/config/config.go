// Profilehub - Personal Link Hub with Live Presence Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/profilehub

package config

import (
	"fmt"
	"path/filepath"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Presence PresenceConfig `koanf:"presence"`
	Stream   StreamConfig   `koanf:"stream"`
	Views    ViewsConfig    `koanf:"views"`
	Security SecurityConfig `koanf:"security"`
	Storage  StorageConfig  `koanf:"storage"`
	Bot      BotConfig      `koanf:"bot"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            int           `koanf:"port"`
	Host            string        `koanf:"host"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	StaticDir       string        `koanf:"static_dir"`
	Environment     string        `koanf:"environment"` // development or production
}

// Addr returns the listen address for http.Server.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// PresenceConfig configures the upstream presence feed (Lanyard protocol).
type PresenceConfig struct {
	Enabled bool   `koanf:"enabled"`
	URL     string `koanf:"url"`

	// SubjectID is the user whose presence is mirrored.
	SubjectID string `koanf:"subject_id"`

	BackoffBase      time.Duration `koanf:"backoff_base"`
	BackoffCeiling   time.Duration `koanf:"backoff_ceiling"`
	MaxAttempts      int           `koanf:"max_attempts"`
	HandshakeTimeout time.Duration `koanf:"handshake_timeout"`

	// StaleAfter is advisory: stale snapshots are still served.
	StaleAfter time.Duration `koanf:"stale_after"`

	// HeartbeatTimeout closes a socket that has been silent for this long.
	// Zero keeps the upstream behavior of relying on close events only.
	HeartbeatTimeout time.Duration `koanf:"heartbeat_timeout"`
}

// StreamConfig configures the SSE fan-out.
type StreamConfig struct {
	HeartbeatInterval time.Duration `koanf:"heartbeat_interval"`
	BufferSize        int           `koanf:"buffer_size"`
}

// ViewsConfig configures the page view counter.
type ViewsConfig struct {
	Initial int64  `koanf:"initial"`
	Backend string `koanf:"backend"` // memory or badger
}

// SecurityConfig holds admin authentication and request-limiting settings.
type SecurityConfig struct {
	AdminPassword     string        `koanf:"admin_password"`
	AdminPasswordHash string        `koanf:"admin_password_hash"` // bcrypt hash, wins over AdminPassword
	SessionTTL        time.Duration `koanf:"session_ttl"`
	SessionStore      string        `koanf:"session_store"` // memory or badger
	CookieSecure      bool          `koanf:"cookie_secure"`

	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`

	LoginMaxAttempts int           `koanf:"login_max_attempts"`
	LoginLockout     time.Duration `koanf:"login_lockout"`

	CORSOrigins        []string `koanf:"cors_origins"`
	EnforceIPWhitelist bool     `koanf:"enforce_ip_whitelist"`
}

// StorageConfig locates the JSON files, upload directory and badger database.
type StorageConfig struct {
	DataDir       string `koanf:"data_dir"`
	WhitelistFile string `koanf:"whitelist_file"`
	LinksFile     string `koanf:"links_file"`
	UploadDir     string `koanf:"upload_dir"`
	MaxUploadSize int64  `koanf:"max_upload_size"`
	BadgerPath    string `koanf:"badger_path"`
}

// WhitelistPath resolves the whitelist file against DataDir.
func (s StorageConfig) WhitelistPath() string {
	return s.resolve(s.WhitelistFile)
}

// LinksPath resolves the social links file against DataDir.
func (s StorageConfig) LinksPath() string {
	return s.resolve(s.LinksFile)
}

func (s StorageConfig) resolve(name string) string {
	if filepath.IsAbs(name) || s.DataDir == "" {
		return name
	}
	return filepath.Join(s.DataDir, name)
}

// BotConfig configures the Discord whitelist bot.
type BotConfig struct {
	Token        string        `koanf:"token"`
	AppID        string        `koanf:"app_id"`
	GuildID      string        `koanf:"guild_id"`
	ChannelID    string        `koanf:"channel_id"`
	LogChannelID string        `koanf:"log_channel_id"`
	CommandRate  time.Duration `koanf:"command_rate"`
	CommandBurst int           `koanf:"command_burst"`
}

// Enabled reports whether a bot token was supplied.
func (b BotConfig) Enabled() bool {
	return b.Token != ""
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// NeedsBadger reports whether any component is configured for badger storage.
func (c *Config) NeedsBadger() bool {
	return c.Security.SessionStore == "badger" || c.Views.Backend == "badger"
}

// Load loads configuration from defaults, an optional config file and
// environment variables.
func Load() (*Config, error) {
	return LoadWithKoanf()
}
