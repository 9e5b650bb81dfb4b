// Profilehub - Personal Link Hub with Live Presence Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/profilehub

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
// The first file found will be used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/profilehub/config.yaml",
	"/etc/profilehub/config.yml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// Upstream presence defaults.
const (
	DefaultPresenceURL       = "wss://api.lanyard.rest/socket"
	DefaultPresenceSubjectID = "750800056453693472"
)

// defaultConfig returns a Config struct with all default values.
// These are applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            3000,
			Host:            "0.0.0.0",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second, // cleared per-request on the SSE stream
			ShutdownTimeout: 10 * time.Second,
			StaticDir:       "public",
			Environment:     "development",
		},
		Presence: PresenceConfig{
			Enabled:          true,
			URL:              DefaultPresenceURL,
			SubjectID:        DefaultPresenceSubjectID,
			BackoffBase:      time.Second,
			BackoffCeiling:   30 * time.Second,
			MaxAttempts:      5,
			HandshakeTimeout: 10 * time.Second,
			StaleAfter:       30 * time.Second,
			HeartbeatTimeout: 0,
		},
		Stream: StreamConfig{
			HeartbeatInterval: 30 * time.Second,
			BufferSize:        16,
		},
		Views: ViewsConfig{
			Initial: 654,
			Backend: "memory",
		},
		Security: SecurityConfig{
			SessionTTL:       24 * time.Hour,
			SessionStore:     "memory",
			CookieSecure:     false,
			RateLimitReqs:    10,
			RateLimitWindow:  time.Minute,
			LoginMaxAttempts: 5,
			LoginLockout:     15 * time.Minute,
			CORSOrigins: []string{
				"http://localhost:3000",
				"http://127.0.0.1:3000",
				"https://chavis.com.tr",
			},
		},
		Storage: StorageConfig{
			DataDir:       "config",
			WhitelistFile: "whitelist.json",
			LinksFile:     "links.json",
			UploadDir:     "public/uploads",
			MaxUploadSize: 25 << 20, // 25MB
			BadgerPath:    "data/badger",
		},
		Bot: BotConfig{
			AppID:        "1438295937859715177",
			GuildID:      "1361514717751017664",
			ChannelID:    "1438293793349828708",
			LogChannelID: "1438549220310388847",
			CommandRate:  2 * time.Second,
			CommandBurst: 3,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// LoadWithKoanf loads configuration using Koanf v2 with layered sources:
//  1. Defaults: Built-in defaults
//  2. Config File: Optional YAML config file (if exists)
//  3. Environment Variables: Override any setting
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// PORT -> server.port, DISCORD_BOT_TOKEN -> bot.token
	envProvider := env.Provider("", ".", envTransformFunc)
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile searches for a config file in the default paths.
// Returns the path to the first file found, or empty string if none found.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// sliceConfigPaths defines which config paths should be parsed as comma-separated slices
var sliceConfigPaths = []string{
	"security.cors_origins",
}

// processSliceFields converts comma-separated string values to slices for known slice fields.
// Env vars arrive as strings, YAML lists arrive already split.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}
		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) == 0 {
			continue
		}
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// envMappings maps flat environment variable names (lowercased) to koanf paths.
var envMappings = map[string]string{
	// Server
	"port":             "server.port",
	"http_port":        "server.port",
	"http_host":        "server.host",
	"read_timeout":     "server.read_timeout",
	"write_timeout":    "server.write_timeout",
	"shutdown_timeout": "server.shutdown_timeout",
	"static_dir":       "server.static_dir",
	"environment":      "server.environment",
	"node_env":         "server.environment",

	// Presence feed
	"presence_enabled":           "presence.enabled",
	"lanyard_url":                "presence.url",
	"presence_subject_id":        "presence.subject_id",
	"presence_backoff_base":      "presence.backoff_base",
	"presence_backoff_ceiling":   "presence.backoff_ceiling",
	"presence_max_attempts":      "presence.max_attempts",
	"presence_handshake_timeout": "presence.handshake_timeout",
	"presence_stale_after":       "presence.stale_after",
	"presence_heartbeat_timeout": "presence.heartbeat_timeout",

	// SSE stream
	"stream_heartbeat_interval": "stream.heartbeat_interval",
	"stream_buffer_size":        "stream.buffer_size",

	// Views
	"views_initial": "views.initial",
	"views_backend": "views.backend",

	// Security
	"admin_password":       "security.admin_password",
	"admin_password_hash":  "security.admin_password_hash",
	"session_ttl":          "security.session_ttl",
	"session_store":        "security.session_store",
	"cookie_secure":        "security.cookie_secure",
	"rate_limit_requests":  "security.rate_limit_reqs",
	"rate_limit_window":    "security.rate_limit_window",
	"disable_rate_limit":   "security.rate_limit_disabled",
	"login_max_attempts":   "security.login_max_attempts",
	"login_lockout":        "security.login_lockout",
	"allowed_origins":      "security.cors_origins",
	"cors_origins":         "security.cors_origins",
	"enforce_ip_whitelist": "security.enforce_ip_whitelist",

	// Storage
	"data_dir":        "storage.data_dir",
	"whitelist_file":  "storage.whitelist_file",
	"links_file":      "storage.links_file",
	"upload_dir":      "storage.upload_dir",
	"max_upload_size": "storage.max_upload_size",
	"badger_path":     "storage.badger_path",

	// Discord bot
	"discord_bot_token":      "bot.token",
	"discord_app_id":         "bot.app_id",
	"discord_guild_id":       "bot.guild_id",
	"discord_channel_id":     "bot.channel_id",
	"discord_log_channel_id": "bot.log_channel_id",
	"bot_command_rate":       "bot.command_rate",
	"bot_command_burst":      "bot.command_burst",

	// Logging
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",
}

// envTransformFunc transforms environment variable names to koanf config paths.
// Unmapped keys return an empty string so koanf skips them.
//
// Examples:
//   - PORT -> server.port
//   - ALLOWED_ORIGINS -> security.cors_origins
//   - DISCORD_BOT_TOKEN -> bot.token
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}

// WatchConfigFile sets up a file watcher for hot-reload capability.
// The caller is responsible for mutex protection when swapping configuration.
func WatchConfigFile(path string, callback func()) error {
	return file.Provider(path).Watch(func(event interface{}, err error) {
		if err != nil {
			return
		}
		callback()
	})
}

// ConfigFilePath returns the config file LoadWithKoanf would read, or "".
func ConfigFilePath() string {
	return findConfigFile()
}
