// Profilehub - Personal Link Hub with Live Presence Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/profilehub

package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Validate checks that required configuration is present and valid
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}

	if err := c.validatePresence(); err != nil {
		return err
	}

	if err := c.validateStream(); err != nil {
		return err
	}

	if err := c.validateViews(); err != nil {
		return err
	}

	if err := c.validateSecurity(); err != nil {
		return err
	}

	if err := c.validateStorage(); err != nil {
		return err
	}

	return c.validateLogging()
}

// IsProduction returns true if the application is running in production mode.
func (c *Config) IsProduction() bool {
	env := strings.ToLower(c.Server.Environment)
	return env == "production" || env == "prod"
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("PORT must be between 1 and 65535")
	}
	return nil
}

// validatePresence validates the upstream feed settings (only if enabled)
func (c *Config) validatePresence() error {
	p := c.Presence
	if !p.Enabled {
		return nil
	}
	if err := validateWebSocketURL(p.URL); err != nil {
		return fmt.Errorf("LANYARD_URL is invalid: %w", err)
	}
	if p.SubjectID == "" {
		return fmt.Errorf("PRESENCE_SUBJECT_ID is required when the presence feed is enabled")
	}
	if p.BackoffBase <= 0 || p.BackoffCeiling < p.BackoffBase {
		return fmt.Errorf("presence backoff requires 0 < base <= ceiling, got base=%v ceiling=%v",
			p.BackoffBase, p.BackoffCeiling)
	}
	if p.MaxAttempts < 0 {
		return fmt.Errorf("PRESENCE_MAX_ATTEMPTS must not be negative")
	}
	if p.HeartbeatTimeout < 0 {
		return fmt.Errorf("PRESENCE_HEARTBEAT_TIMEOUT must not be negative")
	}
	return nil
}

// validateWebSocketURL accepts ws:// and wss:// URLs with a host.
func validateWebSocketURL(rawURL string) error {
	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("failed to parse URL: %w", err)
	}
	if parsedURL.Scheme != "ws" && parsedURL.Scheme != "wss" {
		return fmt.Errorf("scheme must be ws or wss, got: %s", parsedURL.Scheme)
	}
	if parsedURL.Host == "" {
		return fmt.Errorf("host is required")
	}
	return nil
}

func (c *Config) validateStream() error {
	if c.Stream.HeartbeatInterval < time.Second {
		return fmt.Errorf("STREAM_HEARTBEAT_INTERVAL must be at least 1s")
	}
	if c.Stream.BufferSize < 1 {
		return fmt.Errorf("STREAM_BUFFER_SIZE must be at least 1")
	}
	return nil
}

var validBackends = map[string]bool{
	"memory": true,
	"badger": true,
}

func (c *Config) validateViews() error {
	if c.Views.Initial < 0 {
		return fmt.Errorf("VIEWS_INITIAL must not be negative")
	}
	if !validBackends[c.Views.Backend] {
		return fmt.Errorf("VIEWS_BACKEND must be one of: memory, badger")
	}
	return nil
}

// validateSecurity validates security configuration
func (c *Config) validateSecurity() error {
	if !validBackends[c.Security.SessionStore] {
		return fmt.Errorf("SESSION_STORE must be one of: memory, badger")
	}
	if c.Security.SessionTTL < time.Minute {
		return fmt.Errorf("SESSION_TTL must be at least 1m")
	}
	if err := c.validateAdminPassword(); err != nil {
		return err
	}
	if err := c.validateCORS(); err != nil {
		return err
	}
	return c.validateRateLimits()
}

// Minimum admin password length enforced in production.
const minProductionPasswordLength = 12

// validateAdminPassword rejects weak or placeholder admin credentials in production.
// An empty password disables the admin API instead of failing startup.
func (c *Config) validateAdminPassword() error {
	pw := c.Security.AdminPassword
	if pw == "" || c.Security.AdminPasswordHash != "" {
		return nil
	}
	if containsPlaceholder(pw) {
		return fmt.Errorf("ADMIN_PASSWORD contains a placeholder value; set a real password")
	}
	if c.IsProduction() && len(pw) < minProductionPasswordLength {
		return fmt.Errorf("ADMIN_PASSWORD must be at least %d characters when ENVIRONMENT=production",
			minProductionPasswordLength)
	}
	return nil
}

// validateCORS rejects wildcard origins in production because credentials are allowed.
func (c *Config) validateCORS() error {
	if c.hasWildcardCORS() && c.IsProduction() {
		return fmt.Errorf("ALLOWED_ORIGINS=* (wildcard) is not allowed in production because " +
			"credentialed requests are enabled. Set specific origins: ALLOWED_ORIGINS=https://yourdomain.com")
	}
	return nil
}

func (c *Config) hasWildcardCORS() bool {
	for _, origin := range c.Security.CORSOrigins {
		if origin == "*" {
			return true
		}
	}
	return false
}

// ShouldWarnAboutCORS returns true if CORS configuration should be flagged at startup
func (c *Config) ShouldWarnAboutCORS() bool {
	return c.hasWildcardCORS()
}

// Rate limit constants
const (
	minRateLimitRequests = 1
	maxRateLimitRequests = 100000
	minRateLimitWindow   = time.Second
	maxRateLimitWindow   = time.Hour
)

// validateRateLimits validates rate limiting configuration bounds.
func (c *Config) validateRateLimits() error {
	if c.Security.RateLimitDisabled {
		return nil
	}
	if c.Security.RateLimitReqs < minRateLimitRequests || c.Security.RateLimitReqs > maxRateLimitRequests {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be between %d and %d", minRateLimitRequests, maxRateLimitRequests)
	}
	if c.Security.RateLimitWindow < minRateLimitWindow || c.Security.RateLimitWindow > maxRateLimitWindow {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be between %v and %v", minRateLimitWindow, maxRateLimitWindow)
	}
	return nil
}

func (c *Config) validateStorage() error {
	if c.Storage.WhitelistFile == "" || c.Storage.LinksFile == "" {
		return fmt.Errorf("WHITELIST_FILE and LINKS_FILE must not be empty")
	}
	if c.Storage.MaxUploadSize <= 0 {
		return fmt.Errorf("MAX_UPLOAD_SIZE must be positive")
	}
	if c.NeedsBadger() && c.Storage.BadgerPath == "" {
		return fmt.Errorf("BADGER_PATH is required when a badger backend is selected")
	}
	return nil
}

var validLogLevels = map[string]bool{
	"trace": true,
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

var validLogFormats = map[string]bool{
	"json":    true,
	"console": true,
}

func (c *Config) validateLogging() error {
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("LOG_LEVEL must be one of: trace, debug, info, warn, error")
	}
	if c.Logging.Format != "" && !validLogFormats[c.Logging.Format] {
		return fmt.Errorf("LOG_FORMAT must be one of: json, console")
	}
	return nil
}

// placeholderPatterns indicate the operator forgot to set a real value.
var placeholderPatterns = []string{
	"REPLACE",
	"CHANGEME",
	"CHANGE_ME",
	"YOUR_PASSWORD",
	"PLACEHOLDER",
	"EXAMPLE",
}

func containsPlaceholder(value string) bool {
	upperValue := strings.ToUpper(value)
	for _, pattern := range placeholderPatterns {
		if strings.Contains(upperValue, pattern) {
			return true
		}
	}
	return false
}
