// Profilehub - Personal Link Hub with Live Presence Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/profilehub

package config

import (
	"strings"
	"testing"
	"time"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"defaults", func(c *Config) {}, ""},
		{"bad port", func(c *Config) { c.Server.Port = 0 }, "PORT"},
		{"http upstream", func(c *Config) { c.Presence.URL = "https://api.lanyard.rest" }, "LANYARD_URL"},
		{"disabled presence skips url", func(c *Config) {
			c.Presence.Enabled = false
			c.Presence.URL = ""
		}, ""},
		{"empty subject", func(c *Config) { c.Presence.SubjectID = "" }, "PRESENCE_SUBJECT_ID"},
		{"ceiling below base", func(c *Config) { c.Presence.BackoffCeiling = time.Millisecond }, "backoff"},
		{"zero buffer", func(c *Config) { c.Stream.BufferSize = 0 }, "STREAM_BUFFER_SIZE"},
		{"negative views", func(c *Config) { c.Views.Initial = -1 }, "VIEWS_INITIAL"},
		{"unknown backend", func(c *Config) { c.Views.Backend = "redis" }, "VIEWS_BACKEND"},
		{"unknown session store", func(c *Config) { c.Security.SessionStore = "file" }, "SESSION_STORE"},
		{"placeholder password", func(c *Config) { c.Security.AdminPassword = "changeme123" }, "placeholder"},
		{"short production password", func(c *Config) {
			c.Server.Environment = "production"
			c.Security.AdminPassword = "short"
		}, "at least 12"},
		{"short dev password ok", func(c *Config) { c.Security.AdminPassword = "short" }, ""},
		{"wildcard cors in production", func(c *Config) {
			c.Server.Environment = "production"
			c.Security.CORSOrigins = []string{"*"}
		}, "wildcard"},
		{"rate limit out of range", func(c *Config) { c.Security.RateLimitReqs = 0 }, "RATE_LIMIT_REQUESTS"},
		{"rate limit disabled skips bounds", func(c *Config) {
			c.Security.RateLimitDisabled = true
			c.Security.RateLimitReqs = 0
		}, ""},
		{"badger without path", func(c *Config) {
			c.Views.Backend = "badger"
			c.Storage.BadgerPath = ""
		}, "BADGER_PATH"},
		{"bad log level", func(c *Config) { c.Logging.Level = "verbose" }, "LOG_LEVEL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate() unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("Validate() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestStorageResolve(t *testing.T) {
	s := StorageConfig{DataDir: "config", WhitelistFile: "whitelist.json", LinksFile: "/abs/links.json"}
	if got := s.WhitelistPath(); got != "config/whitelist.json" {
		t.Errorf("WhitelistPath() = %q", got)
	}
	if got := s.LinksPath(); got != "/abs/links.json" {
		t.Errorf("LinksPath() = %q", got)
	}
}
