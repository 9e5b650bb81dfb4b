// Profilehub - Personal Link Hub with Live Presence Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/profilehub

package services

import (
	"context"
	"time"

	"github.com/tomtom215/profilehub/internal/auth"
)

// SessionCleanupService periodically removes expired admin sessions.
type SessionCleanupService struct {
	store    auth.SessionStore
	interval time.Duration
	name     string
}

// NewSessionCleanupService sweeps store every interval (default 5m).
func NewSessionCleanupService(store auth.SessionStore, interval time.Duration) *SessionCleanupService {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return &SessionCleanupService{store: store, interval: interval, name: "session-cleanup"}
}

// Serve implements suture.Service.
func (s *SessionCleanupService) Serve(ctx context.Context) error {
	return auth.RunCleanup(ctx, s.store, s.interval)
}

func (s *SessionCleanupService) String() string {
	return s.name
}
