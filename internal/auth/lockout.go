// Profilehub - Personal Link Hub with Live Presence Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/profilehub

package auth

import (
	"sync"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/tomtom215/profilehub/internal/logging"
)

// LockoutConfig holds configuration for login lockout.
type LockoutConfig struct {
	// MaxAttempts is the number of failed attempts before lockout.
	MaxAttempts int

	// LockoutDuration is how long a locked subject is refused. Failed
	// attempts are also forgotten after this long without a new failure.
	LockoutDuration time.Duration
}

// DefaultLockoutConfig returns sensible defaults.
func DefaultLockoutConfig() LockoutConfig {
	return LockoutConfig{
		MaxAttempts:     5,
		LockoutDuration: 15 * time.Minute,
	}
}

type lockoutEntry struct {
	failed      int
	lockedUntil time.Time
}

// LockoutManager tracks failed logins per subject (the client IP for the
// admin login) in an expiring cache.
type LockoutManager struct {
	config  LockoutConfig
	entries *cache.Cache
	mu      sync.Mutex
	now     func() time.Time
}

// NewLockoutManager creates a new lockout manager. A non-positive
// MaxAttempts disables lockout.
func NewLockoutManager(config LockoutConfig) *LockoutManager {
	return &LockoutManager{
		config:  config,
		entries: cache.New(config.LockoutDuration, 5*time.Minute),
		now:     time.Now,
	}
}

// CheckLocked returns whether subject is locked and for how much longer.
func (m *LockoutManager) CheckLocked(subject string) (bool, time.Duration) {
	if m.config.MaxAttempts <= 0 {
		return false, 0
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	v, ok := m.entries.Get(subject)
	if !ok {
		return false, 0
	}
	entry := v.(*lockoutEntry)
	if remaining := entry.lockedUntil.Sub(m.now()); remaining > 0 {
		return true, remaining
	}
	return false, 0
}

// RecordFailedAttempt counts a failure and returns whether subject is now locked.
func (m *LockoutManager) RecordFailedAttempt(subject string) (bool, time.Duration) {
	if m.config.MaxAttempts <= 0 {
		return false, 0
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	entry := &lockoutEntry{}
	if v, ok := m.entries.Get(subject); ok {
		entry = v.(*lockoutEntry)
	}
	if remaining := entry.lockedUntil.Sub(now); remaining > 0 {
		return true, remaining
	}

	entry.failed++
	if entry.failed < m.config.MaxAttempts {
		m.entries.Set(subject, entry, cache.DefaultExpiration)
		return false, 0
	}

	entry.failed = 0
	entry.lockedUntil = now.Add(m.config.LockoutDuration)
	m.entries.Set(subject, entry, cache.DefaultExpiration)

	logging.Warn().
		Str("subject", logging.Sanitize(subject)).
		Dur("duration", m.config.LockoutDuration).
		Msg("Admin login locked")

	return true, m.config.LockoutDuration
}

// RecordSuccessfulLogin clears the failure count for subject.
func (m *LockoutManager) RecordSuccessfulLogin(subject string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries.Delete(subject)
}
