// Profilehub - Personal Link Hub with Live Presence Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/profilehub

package presence

import (
	"sync"
	"time"
)

// Cache holds the most recent snapshot. Reads never block on the feed.
type Cache struct {
	mu         sync.RWMutex
	snapshot   *Snapshot
	lastUpdate time.Time
	staleAfter time.Duration
	now        func() time.Time
}

// NewCache creates an empty cache. staleAfter only affects IsStale.
func NewCache(staleAfter time.Duration) *Cache {
	return &Cache{staleAfter: staleAfter, now: time.Now}
}

// Set replaces the cached snapshot.
func (c *Cache) Set(s *Snapshot) {
	if s == nil {
		return
	}
	cp := s.clone()

	c.mu.Lock()
	c.snapshot = cp
	c.lastUpdate = c.now()
	c.mu.Unlock()
}

// Get returns the cached snapshot or nil if no event has been seen.
func (c *Cache) Get() *Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snapshot
}

// LastUpdate returns when Set last ran; zero if never.
func (c *Cache) LastUpdate() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastUpdate
}

// IsStale reports whether the snapshot is older than the staleness window.
// Stale snapshots are still served.
func (c *Cache) IsStale() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.snapshot == nil || c.staleAfter <= 0 {
		return false
	}
	return c.now().Sub(c.lastUpdate) > c.staleAfter
}
