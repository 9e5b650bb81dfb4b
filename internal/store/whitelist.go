// Profilehub - Personal Link Hub with Live Presence Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/profilehub

package store

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"sync"

	"github.com/tomtom215/profilehub/internal/logging"
)

// Whitelist is the on-disk whitelist document.
type Whitelist struct {
	IPs []string `json:"ips"`
}

// DefaultWhitelist is used when the file is missing or unreadable.
func DefaultWhitelist() Whitelist {
	return Whitelist{IPs: []string{"127.0.0.1"}}
}

// WhitelistStore reads and writes the IP whitelist file.
type WhitelistStore struct {
	path string
	mu   sync.Mutex
}

// NewWhitelistStore creates a store for the file at path.
func NewWhitelistStore(path string) *WhitelistStore {
	return &WhitelistStore{path: path}
}

// Path returns the backing file path.
func (s *WhitelistStore) Path() string { return s.path }

// Load returns the current whitelist. It never fails: a missing or corrupt
// file yields DefaultWhitelist.
func (s *WhitelistStore) Load() Whitelist {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

func (s *WhitelistStore) load() Whitelist {
	var w Whitelist
	if err := readJSON(s.path, &w); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			logging.Error().Err(err).Str("path", s.path).Msg("Error loading whitelist")
		}
		return DefaultWhitelist()
	}
	if w.IPs == nil {
		w.IPs = []string{}
	}
	return w
}

// Save replaces the whitelist file.
func (s *WhitelistStore) Save(w Whitelist) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(w)
}

func (s *WhitelistStore) save(w Whitelist) error {
	if w.IPs == nil {
		w.IPs = []string{}
	}
	if err := writeJSON(s.path, w); err != nil {
		logging.Error().Err(err).Str("path", s.path).Msg("Error saving whitelist")
		return fmt.Errorf("save whitelist: %w", err)
	}
	return nil
}

// Contains reports whether ip is whitelisted.
func (s *WhitelistStore) Contains(ip string) bool {
	return slices.Contains(s.Load().IPs, ip)
}

// Add appends ip. It returns ErrExists if ip is already present.
func (s *WhitelistStore) Add(ip string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	w := s.load()
	if slices.Contains(w.IPs, ip) {
		return ErrExists
	}
	w.IPs = append(w.IPs, ip)
	return s.save(w)
}

// Remove deletes every occurrence of ip. It returns ErrNotFound if ip is absent.
func (s *WhitelistStore) Remove(ip string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	w := s.load()
	if !slices.Contains(w.IPs, ip) {
		return ErrNotFound
	}
	w.IPs = slices.DeleteFunc(w.IPs, func(v string) bool { return v == ip })
	return s.save(w)
}
