// Profilehub - Personal Link Hub with Live Presence Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/profilehub

package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/tomtom215/profilehub/internal/logging"
)

// SessionStoreType defines the type of session storage backend.
type SessionStoreType string

const (
	// SessionStoreMemory uses in-memory storage (default, not persistent).
	SessionStoreMemory SessionStoreType = "memory"

	// SessionStoreBadger uses BadgerDB for persistent session storage.
	SessionStoreBadger SessionStoreType = "badger"
)

// ErrNoDatabase is returned when the badger backend is requested without a DB.
var ErrNoDatabase = errors.New("badger session store requires an open database")

// NewSessionStore creates the configured backend. db is only used for the
// badger type and is owned by the caller.
func NewSessionStore(storeType SessionStoreType, db *badger.DB) (SessionStore, error) {
	switch storeType {
	case SessionStoreMemory, "":
		return NewMemorySessionStore(), nil
	case SessionStoreBadger:
		if db == nil {
			return nil, ErrNoDatabase
		}
		return NewBadgerSessionStore(db), nil
	default:
		return nil, fmt.Errorf("unknown session store type %q", storeType)
	}
}

// RunCleanup removes expired sessions every interval until ctx is done.
func RunCleanup(ctx context.Context, store SessionStore, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			n, err := store.CleanupExpired(ctx)
			if err != nil {
				logging.Warn().Err(err).Msg("Session cleanup failed")
				continue
			}
			if n > 0 {
				logging.Debug().Int("removed", n).Msg("Expired sessions removed")
			}
		}
	}
}
