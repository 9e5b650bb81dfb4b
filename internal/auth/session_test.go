// Profilehub - Personal Link Hub with Live Presence Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/profilehub

package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
)

func openTestBadger(t *testing.T) *badger.DB {
	t.Helper()
	db, err := badger.Open(badger.DefaultOptions("").WithInMemory(true).WithLogger(nil))
	if err != nil {
		t.Fatalf("open badger: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// storeBackends runs each test against every SessionStore implementation.
func storeBackends(t *testing.T) map[string]SessionStore {
	return map[string]SessionStore{
		"memory": NewMemorySessionStore(),
		"badger": NewBadgerSessionStore(openTestBadger(t)),
	}
}

func TestSessionStore_CreateGetDelete(t *testing.T) {
	for name, store := range storeBackends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			session := NewSession(time.Hour)

			if err := store.Create(ctx, session); err != nil {
				t.Fatalf("Create() error = %v", err)
			}

			got, err := store.Get(ctx, session.ID)
			if err != nil {
				t.Fatalf("Get() error = %v", err)
			}
			if got.ID != session.ID || !got.IsAdmin {
				t.Errorf("Get() = %+v, want admin session %s", got, session.ID)
			}

			if err := store.Delete(ctx, session.ID); err != nil {
				t.Fatalf("Delete() error = %v", err)
			}
			if _, err := store.Get(ctx, session.ID); !errors.Is(err, ErrSessionNotFound) {
				t.Errorf("Get() after delete error = %v, want ErrSessionNotFound", err)
			}
			if err := store.Delete(ctx, session.ID); err != nil {
				t.Errorf("Delete() missing session error = %v", err)
			}
		})
	}
}

func TestSessionStore_Expired(t *testing.T) {
	for name, store := range storeBackends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			session := &Session{
				ID:        "expired",
				IsAdmin:   true,
				CreatedAt: time.Now().Add(-2 * time.Hour),
				ExpiresAt: time.Now().Add(-time.Hour),
			}
			if err := store.Create(ctx, session); err != nil {
				t.Fatal(err)
			}

			_, err := store.Get(ctx, session.ID)
			if !errors.Is(err, ErrSessionExpired) && !errors.Is(err, ErrSessionNotFound) {
				t.Errorf("Get() error = %v, want expired or not found", err)
			}
		})
	}
}

func TestSessionStore_Touch(t *testing.T) {
	for name, store := range storeBackends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			session := NewSession(time.Minute)
			if err := store.Create(ctx, session); err != nil {
				t.Fatal(err)
			}

			newExpiry := time.Now().Add(2 * time.Hour).Truncate(time.Second)
			if err := store.Touch(ctx, session.ID, newExpiry); err != nil {
				t.Fatalf("Touch() error = %v", err)
			}
			got, err := store.Get(ctx, session.ID)
			if err != nil {
				t.Fatal(err)
			}
			if !got.ExpiresAt.Equal(newExpiry) {
				t.Errorf("ExpiresAt = %v, want %v", got.ExpiresAt, newExpiry)
			}

			if err := store.Touch(ctx, "missing", newExpiry); !errors.Is(err, ErrSessionNotFound) {
				t.Errorf("Touch(missing) error = %v", err)
			}
		})
	}
}

func TestMemorySessionStore_CleanupExpired(t *testing.T) {
	store := NewMemorySessionStore()
	ctx := context.Background()

	_ = store.Create(ctx, NewSession(time.Hour))
	_ = store.Create(ctx, &Session{ID: "old", ExpiresAt: time.Now().Add(-time.Minute)})

	n, err := store.CleanupExpired(ctx)
	if err != nil || n != 1 {
		t.Errorf("CleanupExpired() = %d, %v; want 1", n, err)
	}
}

func TestNewSessionStore(t *testing.T) {
	if s, err := NewSessionStore(SessionStoreMemory, nil); err != nil {
		t.Errorf("memory: error = %v", err)
	} else if _, ok := s.(*MemorySessionStore); !ok {
		t.Errorf("memory: got %T", s)
	}

	if _, err := NewSessionStore(SessionStoreBadger, nil); !errors.Is(err, ErrNoDatabase) {
		t.Errorf("badger without db: error = %v", err)
	}

	s, err := NewSessionStore(SessionStoreBadger, openTestBadger(t))
	if err != nil {
		t.Fatalf("badger: error = %v", err)
	}
	if _, ok := s.(*BadgerSessionStore); !ok {
		t.Errorf("badger: got %T", s)
	}

	if _, err := NewSessionStore("redis", nil); err == nil {
		t.Error("unknown type: expected error")
	}
}

func TestNewSession_UniqueIDs(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		s := NewSession(time.Hour)
		if len(s.ID) != 64 {
			t.Fatalf("ID length = %d, want 64", len(s.ID))
		}
		if seen[s.ID] {
			t.Fatal("duplicate session ID")
		}
		seen[s.ID] = true
	}
}

func TestRunCleanup_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- RunCleanup(ctx, NewMemorySessionStore(), time.Millisecond) }()

	time.Sleep(10 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("RunCleanup() = %v, want context.Canceled", err)
		}
	case <-time.After(time.Second):
		t.Fatal("RunCleanup did not stop")
	}
}
