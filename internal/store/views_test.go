// Profilehub - Personal Link Hub with Live Presence Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/profilehub

package store

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/dgraph-io/badger/v4"
)

func openTestDB(t *testing.T) *badger.DB {
	t.Helper()
	db, err := OpenBadger("")
	if err != nil {
		t.Fatalf("OpenBadger() error = %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func testCounter(t *testing.T, c ViewCounter, initial int64) {
	t.Helper()
	ctx := context.Background()

	if n, err := c.Count(ctx); err != nil || n != initial {
		t.Fatalf("Count() = %d, %v; want %d", n, err, initial)
	}
	if n, err := c.Increment(ctx); err != nil || n != initial+1 {
		t.Fatalf("Increment() = %d, %v", n, err)
	}
	if err := c.SetCount(ctx, 10); err != nil {
		t.Fatal(err)
	}
	if err := c.SetCount(ctx, -1); !errors.Is(err, ErrNegativeCount) {
		t.Errorf("SetCount(-1) = %v, want ErrNegativeCount", err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = c.Increment(ctx)
		}()
	}
	wg.Wait()

	if n, _ := c.Count(ctx); n != 60 {
		t.Errorf("Count() after concurrent increments = %d, want 60", n)
	}
}

func TestMemoryViewCounter(t *testing.T) {
	testCounter(t, NewMemoryViewCounter(654), 654)
}

func TestBadgerViewCounter(t *testing.T) {
	db := openTestDB(t)
	c, err := NewBadgerViewCounter(db, 654)
	if err != nil {
		t.Fatal(err)
	}
	testCounter(t, c, 654)

	// Re-opening on the same DB keeps the stored value.
	again, err := NewBadgerViewCounter(db, 1)
	if err != nil {
		t.Fatal(err)
	}
	if n, _ := again.Count(context.Background()); n != 60 {
		t.Errorf("Count() after reopen = %d, want 60", n)
	}
}
