// Profilehub - Personal Link Hub with Live Presence Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/profilehub

package store

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/dgraph-io/badger/v4"

	"github.com/tomtom215/profilehub/internal/metrics"
)

// ViewCounter tracks the profile page view count.
type ViewCounter interface {
	Count(ctx context.Context) (int64, error)
	Increment(ctx context.Context) (int64, error)
	SetCount(ctx context.Context, n int64) error
}

// ErrNegativeCount is returned by SetCount for n < 0.
var ErrNegativeCount = errors.New("view count must be non-negative")

// MemoryViewCounter keeps the count in process memory.
type MemoryViewCounter struct {
	n atomic.Int64
}

// NewMemoryViewCounter starts counting at initial.
func NewMemoryViewCounter(initial int64) *MemoryViewCounter {
	c := &MemoryViewCounter{}
	c.n.Store(initial)
	metrics.ViewCount.Set(float64(initial))
	return c
}

func (c *MemoryViewCounter) Count(_ context.Context) (int64, error) {
	return c.n.Load(), nil
}

func (c *MemoryViewCounter) Increment(_ context.Context) (int64, error) {
	n := c.n.Add(1)
	metrics.ViewCount.Set(float64(n))
	return n, nil
}

func (c *MemoryViewCounter) SetCount(_ context.Context, n int64) error {
	if n < 0 {
		return ErrNegativeCount
	}
	c.n.Store(n)
	metrics.ViewCount.Set(float64(n))
	return nil
}

var viewCountKey = []byte("views:count")

// BadgerViewCounter persists the count in badger so it survives restarts.
type BadgerViewCounter struct {
	db *badger.DB
	mu sync.Mutex
}

// NewBadgerViewCounter seeds the counter with initial if no value is stored.
func NewBadgerViewCounter(db *badger.DB, initial int64) (*BadgerViewCounter, error) {
	c := &BadgerViewCounter{db: db}
	err := db.Update(func(txn *badger.Txn) error {
		_, err := txn.Get(viewCountKey)
		if errors.Is(err, badger.ErrKeyNotFound) {
			return txn.Set(viewCountKey, []byte(strconv.FormatInt(initial, 10)))
		}
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("seed view counter: %w", err)
	}
	if n, err := c.Count(context.Background()); err == nil {
		metrics.ViewCount.Set(float64(n))
	}
	return c, nil
}

func readCount(txn *badger.Txn) (int64, error) {
	item, err := txn.Get(viewCountKey)
	if err != nil {
		return 0, err
	}
	var n int64
	err = item.Value(func(val []byte) error {
		var perr error
		n, perr = strconv.ParseInt(string(val), 10, 64)
		return perr
	})
	return n, err
}

func (c *BadgerViewCounter) Count(_ context.Context) (int64, error) {
	var n int64
	err := c.db.View(func(txn *badger.Txn) error {
		var err error
		n, err = readCount(txn)
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("read view count: %w", err)
	}
	return n, nil
}

func (c *BadgerViewCounter) Increment(_ context.Context) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var n int64
	err := c.db.Update(func(txn *badger.Txn) error {
		cur, err := readCount(txn)
		if err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		n = cur + 1
		return txn.Set(viewCountKey, []byte(strconv.FormatInt(n, 10)))
	})
	if err != nil {
		return 0, fmt.Errorf("increment view count: %w", err)
	}
	metrics.ViewCount.Set(float64(n))
	return n, nil
}

func (c *BadgerViewCounter) SetCount(_ context.Context, n int64) error {
	if n < 0 {
		return ErrNegativeCount
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	err := c.db.Update(func(txn *badger.Txn) error {
		return txn.Set(viewCountKey, []byte(strconv.FormatInt(n, 10)))
	})
	if err != nil {
		return fmt.Errorf("set view count: %w", err)
	}
	metrics.ViewCount.Set(float64(n))
	return nil
}
