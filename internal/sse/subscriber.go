// Profilehub - Personal Link Hub with Live Presence Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/profilehub

package sse

import (
	"sync"

	"github.com/google/uuid"

	"github.com/tomtom215/profilehub/internal/presence"
)

// Subscriber is one connected event stream. Messages are queued by the hub
// and written by Pump.
type Subscriber struct {
	id   string
	send chan []byte
	done chan struct{}
	once sync.Once

	// seeded is the cached snapshot queued by Register. Guarded by Hub.mu;
	// cleared by the first broadcast that considers this subscriber.
	seeded *presence.Snapshot
}

func newSubscriber(buffer int) *Subscriber {
	return &Subscriber{
		id:   uuid.New().String(),
		send: make(chan []byte, buffer),
		done: make(chan struct{}),
	}
}

// ID identifies the subscriber in logs.
func (s *Subscriber) ID() string { return s.id }

// Messages returns the queued messages.
func (s *Subscriber) Messages() <-chan []byte { return s.send }

// Done is closed once the hub drops the subscriber.
func (s *Subscriber) Done() <-chan struct{} { return s.done }

// enqueue queues msg without blocking. It returns false if the queue is full.
func (s *Subscriber) enqueue(msg []byte) bool {
	select {
	case s.send <- msg:
		return true
	default:
		return false
	}
}

func (s *Subscriber) close() {
	s.once.Do(func() { close(s.done) })
}
