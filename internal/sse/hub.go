// Profilehub - Personal Link Hub with Live Presence Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/profilehub

package sse

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/profilehub/internal/logging"
	"github.com/tomtom215/profilehub/internal/metrics"
	"github.com/tomtom215/profilehub/internal/presence"
)

// ErrHubClosed is returned by Register after the hub has shut down.
var ErrHubClosed = errors.New("sse hub closed")

// Heartbeat is the comment line sent to keep idle streams open.
var Heartbeat = []byte(": heartbeat\n\n")

// SnapshotSource supplies the current snapshot for new subscribers.
type SnapshotSource interface {
	Get() *presence.Snapshot
}

// Config configures a Hub.
type Config struct {
	HeartbeatInterval time.Duration
	BufferSize        int
}

// DefaultConfig returns a 30s heartbeat and a 16 message queue.
func DefaultConfig() Config {
	return Config{HeartbeatInterval: 30 * time.Second, BufferSize: 16}
}

// Hub fans snapshots out to every registered subscriber.
type Hub struct {
	cfg    Config
	source SnapshotSource
	log    zerolog.Logger

	mu          sync.Mutex
	subscribers map[*Subscriber]struct{}
	closed      bool
}

// NewHub creates a hub that seeds new subscribers from source.
func NewHub(source SnapshotSource, cfg Config) *Hub {
	def := DefaultConfig()
	if cfg.HeartbeatInterval <= 0 {
		cfg.HeartbeatInterval = def.HeartbeatInterval
	}
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = def.BufferSize
	}
	return &Hub{
		cfg:         cfg,
		source:      source,
		log:         logging.WithComponent("sse-hub"),
		subscribers: make(map[*Subscriber]struct{}),
	}
}

// Encode formats a snapshot as a single SSE data message.
func Encode(s *presence.Snapshot) ([]byte, error) {
	body, err := presence.MarshalEnvelope(s)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	buf.Grow(len(body) + 8)
	buf.WriteString("data: ")
	buf.Write(body)
	buf.WriteString("\n\n")
	return buf.Bytes(), nil
}

// Register adds a subscriber. If a snapshot is cached it is queued as the
// subscriber's first message.
func (h *Hub) Register() (*Subscriber, error) {
	sub := newSubscriber(h.cfg.BufferSize)

	// A broadcast that copied the set before this point was preceded by
	// its cache write, so the initial message already carries it. A
	// broadcast of that same cached value after this point is skipped
	// for sub, see Broadcast.
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return nil, ErrHubClosed
	}
	if h.source != nil {
		if snap := h.source.Get(); snap != nil {
			msg, err := Encode(snap)
			if err != nil {
				h.mu.Unlock()
				return nil, err
			}
			sub.enqueue(msg)
			sub.seeded = snap
			metrics.SSEMessagesTotal.WithLabelValues("initial").Inc()
		}
	}
	h.subscribers[sub] = struct{}{}
	count := len(h.subscribers)
	h.mu.Unlock()

	metrics.SSESubscribers.Set(float64(count))
	h.log.Info().Str("subscriber", sub.id).Int("total", count).Msg("SSE client connected")
	return sub, nil
}

// Unregister removes a subscriber. Safe to call more than once.
func (h *Hub) Unregister(sub *Subscriber) {
	h.mu.Lock()
	_, ok := h.subscribers[sub]
	delete(h.subscribers, sub)
	count := len(h.subscribers)
	h.mu.Unlock()

	sub.close()
	if ok {
		metrics.SSESubscribers.Set(float64(count))
		h.log.Info().Str("subscriber", sub.id).Int("total", count).Msg("SSE client disconnected")
	}
}

// Broadcast queues s for every subscriber. A subscriber whose queue is full
// is treated as a failed write and removed.
//
// The feed writes the cache before broadcasting, so a subscriber registered
// between the two steps is seeded with s already. Such a subscriber is
// skipped when s is the very snapshot it was seeded with (pointer identity,
// so distinct updates with equal content are still delivered).
func (h *Hub) Broadcast(s *presence.Snapshot) {
	if s == nil {
		return
	}
	msg, err := Encode(s)
	if err != nil {
		h.log.Error().Err(err).Msg("failed to encode snapshot")
		return
	}

	h.mu.Lock()
	targets := make([]*Subscriber, 0, len(h.subscribers))
	for sub := range h.subscribers {
		seeded := sub.seeded
		sub.seeded = nil
		if seeded == s {
			continue
		}
		targets = append(targets, sub)
	}
	h.mu.Unlock()

	h.log.Debug().Int("subscribers", len(targets)).Msg("broadcasting presence")

	for _, sub := range targets {
		if sub.enqueue(msg) {
			metrics.SSEMessagesTotal.WithLabelValues("broadcast").Inc()
			continue
		}
		metrics.SSEEvictionsTotal.WithLabelValues("queue_full").Inc()
		h.log.Warn().Str("subscriber", sub.id).Msg("SSE client too slow, dropping")
		h.Unregister(sub)
	}
}

// Count returns the number of registered subscribers.
func (h *Hub) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subscribers)
}

// CloseAll drops every subscriber and rejects new registrations.
func (h *Hub) CloseAll() {
	h.mu.Lock()
	h.closed = true
	subs := h.subscribers
	h.subscribers = make(map[*Subscriber]struct{})
	h.mu.Unlock()

	for sub := range subs {
		sub.close()
	}
	metrics.SSESubscribers.Set(0)
	if len(subs) > 0 {
		h.log.Info().Int("closed", len(subs)).Msg("closed all SSE streams")
	}
}

// Run blocks until ctx is done and then closes all streams.
func (h *Hub) Run(ctx context.Context) error {
	<-ctx.Done()
	h.CloseAll()
	return nil
}

// StreamWriter is the response side of one event stream.
type StreamWriter interface {
	Write(p []byte) (int, error)
	Flush() error
}

// Pump writes sub's messages and periodic heartbeats to w until ctx is
// done, the hub drops sub, or a write fails. sub is unregistered on return.
func (h *Hub) Pump(ctx context.Context, sub *Subscriber, w StreamWriter) error {
	defer h.Unregister(sub)

	ticker := time.NewTicker(h.cfg.HeartbeatInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case <-sub.done:
			return nil

		case msg := <-sub.send:
			if err := writeAndFlush(w, msg); err != nil {
				metrics.SSEEvictionsTotal.WithLabelValues("write_error").Inc()
				h.log.Debug().Err(err).Str("subscriber", sub.id).Msg("SSE write failed")
				return err
			}

		case <-ticker.C:
			if err := writeAndFlush(w, Heartbeat); err != nil {
				metrics.SSEEvictionsTotal.WithLabelValues("write_error").Inc()
				return err
			}
			metrics.SSEMessagesTotal.WithLabelValues("heartbeat").Inc()
		}
	}
}

func writeAndFlush(w StreamWriter, msg []byte) error {
	if _, err := w.Write(msg); err != nil {
		return err
	}
	return w.Flush()
}
