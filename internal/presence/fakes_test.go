// Profilehub - Personal Link Hub with Live Presence Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/profilehub

package presence

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

// fakeClock fires timers only when Advance is called.
type fakeClock struct {
	mu      sync.Mutex
	now     time.Time
	timers  []*fakeTimer
	created chan time.Duration
}

func newFakeClock() *fakeClock {
	return &fakeClock{
		now:     time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		created: make(chan time.Duration, 64),
	}
}

type fakeTimer struct {
	c       chan time.Time
	at      time.Time
	period  time.Duration
	clock   *fakeClock
	stopped bool
}

func (t *fakeTimer) C() <-chan time.Time { return t.c }

func (t *fakeTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	was := !t.stopped
	t.stopped = true
	return was
}

type fakeTicker struct{ *fakeTimer }

func (t fakeTicker) Stop() { t.fakeTimer.Stop() }

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) add(d, period time.Duration) *fakeTimer {
	c.mu.Lock()
	t := &fakeTimer{c: make(chan time.Time, 1), at: c.now.Add(d), period: period, clock: c}
	c.timers = append(c.timers, t)
	c.mu.Unlock()
	c.created <- d
	return t
}

func (c *fakeClock) NewTimer(d time.Duration) Timer { return c.add(d, 0) }

func (c *fakeClock) NewTicker(d time.Duration) Ticker { return fakeTicker{c.add(d, d)} }

// Advance moves time forward and fires every due timer once.
func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
	for _, t := range c.timers {
		if t.stopped || t.at.After(c.now) {
			continue
		}
		select {
		case t.c <- c.now:
		default:
		}
		if t.period > 0 {
			t.at = t.at.Add(t.period)
		} else {
			t.stopped = true
		}
	}
}

// expectTimer waits for the next timer or ticker creation.
func (c *fakeClock) expectTimer(t *testing.T, want time.Duration) {
	t.Helper()
	select {
	case got := <-c.created:
		if got != want {
			t.Fatalf("timer duration = %v, want %v", got, want)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("timeout waiting for %v timer", want)
	}
}

var errFakeClosed = errors.New("fake connection closed")

// fakeConn is an in-memory upstream socket.
type fakeConn struct {
	in     chan []byte
	out    chan []byte
	closed chan struct{}
	once   sync.Once
}

func newFakeConn() *fakeConn {
	return &fakeConn{
		in:     make(chan []byte, 16),
		out:    make(chan []byte, 64),
		closed: make(chan struct{}),
	}
}

func (c *fakeConn) ReadMessage() (int, []byte, error) {
	select {
	case msg, ok := <-c.in:
		if !ok {
			return 0, nil, &websocket.CloseError{Code: websocket.CloseGoingAway, Text: "remote closed"}
		}
		return websocket.TextMessage, msg, nil
	case <-c.closed:
		return 0, nil, errFakeClosed
	}
}

func (c *fakeConn) WriteMessage(_ int, data []byte) error {
	select {
	case <-c.closed:
		return errFakeClosed
	default:
	}
	c.out <- append([]byte(nil), data...)
	return nil
}

func (c *fakeConn) Close() error {
	c.once.Do(func() { close(c.closed) })
	return nil
}

func (c *fakeConn) send(s string) { c.in <- []byte(s) }

// remoteClose simulates the upstream closing the socket.
func (c *fakeConn) remoteClose() { close(c.in) }

func (c *fakeConn) expectWrite(t *testing.T, want string) {
	t.Helper()
	select {
	case got := <-c.out:
		if string(got) != want {
			t.Fatalf("wrote %s, want %s", got, want)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("timeout waiting for write %s", want)
	}
}

// scriptedDialer returns queued results in order, failing once exhausted.
type scriptedDialer struct {
	mu      sync.Mutex
	results []*fakeConn // nil entry means dial failure
	dials   chan struct{}
}

func newScriptedDialer(results ...*fakeConn) *scriptedDialer {
	return &scriptedDialer{results: results, dials: make(chan struct{}, 64)}
}

func (d *scriptedDialer) Dial(_ context.Context, _ string) (Conn, error) {
	d.dials <- struct{}{}
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.results) == 0 {
		return nil, errors.New("connection refused")
	}
	next := d.results[0]
	d.results = d.results[1:]
	if next == nil {
		return nil, errors.New("connection refused")
	}
	return next, nil
}

func (d *scriptedDialer) expectDial(t *testing.T) {
	t.Helper()
	select {
	case <-d.dials:
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for dial")
	}
}

func (d *scriptedDialer) dialCount() int {
	return len(d.dials)
}

// recordingSink collects broadcast snapshots.
type recordingSink struct {
	got chan *Snapshot
}

func newRecordingSink() *recordingSink {
	return &recordingSink{got: make(chan *Snapshot, 64)}
}

func (s *recordingSink) Broadcast(snap *Snapshot) { s.got <- snap }

func (s *recordingSink) next(t *testing.T) *Snapshot {
	t.Helper()
	select {
	case snap := <-s.got:
		return snap
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for broadcast")
		return nil
	}
}
