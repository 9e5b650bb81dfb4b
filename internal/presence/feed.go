// Profilehub - Personal Link Hub with Live Presence Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/profilehub

package presence

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/tomtom215/profilehub/internal/logging"
	"github.com/tomtom215/profilehub/internal/metrics"
)

var (
	// ErrRetriesExhausted is returned by Run after the last reconnect attempt failed.
	ErrRetriesExhausted = errors.New("presence feed: reconnect attempts exhausted")

	// ErrMalformedFrame marks an upstream frame that could not be decoded.
	ErrMalformedFrame = errors.New("presence feed: malformed frame")
)

// Conn is the subset of *websocket.Conn used by the feed.
type Conn interface {
	ReadMessage() (messageType int, p []byte, err error)
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// Dialer opens upstream connections.
type Dialer interface {
	Dial(ctx context.Context, url string) (Conn, error)
}

// WebSocketDialer dials with gorilla/websocket.
type WebSocketDialer struct {
	HandshakeTimeout time.Duration
}

// Dial implements Dialer.
func (d WebSocketDialer) Dial(ctx context.Context, url string) (Conn, error) {
	dialer := websocket.Dialer{
		Proxy:            http.ProxyFromEnvironment,
		HandshakeTimeout: d.HandshakeTimeout,
	}

	conn, resp, err := dialer.DialContext(ctx, url, nil)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("websocket dial failed (status %d): %w", resp.StatusCode, err)
		}
		return nil, fmt.Errorf("websocket dial failed: %w", err)
	}
	return conn, nil
}

// Broadcaster receives every snapshot the feed caches.
type Broadcaster interface {
	Broadcast(s *Snapshot)
}

// FeedConfig configures a Feed.
type FeedConfig struct {
	URL       string
	SubjectID string
	Backoff   Backoff

	// HeartbeatTimeout forces a reconnect after this much upstream silence.
	// Zero disables the check.
	HeartbeatTimeout time.Duration
}

// Feed maintains the upstream presence connection for one subject and
// writes every received snapshot to the cache and the broadcaster.
type Feed struct {
	cfg    FeedConfig
	cache  *Cache
	sink   Broadcaster
	dialer Dialer
	clock  Clock
	log    zerolog.Logger

	mu     sync.RWMutex
	status ConnStatus
}

// Option customizes a Feed.
type Option func(*Feed)

// WithDialer replaces the websocket dialer.
func WithDialer(d Dialer) Option {
	return func(f *Feed) { f.dialer = d }
}

// WithClock replaces the wall clock.
func WithClock(c Clock) Option {
	return func(f *Feed) { f.clock = c }
}

// NewFeed creates a feed. Run starts it.
func NewFeed(cfg FeedConfig, cache *Cache, sink Broadcaster, opts ...Option) *Feed {
	if cfg.Backoff == nil {
		cfg.Backoff = DefaultFeedBackoff()
	}
	f := &Feed{
		cfg:    cfg,
		cache:  cache,
		sink:   sink,
		dialer: WebSocketDialer{HandshakeTimeout: 10 * time.Second},
		clock:  SystemClock{},
		log:    logging.WithComponent("presence-feed"),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Status returns a copy of the current connection status.
func (f *Feed) Status() ConnStatus {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.status
}

// Connected reports whether an upstream socket is currently open.
func (f *Feed) Connected() bool {
	return f.Status().State.Connected()
}

func (f *Feed) setStatus(s ConnStatus) {
	f.mu.Lock()
	prev := f.status
	f.status = s
	f.mu.Unlock()

	if prev.State != s.State {
		metrics.PresenceFeedState.Set(float64(s.State))
		f.log.Debug().Stringer("from", prev.State).Stringer("to", s.State).Msg("feed state changed")
	}
	if s.Exhausted {
		metrics.PresenceFeedExhausted.Set(1)
	} else {
		metrics.PresenceFeedExhausted.Set(0)
	}
}

// Run connects and keeps the feed alive until ctx is canceled or the
// reconnect policy is exhausted. The cache keeps its last snapshot either way.
func (f *Feed) Run(ctx context.Context) error {
	f.setStatus(ConnStatus{})

	l := &runLoop{feed: f}
	defer l.teardown()

	l.apply(ctx, Event{Kind: EventConnect, At: f.clock.Now()})

	for {
		if f.Status().Exhausted {
			return ErrRetriesExhausted
		}

		select {
		case <-ctx.Done():
			f.log.Info().Msg("presence feed stopping")
			return ctx.Err()

		case msg := <-l.frames:
			l.handleFrame(ctx, msg)

		case err := <-l.done:
			l.onClosed(ctx, err)

		case <-l.heartbeatC():
			l.apply(ctx, Event{Kind: EventHeartbeatDue, At: f.clock.Now()})

		case <-l.retryC():
			l.retry = nil
			l.apply(ctx, Event{Kind: EventRetryDue, At: f.clock.Now()})

		case <-l.watchdogC():
			l.watchdog = nil
			f.log.Warn().Dur("timeout", f.cfg.HeartbeatTimeout).Msg("no upstream frames within timeout, reconnecting")
			l.apply(ctx, Event{Kind: EventClosed, At: f.clock.Now()})
		}
	}
}

// runLoop holds the resources owned by one Run call. All fields are
// accessed only from the Run goroutine.
type runLoop struct {
	feed *Feed

	conn   Conn
	stop   chan struct{}
	frames chan []byte
	done   chan error
	wg     sync.WaitGroup

	heartbeat Ticker
	retry     Timer
	watchdog  Timer
}

func (l *runLoop) heartbeatC() <-chan time.Time {
	if l.heartbeat == nil {
		return nil
	}
	return l.heartbeat.C()
}

func (l *runLoop) retryC() <-chan time.Time {
	if l.retry == nil {
		return nil
	}
	return l.retry.C()
}

func (l *runLoop) watchdogC() <-chan time.Time {
	if l.watchdog == nil {
		return nil
	}
	return l.watchdog.C()
}

// apply runs the state machine for ev and every event its effects produce.
func (l *runLoop) apply(ctx context.Context, ev Event) {
	queue := []Event{ev}
	for len(queue) > 0 {
		ev, queue = queue[0], queue[1:]

		next, effects := Transition(l.feed.Status(), ev, l.feed.cfg.Backoff)
		l.feed.setStatus(next)

		for _, eff := range effects {
			if follow, ok := l.execute(ctx, eff); ok {
				queue = append(queue, follow)
			}
		}
	}
}

func (l *runLoop) execute(ctx context.Context, eff Effect) (Event, bool) {
	f := l.feed
	switch eff.Kind {
	case EffectDial:
		f.log.Info().Str("url", f.cfg.URL).Msg("connecting to presence feed")
		conn, err := f.dialer.Dial(ctx, f.cfg.URL)
		if err != nil {
			f.log.Warn().Err(err).Msg("presence feed dial failed")
			return Event{Kind: EventClosed, At: f.clock.Now()}, true
		}
		l.attach(conn)
		f.log.Info().Msg("connected to presence feed")
		return Event{Kind: EventOpen, At: f.clock.Now()}, true

	case EffectStartHeartbeat:
		l.stopHeartbeat()
		l.heartbeat = f.clock.NewTicker(eff.Interval)

	case EffectStopHeartbeat:
		l.stopHeartbeat()

	case EffectSendSubscribe:
		msg, err := encodeSubscribe(f.cfg.SubjectID)
		if err == nil {
			err = l.write(msg)
		}
		if err != nil {
			f.log.Warn().Err(err).Msg("failed to send subscribe")
		} else {
			f.log.Info().Str("subject_id", f.cfg.SubjectID).Msg("subscribed to presence")
		}

	case EffectSendHeartbeat:
		msg, err := encodeHeartbeat()
		if err == nil {
			err = l.write(msg)
		}
		if err != nil {
			f.log.Warn().Err(err).Msg("failed to send heartbeat")
		}

	case EffectScheduleRetry:
		l.detach()
		metrics.PresenceReconnectsTotal.Inc()
		f.log.Info().
			Dur("delay", eff.Delay).
			Int("attempt", eff.Attempt).
			Int("max_attempts", maxAttempts(f.cfg.Backoff)).
			Msg("reconnecting to presence feed")
		l.retry = f.clock.NewTimer(eff.Delay)

	case EffectGiveUp:
		l.detach()
		f.log.Error().Msg("presence feed: max reconnection attempts reached, giving up")
	}
	return Event{}, false
}

func maxAttempts(b Backoff) int {
	switch p := b.(type) {
	case ExponentialBackoff:
		return p.MaxAttempts
	case LinearBackoff:
		return p.MaxAttempts
	}
	return 0
}

func (l *runLoop) write(msg []byte) error {
	if l.conn == nil {
		return errors.New("not connected")
	}
	return l.conn.WriteMessage(websocket.TextMessage, msg)
}

// attach starts the reader for conn.
func (l *runLoop) attach(conn Conn) {
	l.conn = conn
	l.stop = make(chan struct{})
	l.frames = make(chan []byte)
	l.done = make(chan error, 1)
	l.resetWatchdog()

	stop, frames, done := l.stop, l.frames, l.done
	l.wg.Add(1)
	go func() {
		defer l.wg.Done()
		for {
			_, msg, err := conn.ReadMessage()
			if err != nil {
				done <- err
				return
			}
			select {
			case frames <- msg:
			case <-stop:
				return
			}
		}
	}()
}

// detach closes the current connection and forgets its channels.
func (l *runLoop) detach() {
	l.stopHeartbeat()
	if l.watchdog != nil {
		l.watchdog.Stop()
		l.watchdog = nil
	}
	if l.conn == nil {
		return
	}
	close(l.stop)
	if err := l.conn.Close(); err != nil {
		l.feed.log.Debug().Err(err).Msg("error closing upstream socket")
	}
	l.conn, l.stop, l.frames, l.done = nil, nil, nil, nil
}

func (l *runLoop) stopHeartbeat() {
	if l.heartbeat != nil {
		l.heartbeat.Stop()
		l.heartbeat = nil
	}
}

func (l *runLoop) resetWatchdog() {
	if l.feed.cfg.HeartbeatTimeout <= 0 {
		return
	}
	if l.watchdog != nil {
		l.watchdog.Stop()
	}
	l.watchdog = l.feed.clock.NewTimer(l.feed.cfg.HeartbeatTimeout)
}

func (l *runLoop) teardown() {
	l.detach()
	if l.retry != nil {
		l.retry.Stop()
		l.retry = nil
	}
	l.wg.Wait()
}

func (l *runLoop) onClosed(ctx context.Context, err error) {
	if ctx.Err() != nil {
		return
	}
	var ce *websocket.CloseError
	if errors.As(err, &ce) {
		l.feed.log.Warn().Int("code", ce.Code).Str("reason", ce.Text).Msg("presence feed closed")
	} else {
		l.feed.log.Warn().Err(err).Msg("presence feed connection lost")
	}
	l.apply(ctx, Event{Kind: EventClosed, At: l.feed.clock.Now()})
}

func (l *runLoop) handleFrame(ctx context.Context, b []byte) {
	f := l.feed
	l.resetWatchdog()

	frame, err := decodeFrame(b)
	if err != nil {
		l.drop(err)
		return
	}
	metrics.PresenceFramesTotal.WithLabelValues(strconv.Itoa(frame.Op)).Inc()

	switch frame.Op {
	case OpHello:
		interval, err := parseHello(frame.D)
		if err != nil {
			l.drop(err)
			return
		}
		f.log.Debug().Dur("heartbeat_interval", interval).Msg("received hello")
		l.apply(ctx, Event{Kind: EventHello, At: f.clock.Now(), HeartbeatInterval: interval})

	case OpEvent:
		if frame.T != EventInitState && frame.T != EventPresenceUpdate {
			return
		}
		snap, err := ParseSnapshot(frame.D)
		if err != nil {
			l.drop(err)
			return
		}
		f.cache.Set(snap)
		metrics.RecordSnapshot(frame.T, f.clock.Now())
		f.log.Info().Str("discord_status", string(snap.Status)).Msg("presence updated")
		if f.sink != nil {
			f.sink.Broadcast(f.cache.Get())
		}
	}
}

func (l *runLoop) drop(err error) {
	metrics.PresenceMalformedFramesTotal.Inc()
	l.feed.log.Warn().Err(err).Msg("dropping upstream frame")
}
