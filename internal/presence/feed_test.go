// Profilehub - Personal Link Hub with Live Presence Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/profilehub

package presence

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"
)

const testSubject = "750800056453693472"

func startFeed(t *testing.T, f *Feed) (context.CancelFunc, <-chan error) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	done := make(chan struct{})
	go func() {
		errCh <- f.Run(ctx)
		close(done)
	}()
	t.Cleanup(func() {
		cancel()
		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Error("feed did not stop")
		}
	})
	return cancel, errCh
}

func eventFrame(t, status, custom string) string {
	return `{"op":0,"t":"` + t + `","d":{"discord_status":"` + status +
		`","discord_user":{"id":"1","username":"u","global_name":"G","avatar":"a"},` +
		`"activities":[{"type":4,"state":"` + custom + `"}]}}`
}

func TestFeed_HelloSubscribeHeartbeat(t *testing.T) {
	clock := newFakeClock()
	conn := newFakeConn()
	dialer := newScriptedDialer(conn)
	f := NewFeed(FeedConfig{URL: "ws://upstream", SubjectID: testSubject}, NewCache(0), nil,
		WithDialer(dialer), WithClock(clock))

	startFeed(t, f)
	dialer.expectDial(t)

	conn.send(`{"op":1,"d":{"heartbeat_interval":30000}}`)
	clock.expectTimer(t, 30*time.Second)
	conn.expectWrite(t, `{"op":2,"d":{"subscribe_to_id":"750800056453693472"}}`)

	clock.Advance(30 * time.Second)
	conn.expectWrite(t, `{"op":3}`)
	clock.Advance(30 * time.Second)
	conn.expectWrite(t, `{"op":3}`)

	if st := f.Status(); st.State != StateSubscribed {
		t.Errorf("State = %v, want subscribed", st.State)
	}
	if !f.Connected() {
		t.Error("Connected() = false while subscribed")
	}
}

// A Hello whose interval does not fit a time.Duration is dropped; the feed
// keeps waiting for a usable Hello.
func TestFeed_OutOfRangeHelloDropped(t *testing.T) {
	clock := newFakeClock()
	conn := newFakeConn()
	dialer := newScriptedDialer(conn)
	f := NewFeed(FeedConfig{URL: "ws://upstream", SubjectID: testSubject}, NewCache(0), nil,
		WithDialer(dialer), WithClock(clock))

	_, errCh := startFeed(t, f)
	dialer.expectDial(t)

	conn.send(`{"op":1,"d":{"heartbeat_interval":9300000000000}}`)
	conn.send(`{"op":1,"d":{"heartbeat_interval":30000}}`)
	clock.expectTimer(t, 30*time.Second)
	conn.expectWrite(t, `{"op":2,"d":{"subscribe_to_id":"750800056453693472"}}`)

	select {
	case err := <-errCh:
		t.Fatalf("Run() returned early: %v", err)
	default:
	}
	if st := f.Status(); st.State != StateSubscribed {
		t.Errorf("State = %v, want subscribed", st.State)
	}
}

// The cache equals the payload of the last event, and every event is
// broadcast in arrival order.
func TestFeed_LastWriteWins(t *testing.T) {
	clock := newFakeClock()
	conn := newFakeConn()
	dialer := newScriptedDialer(conn)
	cache := NewCache(0)
	sink := newRecordingSink()
	f := NewFeed(FeedConfig{URL: "ws://upstream", SubjectID: testSubject}, cache, sink,
		WithDialer(dialer), WithClock(clock))

	startFeed(t, f)
	dialer.expectDial(t)

	conn.send(`{"op":1,"d":{"heartbeat_interval":1000}}`)
	conn.send(eventFrame(EventInitState, "online", "first"))
	conn.send(`{"op":7,"d":{}}`)
	conn.send(eventFrame(EventPresenceUpdate, "idle", "second"))
	conn.send(`{"op":0,"t":"PRESENCE_UPDATE","d":{"discord_status":"sleeping","discord_user":{"id":"1"}}}`)
	conn.send(`not json`)
	conn.send(eventFrame(EventPresenceUpdate, "dnd", "third"))

	want := []string{"first", "second", "third"}
	for _, w := range want {
		snap := sink.next(t)
		if got, _ := snap.CustomStatus(); got != w {
			t.Fatalf("broadcast custom status = %q, want %q", got, w)
		}
	}

	got := cache.Get()
	if got == nil || got.Status != StatusDND {
		t.Fatalf("cache = %+v, want dnd snapshot", got)
	}
	if text, _ := got.CustomStatus(); text != "third" {
		t.Errorf("cached custom status = %q, want third", text)
	}
}

// Attempt counter resets on open, so the delay after a successful
// connection drops back to the first step.
func TestFeed_BackoffResetsOnOpen(t *testing.T) {
	clock := newFakeClock()
	conn := newFakeConn()
	dialer := newScriptedDialer(nil, nil, conn)
	f := NewFeed(FeedConfig{URL: "ws://upstream", SubjectID: testSubject}, NewCache(0), nil,
		WithDialer(dialer), WithClock(clock))

	startFeed(t, f)

	dialer.expectDial(t)
	clock.expectTimer(t, 2*time.Second)
	clock.Advance(2 * time.Second)

	dialer.expectDial(t)
	clock.expectTimer(t, 4*time.Second)
	clock.Advance(4 * time.Second)

	dialer.expectDial(t)
	conn.send(`{"op":1,"d":{"heartbeat_interval":1000}}`)
	clock.expectTimer(t, time.Second) // heartbeat ticker
	conn.expectWrite(t, `{"op":2,"d":{"subscribe_to_id":"750800056453693472"}}`)

	conn.remoteClose()
	clock.expectTimer(t, 2*time.Second)

	st := f.Status()
	if st.State != StateDisconnected || st.Attempt != 1 {
		t.Errorf("status = %+v, want disconnected attempt 1", st)
	}
	if !st.NextRetry.Equal(clock.Now().Add(2 * time.Second)) {
		t.Errorf("NextRetry = %v", st.NextRetry)
	}
}

// After the last allowed attempt no further dial happens and the cache
// keeps its last value.
func TestFeed_GivesUpAfterMaxAttempts(t *testing.T) {
	clock := newFakeClock()
	dialer := newScriptedDialer()
	cache := NewCache(0)
	prior, err := ParseSnapshot([]byte(`{"discord_status":"online","discord_user":{"id":"1","username":"u"}}`))
	if err != nil {
		t.Fatal(err)
	}
	cache.Set(prior)

	f := NewFeed(FeedConfig{URL: "ws://upstream", SubjectID: testSubject, Backoff: DefaultFeedBackoff()},
		cache, nil, WithDialer(dialer), WithClock(clock))

	_, errCh := startFeed(t, f)

	for _, d := range []time.Duration{2 * time.Second, 4 * time.Second, 8 * time.Second, 16 * time.Second, 30 * time.Second} {
		dialer.expectDial(t)
		clock.expectTimer(t, d)
		clock.Advance(d)
	}
	dialer.expectDial(t) // final attempt

	select {
	case err := <-errCh:
		if !errors.Is(err, ErrRetriesExhausted) {
			t.Fatalf("Run() = %v, want ErrRetriesExhausted", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after exhausting retries")
	}

	clock.Advance(time.Hour)
	if n := dialer.dialCount(); n != 0 {
		t.Errorf("%d dials after giving up", n)
	}
	if got := cache.Get(); got == nil || got.Status != StatusOnline {
		t.Errorf("cache = %+v, want prior snapshot", got)
	}
	if st := f.Status(); !st.Exhausted || st.State != StateDisconnected {
		t.Errorf("status = %+v, want exhausted", st)
	}
}

func TestFeed_HeartbeatTimeoutForcesReconnect(t *testing.T) {
	clock := newFakeClock()
	conn := newFakeConn()
	dialer := newScriptedDialer(conn)
	f := NewFeed(FeedConfig{URL: "ws://upstream", SubjectID: testSubject, HeartbeatTimeout: 90 * time.Second},
		NewCache(0), nil, WithDialer(dialer), WithClock(clock))

	startFeed(t, f)
	dialer.expectDial(t)
	clock.expectTimer(t, 90*time.Second) // watchdog armed on open

	clock.Advance(90 * time.Second)
	clock.expectTimer(t, 2*time.Second) // reconnect scheduled

	select {
	case <-conn.closed:
	case <-time.After(2 * time.Second):
		t.Fatal("silent connection was not closed")
	}
}

func TestFeed_CancelStopsRun(t *testing.T) {
	clock := newFakeClock()
	conn := newFakeConn()
	dialer := newScriptedDialer(conn)
	f := NewFeed(FeedConfig{URL: "ws://upstream", SubjectID: testSubject}, NewCache(0), nil,
		WithDialer(dialer), WithClock(clock))

	cancel, errCh := startFeed(t, f)
	dialer.expectDial(t)
	cancel()

	select {
	case err := <-errCh:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Run() = %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not stop")
	}
	select {
	case <-conn.closed:
	default:
		t.Error("connection left open after Run returned")
	}
}

// TestFeed_WebSocketUpstream runs against a real websocket server.
func TestFeed_WebSocketUpstream(t *testing.T) {
	upgrader := websocket.Upgrader{}
	subscribed := make(chan string, 1)
	heartbeats := make(chan struct{}, 8)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		if err := conn.WriteMessage(websocket.TextMessage, []byte(`{"op":1,"d":{"heartbeat_interval":20}}`)); err != nil {
			return
		}
		for {
			_, msg, err := conn.ReadMessage()
			if err != nil {
				return
			}
			var frame Frame
			if err := json.Unmarshal(msg, &frame); err != nil {
				return
			}
			switch frame.Op {
			case OpSubscribe:
				var p subscribePayload
				_ = json.Unmarshal(frame.D, &p)
				subscribed <- p.SubscribeToID
				_ = conn.WriteMessage(websocket.TextMessage, []byte(eventFrame(EventInitState, "idle", "brb")))
			case OpHeartbeat:
				select {
				case heartbeats <- struct{}{}:
				default:
				}
			}
		}
	}))
	defer server.Close()

	cache := NewCache(0)
	sink := newRecordingSink()
	wsURL := "ws" + strings.TrimPrefix(server.URL, "http")
	f := NewFeed(FeedConfig{URL: wsURL, SubjectID: testSubject}, cache, sink)

	startFeed(t, f)

	select {
	case id := <-subscribed:
		if id != testSubject {
			t.Errorf("subscribe_to_id = %q", id)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("no subscribe frame received")
	}

	snap := sink.next(t)
	if snap.Status != StatusIdle {
		t.Errorf("Status = %q, want idle", snap.Status)
	}

	select {
	case <-heartbeats:
	case <-time.After(3 * time.Second):
		t.Fatal("no heartbeat received")
	}
}
