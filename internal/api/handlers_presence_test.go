// Profilehub - Personal Link Hub with Live Presence Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/profilehub

package api

import (
	"bufio"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestDiscordStatus_EmptyCache(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodGet, "/api/discord/status", nil)
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}
	want := `{"success":false,"error":"Discord status not available yet","message":"Please try again in a few seconds"}`
	if got := strings.TrimSpace(rec.Body.String()); got != want {
		t.Errorf("body = %s\nwant %s", got, want)
	}
}

func TestDiscordStatus_Cached(t *testing.T) {
	env := newTestEnv(t)
	env.cache.Set(mustSnapshot(t, examplePayload))

	rec := env.do(http.MethodGet, "/api/discord/status", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if got := strings.TrimSpace(rec.Body.String()); got != exampleEnvelope {
		t.Errorf("body = %s\nwant %s", got, exampleEnvelope)
	}
}

// readEvent reads one SSE message, skipping heartbeats.
func readEvent(t *testing.T, r *bufio.Reader) string {
	t.Helper()
	for {
		line, err := r.ReadString('\n')
		if err != nil {
			t.Fatalf("read stream: %v", err)
		}
		line = strings.TrimRight(line, "\n")
		if strings.HasPrefix(line, "data: ") {
			if blank, err := r.ReadString('\n'); err != nil || blank != "\n" {
				t.Fatalf("message not terminated by blank line: %q %v", blank, err)
			}
			return strings.TrimPrefix(line, "data: ")
		}
	}
}

func openStream(t *testing.T, env *testEnv) (*http.Response, *bufio.Reader) {
	t.Helper()
	srv := httptest.NewServer(env.handler)
	t.Cleanup(srv.Close)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/api/discord/status/stream", nil)
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Accept", "text/event-stream")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp, bufio.NewReader(resp.Body)
}

func TestDiscordStatusStream_InitialAndBroadcast(t *testing.T) {
	env := newTestEnv(t)
	env.cache.Set(mustSnapshot(t, examplePayload))

	resp, r := openStream(t, env)

	for header, want := range map[string]string{
		"Content-Type":                "text/event-stream",
		"Cache-Control":               "no-cache",
		"Access-Control-Allow-Origin": "*",
	} {
		if got := resp.Header.Get(header); got != want {
			t.Errorf("%s = %q, want %q", header, got, want)
		}
	}

	if got := readEvent(t, r); got != exampleEnvelope {
		t.Fatalf("initial event = %s", got)
	}

	next := mustSnapshot(t, `{"discord_status":"dnd","discord_user":{"username":"chavis","global_name":"Chavis","avatar":null,"id":"1"},"activities":[{"type":4,"state":"coding"}]}`)
	env.hub.Broadcast(next)

	got := readEvent(t, r)
	want := `{"success":true,"data":{"discord_status":"dnd","discord_user":{"username":"chavis","global_name":"Chavis","avatar":null,"id":"1"},"activities":[{"type":4,"state":"coding"}]}}`
	if got != want {
		t.Errorf("broadcast event = %s\nwant %s", got, want)
	}
}

func TestDiscordStatusStream_EmptyCacheWaitsForBroadcast(t *testing.T) {
	env := newTestEnv(t)
	_, r := openStream(t, env)

	deadline := time.Now().Add(2 * time.Second)
	for env.hub.Count() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	env.hub.Broadcast(mustSnapshot(t, examplePayload))

	if got := readEvent(t, r); got != exampleEnvelope {
		t.Errorf("first event = %s", got)
	}
}

func TestDiscordStatusStream_ClosedHub(t *testing.T) {
	env := newTestEnv(t)
	env.hub.CloseAll()

	rec := env.do(http.MethodGet, "/api/discord/status/stream", nil)
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", rec.Code)
	}
}

func TestDiscordStatusStream_UnregistersOnDisconnect(t *testing.T) {
	env := newTestEnv(t)
	resp, _ := openStream(t, env)

	deadline := time.Now().Add(2 * time.Second)
	for env.hub.Count() != 1 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	resp.Body.Close()

	for env.hub.Count() != 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if n := env.hub.Count(); n != 0 {
		t.Errorf("subscribers after disconnect = %d", n)
	}
}
