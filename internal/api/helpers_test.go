// Profilehub - Personal Link Hub with Live Presence Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/profilehub

package api

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/crypto/bcrypt"

	"github.com/tomtom215/profilehub/internal/auth"
	"github.com/tomtom215/profilehub/internal/presence"
	"github.com/tomtom215/profilehub/internal/sse"
	"github.com/tomtom215/profilehub/internal/store"
)

const testPassword = "correct horse battery"

type fakeFeed struct{ connected atomic.Bool }

func (f *fakeFeed) Connected() bool { return f.connected.Load() }

type testEnv struct {
	t         *testing.T
	handler   http.Handler
	cache     *presence.Cache
	feed      *fakeFeed
	hub       *sse.Hub
	views     *store.MemoryViewCounter
	whitelist *store.WhitelistStore
	links     *store.LinkStore
	uploads   *store.UploadStore
	staticDir string
}

type envOption func(*RouterConfig)

func withWhitelistEnforced() envOption {
	return func(c *RouterConfig) { c.EnforceIPWhitelist = true }
}

func newTestEnv(t *testing.T, opts ...envOption) *testEnv {
	t.Helper()
	dir := t.TempDir()

	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	verifier, err := auth.NewPasswordVerifier(string(hash), "")
	if err != nil {
		t.Fatal(err)
	}
	sessCfg := auth.DefaultSessionMiddlewareConfig()
	sessCfg.CookieSecure = false

	env := &testEnv{
		t:         t,
		cache:     presence.NewCache(time.Minute),
		feed:      &fakeFeed{},
		views:     store.NewMemoryViewCounter(654),
		whitelist: store.NewWhitelistStore(filepath.Join(dir, "config", "whitelist.json")),
		links:     store.NewLinkStore(filepath.Join(dir, "config", "links.json")),
		uploads:   store.NewUploadStore(filepath.Join(dir, "public", "uploads"), "/uploads", 1<<16),
		staticDir: filepath.Join(dir, "public"),
	}
	env.hub = sse.NewHub(env.cache, sse.Config{HeartbeatInterval: time.Hour, BufferSize: 4})

	if err := os.MkdirAll(env.staticDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(env.staticDir, "index.html"), []byte("<h1>chavis</h1>"), 0o644); err != nil {
		t.Fatal(err)
	}

	h := NewHandler(HandlerDeps{
		Views:     env.views,
		Cache:     env.cache,
		Feed:      env.feed,
		Hub:       env.hub,
		Whitelist: env.whitelist,
		Links:     env.links,
		Uploads:   env.uploads,
		Sessions:  auth.NewSessionMiddleware(auth.NewMemorySessionStore(), sessCfg),
		Password:  verifier,
		Lockout:   auth.NewLockoutManager(auth.LockoutConfig{MaxAttempts: 3, LockoutDuration: time.Minute}),
	})

	cfg := RouterConfig{
		StaticDir:  env.staticDir,
		UploadDir:  filepath.Join(dir, "public", "uploads"),
		Middleware: DefaultChiMiddlewareConfig(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	env.handler = NewRouter(h, cfg).Setup()
	return env
}

// do sends a request from remoteIP with an optional JSON body and cookies.
func (e *testEnv) do(method, path string, body any, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	e.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			e.t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.RemoteAddr = "127.0.0.1:40000"
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

// login returns the admin session cookie.
func (e *testEnv) login() *http.Cookie {
	e.t.Helper()
	rec := e.do(http.MethodPost, "/api/admin/login", map[string]string{"password": testPassword})
	if rec.Code != http.StatusOK {
		e.t.Fatalf("login status = %d body = %s", rec.Code, rec.Body.String())
	}
	for _, c := range rec.Result().Cookies() {
		if c.Name == "profilehub_session" {
			return c
		}
	}
	e.t.Fatal("login did not set a session cookie")
	return nil
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("decode body %q: %v", rec.Body.String(), err)
	}
}

func mustSnapshot(t *testing.T, payload string) *presence.Snapshot {
	t.Helper()
	s, err := presence.ParseSnapshot([]byte(payload))
	if err != nil {
		t.Fatal(err)
	}
	return s
}

const examplePayload = `{"discord_status":"online","discord_user":{"username":"chavis","global_name":null,"avatar":"a1b2","id":"750800056453693472","discriminator":"0"},"listening_to_spotify":false}`

const exampleEnvelope = `{"success":true,"data":{"discord_status":"online","discord_user":{"username":"chavis","global_name":null,"avatar":"a1b2","id":"750800056453693472"},"activities":[]}}`
