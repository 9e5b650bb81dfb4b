// Profilehub - Personal Link Hub with Live Presence Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/profilehub

package api

import (
	"net/http"
	"strings"
	"testing"
	"time"
)

func TestViews(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodGet, "/api/views", nil)
	if rec.Code != http.StatusOK || strings.TrimSpace(rec.Body.String()) != `{"views":654}` {
		t.Fatalf("GET /api/views = %d %s", rec.Code, rec.Body.String())
	}

	rec = env.do(http.MethodPost, "/api/views/increment", nil)
	var resp ViewsResponse
	decodeBody(t, rec, &resp)
	if resp.Views != 655 || resp.Message != "View count incremented successfully" {
		t.Errorf("increment = %+v", resp)
	}
}

func TestSetViews(t *testing.T) {
	tests := []struct {
		name string
		body any
		want int
	}{
		{"valid", map[string]any{"views": 1000}, http.StatusOK},
		{"zero", map[string]any{"views": 0}, http.StatusOK},
		{"negative", map[string]any{"views": -1}, http.StatusBadRequest},
		{"string", map[string]any{"views": "10"}, http.StatusBadRequest},
		{"fraction", map[string]any{"views": 1.5}, http.StatusBadRequest},
		{"missing", map[string]any{}, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			rec := env.do(http.MethodPut, "/api/views", tt.body)
			if rec.Code != tt.want {
				t.Fatalf("status = %d, want %d (%s)", rec.Code, tt.want, rec.Body.String())
			}
			if tt.want == http.StatusBadRequest {
				var e ErrorResponse
				decodeBody(t, rec, &e)
				if e.Error != "Invalid view count" || e.Message != "View count must be a non-negative number" {
					t.Errorf("error body = %+v", e)
				}
			}
		})
	}
}

func TestViews_RateLimitSharedAcrossWrites(t *testing.T) {
	env := newTestEnv(t)

	for i := 0; i < 5; i++ {
		if rec := env.do(http.MethodPost, "/api/views/increment", nil); rec.Code != http.StatusOK {
			t.Fatalf("increment %d = %d", i, rec.Code)
		}
		if rec := env.do(http.MethodPut, "/api/views", map[string]any{"views": 1}); rec.Code != http.StatusOK {
			t.Fatalf("put %d = %d", i, rec.Code)
		}
	}

	rec := env.do(http.MethodPost, "/api/views/increment", nil)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("11th write = %d, want 429", rec.Code)
	}
	var body struct {
		Error      string `json:"error"`
		RetryAfter int    `json:"retryAfter"`
	}
	decodeBody(t, rec, &body)
	if body.Error != "Too many requests. Please try again later." || body.RetryAfter <= 0 || body.RetryAfter > 60 {
		t.Errorf("429 body = %+v", body)
	}

	// Reads are not limited.
	if rec := env.do(http.MethodGet, "/api/views", nil); rec.Code != http.StatusOK {
		t.Errorf("GET after limit = %d", rec.Code)
	}
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)
	env.feed.connected.Store(true)

	rec := env.do(http.MethodGet, "/api/health", nil)
	var resp HealthResponse
	decodeBody(t, rec, &resp)

	if resp.Status != "OK" || resp.Views != 654 || !resp.DiscordConnected {
		t.Errorf("health = %+v", resp)
	}
	if _, err := time.Parse(time.RFC3339, resp.Timestamp); err != nil {
		t.Errorf("timestamp %q: %v", resp.Timestamp, err)
	}
	if !strings.HasSuffix(resp.Timestamp, "Z") {
		t.Errorf("timestamp %q not UTC", resp.Timestamp)
	}
}
