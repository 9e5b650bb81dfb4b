// Profilehub - Personal Link Hub with Live Presence Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/profilehub

package sse

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/profilehub/internal/presence"
)

// ErrGaveUp is returned by Watch when the reconnect budget is spent.
var ErrGaveUp = errors.New("event stream: reconnect attempts exhausted")

// ConnEvent describes a change in the client's connection.
type ConnEvent struct {
	Connected bool
	Attempt   int
	Delay     time.Duration
	Err       error
}

// Client consumes a presence event stream the way the profile page does:
// every disconnect schedules a reconnect, a successful open resets the
// attempt counter.
type Client struct {
	url     string
	http    *http.Client
	backoff presence.Backoff
	onConn  func(ConnEvent)
}

// ClientOption customizes a Client.
type ClientOption func(*Client)

// WithHTTPClient sets the HTTP client. It must not have a body timeout.
func WithHTTPClient(c *http.Client) ClientOption {
	return func(cl *Client) { cl.http = c }
}

// WithConnHook is called on every connect, disconnect and retry.
func WithConnHook(fn func(ConnEvent)) ClientOption {
	return func(cl *Client) { cl.onConn = fn }
}

// NewClient creates a client for the stream at url.
func NewClient(url string, backoff presence.Backoff, opts ...ClientOption) *Client {
	c := &Client{
		url:     url,
		http:    &http.Client{},
		backoff: backoff,
		onConn:  func(ConnEvent) {},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Watch calls fn for each snapshot until ctx is done or reconnecting
// gives up.
func (c *Client) Watch(ctx context.Context, fn func(*presence.Snapshot)) error {
	attempt := 0
	for {
		err := c.stream(ctx, func() {
			attempt = 0
			c.onConn(ConnEvent{Connected: true})
		}, fn)
		if ctx.Err() != nil {
			return ctx.Err()
		}

		attempt++
		delay, ok := c.backoff.Delay(attempt)
		if !ok {
			c.onConn(ConnEvent{Attempt: attempt, Err: err})
			return ErrGaveUp
		}
		c.onConn(ConnEvent{Attempt: attempt, Delay: delay, Err: err})

		t := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
		}
	}
}

func (c *Client) stream(ctx context.Context, opened func(), fn func(*presence.Snapshot)) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "text/event-stream")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.Contains(ct, "text/event-stream") {
		return fmt.Errorf("unexpected content type %q", ct)
	}
	opened()

	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
	var data []string

	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case strings.HasPrefix(line, ":"):
			// comment / heartbeat
		case strings.HasPrefix(line, "data:"):
			data = append(data, strings.TrimPrefix(strings.TrimPrefix(line, "data:"), " "))
		case line == "" && len(data) > 0:
			if s, err := decodeMessage(strings.Join(data, "\n")); err == nil {
				fn(s)
			}
			data = nil
		}
	}
	if err := scanner.Err(); err != nil {
		return err
	}
	return errors.New("stream closed by server")
}

func decodeMessage(data string) (*presence.Snapshot, error) {
	var env struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal([]byte(data), &env); err != nil {
		return nil, err
	}
	if !env.Success {
		return nil, errors.New("unsuccessful envelope")
	}
	return presence.ParseSnapshot(env.Data)
}
