// Profilehub - Personal Link Hub with Live Presence Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/profilehub

package api

import (
	"context"

	"github.com/tomtom215/profilehub/internal/auth"
	"github.com/tomtom215/profilehub/internal/presence"
	"github.com/tomtom215/profilehub/internal/sse"
	"github.com/tomtom215/profilehub/internal/store"
)

// SnapshotReader is the read side of the presence cache.
type SnapshotReader interface {
	Get() *presence.Snapshot
}

// FeedStatus reports upstream connectivity.
type FeedStatus interface {
	Connected() bool
}

// StreamHub hands event-stream connections to the SSE fan-out.
type StreamHub interface {
	Register() (*sse.Subscriber, error)
	Pump(ctx context.Context, sub *sse.Subscriber, w sse.StreamWriter) error
}

// Handler holds the collaborators of every HTTP handler.
type Handler struct {
	views     store.ViewCounter
	cache     SnapshotReader
	feed      FeedStatus
	hub       StreamHub
	whitelist *store.WhitelistStore
	links     *store.LinkStore
	uploads   *store.UploadStore
	sessions  *auth.SessionMiddleware
	password  *auth.PasswordVerifier
	lockout   *auth.LockoutManager
}

// HandlerDeps lists the collaborators for NewHandler. Admin fields may be
// nil when the admin panel is not configured; its routes are then absent.
type HandlerDeps struct {
	Views     store.ViewCounter
	Cache     SnapshotReader
	Feed      FeedStatus
	Hub       StreamHub
	Whitelist *store.WhitelistStore
	Links     *store.LinkStore
	Uploads   *store.UploadStore
	Sessions  *auth.SessionMiddleware
	Password  *auth.PasswordVerifier
	Lockout   *auth.LockoutManager
}

// NewHandler creates a handler from its collaborators.
func NewHandler(d HandlerDeps) *Handler {
	return &Handler{
		views:     d.Views,
		cache:     d.Cache,
		feed:      d.Feed,
		hub:       d.Hub,
		whitelist: d.Whitelist,
		links:     d.Links,
		uploads:   d.Uploads,
		sessions:  d.Sessions,
		password:  d.Password,
		lockout:   d.Lockout,
	}
}

// adminEnabled reports whether the admin routes can be served.
func (h *Handler) adminEnabled() bool {
	return h.sessions != nil && h.password != nil
}
