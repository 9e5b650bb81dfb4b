// Profilehub - Personal Link Hub with Live Presence Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/profilehub

/*
Package auth guards the admin panel.

There is a single administrator, identified by a shared password. A
successful login creates an opaque session that is carried in an HttpOnly
cookie; the session records only whether its holder is an admin.

# Components

  - Session and SessionStore: the session record and its storage. Two
    backends exist: MemorySessionStore (default) and BadgerSessionStore,
    which survives restarts and lets badger expire entries by TTL.
  - SessionMiddleware: resolves the cookie into a Session on each request
    and gates admin routes with RequireAdmin.
  - PasswordVerifier: bcrypt comparison against a configured hash (or a
    hash derived at startup from a plain password).
  - LockoutManager: counts failed logins per client IP in an expiring
    go-cache and refuses further attempts once the limit is reached.

# Example

	store, _ := auth.NewSessionStore(auth.SessionStoreMemory, nil)
	sessions := auth.NewSessionMiddleware(store, auth.DefaultSessionMiddlewareConfig())

	r.Group(func(r chi.Router) {
	    r.Use(sessions.RequireAdmin)
	    r.Get("/api/admin/links", h.AdminLinks)
	})
*/
package auth
