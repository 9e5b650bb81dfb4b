// Profilehub - Personal Link Hub with Live Presence Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/profilehub

package auth

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/profilehub/internal/logging"
)

type contextKey string

const sessionContextKey contextKey = "admin_session"

// SessionMiddlewareConfig holds configuration for the session middleware.
type SessionMiddlewareConfig struct {
	// CookieName is the name of the session cookie.
	CookieName string

	// SessionTTL is the session time-to-live.
	SessionTTL time.Duration

	// SlidingSession extends the expiry on each authenticated request.
	SlidingSession bool

	CookiePath     string
	CookieSecure   bool
	CookieSameSite http.SameSite
}

// DefaultSessionMiddlewareConfig returns sensible defaults.
func DefaultSessionMiddlewareConfig() *SessionMiddlewareConfig {
	return &SessionMiddlewareConfig{
		CookieName:     "profilehub_session",
		SessionTTL:     24 * time.Hour,
		SlidingSession: true,
		CookiePath:     "/",
		CookieSecure:   true,
		CookieSameSite: http.SameSiteLaxMode,
	}
}

// SessionMiddleware provides cookie session authentication.
type SessionMiddleware struct {
	store  SessionStore
	config *SessionMiddlewareConfig
}

// NewSessionMiddleware creates a new session middleware.
func NewSessionMiddleware(store SessionStore, config *SessionMiddlewareConfig) *SessionMiddleware {
	if config == nil {
		config = DefaultSessionMiddlewareConfig()
	}
	return &SessionMiddleware{
		store:  store,
		config: config,
	}
}

// SessionFromContext returns the session attached by Authenticate, or nil.
func SessionFromContext(ctx context.Context) *Session {
	s, _ := ctx.Value(sessionContextKey).(*Session)
	return s
}

// IsAdmin reports whether the request context carries an admin session.
func IsAdmin(ctx context.Context) bool {
	s := SessionFromContext(ctx)
	return s != nil && s.IsAdmin
}

// Authenticate resolves the session cookie and attaches the session to the
// request context. Requests without a valid session pass through untouched.
func (m *SessionMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sessionID := m.extractSessionID(r)
		if sessionID == "" {
			next.ServeHTTP(w, r)
			return
		}

		session, err := m.store.Get(r.Context(), sessionID)
		if err != nil {
			if !errors.Is(err, ErrSessionNotFound) && !errors.Is(err, ErrSessionExpired) {
				logging.Ctx(r.Context()).Error().Err(err).Msg("Session lookup error")
			}
			next.ServeHTTP(w, r)
			return
		}

		if m.config.SlidingSession {
			newExpiry := time.Now().Add(m.config.SessionTTL)
			if err := m.store.Touch(r.Context(), sessionID, newExpiry); err != nil {
				logging.Ctx(r.Context()).Warn().Err(err).Msg("Failed to touch session")
			} else {
				session.ExpiresAt = newExpiry
			}
		}

		ctx := context.WithValue(r.Context(), sessionContextKey, session)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAdmin rejects requests without an admin session with 401.
func (m *SessionMiddleware) RequireAdmin(next http.Handler) http.Handler {
	return m.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !IsAdmin(r.Context()) {
			writeUnauthorized(w)
			return
		}
		next.ServeHTTP(w, r)
	}))
}

func writeUnauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	//nolint:errcheck // response already committed
	json.NewEncoder(w).Encode(map[string]string{
		"error":   "Unauthorized",
		"message": "Admin login required",
	})
}

func (m *SessionMiddleware) extractSessionID(r *http.Request) string {
	cookie, err := r.Cookie(m.config.CookieName)
	if err == nil && cookie.Value != "" {
		return cookie.Value
	}
	return ""
}

// SetSessionCookie sets the session cookie on the response.
func (m *SessionMiddleware) SetSessionCookie(w http.ResponseWriter, sessionID string) {
	http.SetCookie(w, &http.Cookie{
		Name:     m.config.CookieName,
		Value:    sessionID,
		Path:     m.config.CookiePath,
		MaxAge:   int(m.config.SessionTTL.Seconds()),
		Secure:   m.config.CookieSecure,
		HttpOnly: true,
		SameSite: m.config.CookieSameSite,
	})
}

// ClearSessionCookie expires the session cookie.
func (m *SessionMiddleware) ClearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     m.config.CookieName,
		Value:    "",
		Path:     m.config.CookiePath,
		MaxAge:   -1,
		Secure:   m.config.CookieSecure,
		HttpOnly: true,
		SameSite: m.config.CookieSameSite,
	})
}

// Login creates a fresh admin session and sets its cookie. Any session the
// request already carried is deleted first so a pre-set ID cannot be
// promoted to admin.
func (m *SessionMiddleware) Login(w http.ResponseWriter, r *http.Request) (*Session, error) {
	if old := m.extractSessionID(r); old != "" {
		//nolint:errcheck // best effort
		m.store.Delete(r.Context(), old)
	}

	session := NewSession(m.config.SessionTTL)
	if err := m.store.Create(r.Context(), session); err != nil {
		return nil, err
	}
	m.SetSessionCookie(w, session.ID)
	return session, nil
}

// Logout deletes the request's session, if any, and clears the cookie.
func (m *SessionMiddleware) Logout(w http.ResponseWriter, r *http.Request) error {
	if id := m.extractSessionID(r); id != "" {
		if err := m.store.Delete(r.Context(), id); err != nil {
			return err
		}
	}
	m.ClearSessionCookie(w)
	return nil
}
