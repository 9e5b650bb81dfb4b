// Profilehub - Personal Link Hub with Live Presence Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/profilehub

package api

import (
	"math"
	"net/http"
	"strconv"

	"github.com/tomtom215/profilehub/internal/auth"
	"github.com/tomtom215/profilehub/internal/logging"
	"github.com/tomtom215/profilehub/internal/metrics"
)

// LoginRequest is the body of POST /api/admin/login.
type LoginRequest struct {
	Password string `json:"password" validate:"required,max=256"`
}

// SessionResponse reports the caller's admin state.
type SessionResponse struct {
	Success bool `json:"success"`
	IsAdmin bool `json:"isAdmin"`
}

// Login checks the admin password and starts a session. Failures are
// counted per client IP; a locked IP gets 429 until the lockout ends.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	ip := clientIP(r)
	log := logging.Ctx(r.Context())

	if locked, remaining := h.lockout.CheckLocked(ip); locked {
		metrics.AdminLoginsTotal.WithLabelValues("locked").Inc()
		w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(remaining.Seconds()))))
		respondJSON(w, http.StatusTooManyRequests, map[string]any{
			"error":      "Too many failed login attempts. Please try again later.",
			"retryAfter": int(math.Ceil(remaining.Seconds())),
		})
		return
	}

	var req LoginRequest
	if err := decodeJSON(w, r, &req); err != nil || req.Password == "" {
		respondError(w, r, http.StatusBadRequest, "Invalid request body", "Password is required", nil)
		return
	}

	if !h.password.Verify(req.Password) {
		metrics.AdminLoginsTotal.WithLabelValues("failure").Inc()
		locked, _ := h.lockout.RecordFailedAttempt(ip)
		log.Warn().Str("ip", logging.Sanitize(ip)).Bool("locked", locked).Msg("Admin login failed")
		respondError(w, r, http.StatusUnauthorized, "Invalid password", "The password is incorrect", nil)
		return
	}

	h.lockout.RecordSuccessfulLogin(ip)
	if _, err := h.sessions.Login(w, r); err != nil {
		respondError(w, r, http.StatusInternalServerError, "Internal server error", "Failed to create session", err)
		return
	}

	metrics.AdminLoginsTotal.WithLabelValues("success").Inc()
	log.Info().Str("ip", logging.Sanitize(ip)).Msg("Admin logged in")
	respondJSON(w, http.StatusOK, SessionResponse{Success: true, IsAdmin: true})
}

// Logout ends the caller's session.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Logout(w, r); err != nil {
		respondError(w, r, http.StatusInternalServerError, "Internal server error", "Failed to end session", err)
		return
	}
	respondJSON(w, http.StatusOK, SessionResponse{Success: true, IsAdmin: false})
}

// Session reports whether the caller holds an admin session. It runs
// behind SessionMiddleware.Authenticate.
func (h *Handler) Session(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, SessionResponse{Success: true, IsAdmin: auth.IsAdmin(r.Context())})
}
