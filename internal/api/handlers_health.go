// Profilehub - Personal Link Hub with Live Presence Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/profilehub

package api

import (
	"net/http"
	"time"
)

// isoMillis matches JavaScript's Date.prototype.toISOString.
const isoMillis = "2006-01-02T15:04:05.000Z07:00"

// HealthResponse is the body of GET /api/health.
type HealthResponse struct {
	Status           string `json:"status"`
	Timestamp        string `json:"timestamp"`
	Views            int64  `json:"views"`
	DiscordConnected bool   `json:"discordConnected"`
}

// Health reports liveness. It always answers 200 while the process runs;
// discordConnected says whether the presence socket is open.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	n, err := h.views.Count(r.Context())
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, "Internal server error", "Failed to read view count", err)
		return
	}
	respondJSON(w, http.StatusOK, HealthResponse{
		Status:           "OK",
		Timestamp:        time.Now().UTC().Format(isoMillis),
		Views:            n,
		DiscordConnected: h.feed.Connected(),
	})
}
