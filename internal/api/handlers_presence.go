// Profilehub - Personal Link Hub with Live Presence Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/profilehub

package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/tomtom215/profilehub/internal/logging"
	"github.com/tomtom215/profilehub/internal/presence"
	"github.com/tomtom215/profilehub/internal/sse"
)

// DiscordStatus serves the cached snapshot, or 503 before the first one.
func (h *Handler) DiscordStatus(w http.ResponseWriter, r *http.Request) {
	snap := h.cache.Get()
	if snap == nil {
		respondJSON(w, http.StatusServiceUnavailable, StatusErrorResponse{
			Success: false,
			Error:   "Discord status not available yet",
			Message: "Please try again in a few seconds",
		})
		return
	}

	data, err := presence.MarshalEnvelope(snap)
	if err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("Failed to encode presence snapshot")
		respondJSON(w, http.StatusInternalServerError, StatusErrorResponse{
			Success: false,
			Error:   "Internal server error",
			Message: "Failed to fetch Discord status",
		})
		return
	}
	respondRawJSON(w, http.StatusOK, data)
}

// responseStream adapts a ResponseWriter to sse.StreamWriter.
type responseStream struct {
	w  http.ResponseWriter
	rc *http.ResponseController
}

func (s responseStream) Write(p []byte) (int, error) { return s.w.Write(p) }
func (s responseStream) Flush() error                { return s.rc.Flush() }

// DiscordStatusStream relays presence snapshots as server-sent events.
// The connection stays open until the client leaves or the hub shuts down.
func (h *Handler) DiscordStatusStream(w http.ResponseWriter, r *http.Request) {
	rc := http.NewResponseController(w)

	sub, err := h.hub.Register()
	if errors.Is(err, sse.ErrHubClosed) {
		respondJSON(w, http.StatusServiceUnavailable, StatusErrorResponse{
			Success: false,
			Error:   "Server shutting down",
			Message: "Please reconnect shortly",
		})
		return
	}
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, "Internal server error", "Something went wrong", err)
		return
	}

	// The server's WriteTimeout would otherwise end every stream.
	if err := rc.SetWriteDeadline(time.Time{}); err != nil && !errors.Is(err, http.ErrNotSupported) {
		logging.Ctx(r.Context()).Debug().Err(err).Msg("Failed to clear write deadline")
	}

	hdr := w.Header()
	hdr.Set("Content-Type", "text/event-stream")
	hdr.Set("Cache-Control", "no-cache")
	hdr.Set("Connection", "keep-alive")
	hdr.Set("Access-Control-Allow-Origin", "*")
	hdr.Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)

	stream := responseStream{w: w, rc: rc}
	if err := stream.Flush(); err != nil {
		logging.Ctx(r.Context()).Debug().Err(err).Msg("Event stream flush unsupported")
	}

	if err := h.hub.Pump(r.Context(), sub, stream); err != nil {
		logging.Ctx(r.Context()).Debug().Err(err).Str("subscriber", sub.ID()).Msg("SSE client dropped")
	}
}
