// Profilehub - Personal Link Hub with Live Presence Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/profilehub

package api

import (
	"math"
	"net/http"
)

// ViewsResponse is the body of the view counter endpoints.
type ViewsResponse struct {
	Views   int64  `json:"views"`
	Message string `json:"message,omitempty"`
}

// maxViewCount is the largest integer a JSON number holds exactly.
const maxViewCount = 1<<53 - 1

// Views returns the current count.
func (h *Handler) Views(w http.ResponseWriter, r *http.Request) {
	n, err := h.views.Count(r.Context())
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, "Internal server error", "Failed to read view count", err)
		return
	}
	respondJSON(w, http.StatusOK, ViewsResponse{Views: n})
}

// IncrementViews adds one view.
func (h *Handler) IncrementViews(w http.ResponseWriter, r *http.Request) {
	n, err := h.views.Increment(r.Context())
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, "Internal server error", "Failed to increment view count", err)
		return
	}
	respondJSON(w, http.StatusOK, ViewsResponse{
		Views:   n,
		Message: "View count incremented successfully",
	})
}

// SetViews replaces the count with body.views, which must be a
// non-negative integral JSON number.
func (h *Handler) SetViews(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Views any `json:"views"`
	}
	if err := decodeJSON(w, r, &body); err != nil {
		respondInvalidViews(w, r)
		return
	}

	f, ok := body.Views.(float64)
	if !ok || f < 0 || f != math.Trunc(f) || f > maxViewCount {
		respondInvalidViews(w, r)
		return
	}

	if err := h.views.SetCount(r.Context(), int64(f)); err != nil {
		respondError(w, r, http.StatusInternalServerError, "Internal server error", "Failed to update view count", err)
		return
	}
	respondJSON(w, http.StatusOK, ViewsResponse{
		Views:   int64(f),
		Message: "View count updated successfully",
	})
}

func respondInvalidViews(w http.ResponseWriter, r *http.Request) {
	respondError(w, r, http.StatusBadRequest, "Invalid view count", "View count must be a non-negative number", nil)
}
