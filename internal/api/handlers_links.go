// Profilehub - Personal Link Hub with Live Presence Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/profilehub

package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/profilehub/internal/store"
	"github.com/tomtom215/profilehub/internal/validation"
)

// LinksResponse is the body of the link list endpoints.
type LinksResponse struct {
	Links []store.Link `json:"links"`
}

// Links lists the public social links in display order.
func (h *Handler) Links(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, LinksResponse{Links: h.links.List()})
}

// decodeLink reads and validates a link body. It writes the error
// response itself and reports whether the caller may continue.
func decodeLink(w http.ResponseWriter, r *http.Request) (store.Link, bool) {
	var link store.Link
	if err := decodeJSON(w, r, &link); err != nil {
		respondError(w, r, http.StatusBadRequest, "Invalid request body", "Body must be a JSON link object", nil)
		return link, false
	}
	if verr := validation.ValidateStruct(&link); verr != nil {
		respondValidation(w, verr)
		return link, false
	}
	return link, true
}

// CreateLink adds a link.
func (h *Handler) CreateLink(w http.ResponseWriter, r *http.Request) {
	link, ok := decodeLink(w, r)
	if !ok {
		return
	}
	created, err := h.links.Add(link)
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, "Internal server error", "Failed to save link", err)
		return
	}
	respondJSON(w, http.StatusCreated, created)
}

// UpdateLink replaces the link named by {id}.
func (h *Handler) UpdateLink(w http.ResponseWriter, r *http.Request) {
	link, ok := decodeLink(w, r)
	if !ok {
		return
	}
	updated, err := h.links.Update(chi.URLParam(r, "id"), link)
	if errors.Is(err, store.ErrNotFound) {
		respondError(w, r, http.StatusNotFound, "Not found", "Link not found", nil)
		return
	}
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, "Internal server error", "Failed to save link", err)
		return
	}
	respondJSON(w, http.StatusOK, updated)
}

// DeleteLink removes the link named by {id}.
func (h *Handler) DeleteLink(w http.ResponseWriter, r *http.Request) {
	err := h.links.Delete(chi.URLParam(r, "id"))
	if errors.Is(err, store.ErrNotFound) {
		respondError(w, r, http.StatusNotFound, "Not found", "Link not found", nil)
		return
	}
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, "Internal server error", "Failed to delete link", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
