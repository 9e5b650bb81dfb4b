// Profilehub - Personal Link Hub with Live Presence Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/profilehub

package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/profilehub/internal/logging"
	"github.com/tomtom215/profilehub/internal/store"
	"github.com/tomtom215/profilehub/internal/validation"
)

// WhitelistRequest is the body of POST /api/admin/whitelist.
type WhitelistRequest struct {
	IP string `json:"ip" validate:"required,dottedquad"`
}

// Whitelist lists whitelisted IPs in insertion order.
func (h *Handler) Whitelist(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.whitelist.Load())
}

// AddWhitelistIP adds an IPv4 address to the whitelist.
func (h *Handler) AddWhitelistIP(w http.ResponseWriter, r *http.Request) {
	var req WhitelistRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, "Invalid request body", "Body must be {\"ip\": \"a.b.c.d\"}", nil)
		return
	}
	if verr := validation.ValidateStruct(&req); verr != nil {
		respondError(w, r, http.StatusBadRequest, "Invalid IP", "Geçersiz IP formatı.", nil)
		return
	}

	err := h.whitelist.Add(req.IP)
	if errors.Is(err, store.ErrExists) {
		respondError(w, r, http.StatusConflict, "Already whitelisted", "IP "+req.IP+" zaten whitelist'te.", nil)
		return
	}
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, "Internal server error", "IP eklenirken bir hata oluştu.", err)
		return
	}

	logging.Ctx(r.Context()).Info().Str("ip", req.IP).Str("source", "admin").Msg("IP whitelisted")
	respondJSON(w, http.StatusCreated, h.whitelist.Load())
}

// RemoveWhitelistIP removes {ip} from the whitelist.
func (h *Handler) RemoveWhitelistIP(w http.ResponseWriter, r *http.Request) {
	ip := chi.URLParam(r, "ip")
	if validation.ValidateVar(ip, validation.TagIPv4) != nil {
		respondError(w, r, http.StatusBadRequest, "Invalid IP", "Geçersiz IP formatı.", nil)
		return
	}

	err := h.whitelist.Remove(ip)
	if errors.Is(err, store.ErrNotFound) {
		respondError(w, r, http.StatusNotFound, "Not found", "IP "+ip+" whitelist'te bulunamadı.", nil)
		return
	}
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, "Internal server error", "IP çıkarılırken bir hata oluştu.", err)
		return
	}

	logging.Ctx(r.Context()).Info().Str("ip", ip).Str("source", "admin").Msg("IP removed from whitelist")
	respondJSON(w, http.StatusOK, h.whitelist.Load())
}
