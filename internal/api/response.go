// Profilehub - Personal Link Hub with Live Presence Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/profilehub

package api

import (
	"net/http"

	"github.com/goccy/go-json"

	"github.com/tomtom215/profilehub/internal/logging"
	"github.com/tomtom215/profilehub/internal/validation"
)

// ErrorResponse is the generic error body.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// StatusErrorResponse is the error body of the presence endpoints.
type StatusErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Message string `json:"message"`
}

// respondJSON sends v as JSON with the given status.
func respondJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		logging.Error().Err(err).Msg("Failed to marshal JSON response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	respondRawJSON(w, status, data)
}

// respondRawJSON sends pre-encoded JSON.
func respondRawJSON(w http.ResponseWriter, status int, data []byte) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		logging.Debug().Err(err).Msg("Failed to write JSON response")
	}
}

// respondError sends an {error, message} body. A non-nil err is logged
// against the request but never returned to the client.
func respondError(w http.ResponseWriter, r *http.Request, status int, errMsg, message string, err error) {
	if err != nil {
		logging.Ctx(r.Context()).Error().
			Err(err).
			Str("path", logging.Sanitize(r.URL.Path)).
			Int("status", status).
			Msg("API error")
	}
	respondJSON(w, status, ErrorResponse{Error: errMsg, Message: message})
}

// respondValidation converts a validation failure into a 400.
func respondValidation(w http.ResponseWriter, verr *validation.RequestValidationError) {
	apiErr := verr.ToAPIError()
	respondJSON(w, http.StatusBadRequest, map[string]any{
		"error":   "Validation failed",
		"message": apiErr.Message,
		"details": apiErr.Details,
	})
}

// decodeJSON decodes a bounded request body into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	return json.NewDecoder(r.Body).Decode(v)
}

const maxJSONBody = 64 << 10
