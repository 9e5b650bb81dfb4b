// Profilehub - Personal Link Hub with Live Presence Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/profilehub

// Package validation provides struct validation using go-playground/validator v10.
//
// A single validator instance is built once and shared; it caches struct
// metadata so repeated validation of request types stays cheap.
//
// # Custom Tags
//
//   - dottedquad: IPv4 address as four 0-255 groups of one to three digits.
//     Used by the whitelist admin API and the Discord bot so both accept the
//     same inputs.
//
// # Usage
//
//	type addIPRequest struct {
//	    IP string `json:"ip" validate:"required,dottedquad"`
//	}
//
//	if verr := validation.ValidateStruct(&req); verr != nil {
//	    apiErr := verr.ToAPIError()
//	    writeError(w, http.StatusBadRequest, apiErr.Message)
//	    return
//	}
package validation
