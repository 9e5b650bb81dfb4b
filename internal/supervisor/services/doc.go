// Profilehub - Personal Link Hub with Live Presence Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/profilehub

// Package services adapts profilehub components to suture.Service.
//
// Every wrapper takes a small interface instead of the concrete type so it
// can be tested with fakes, and implements fmt.Stringer so supervisor
// events name the service.
package services
