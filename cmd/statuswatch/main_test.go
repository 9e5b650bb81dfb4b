// Profilehub - Personal Link Hub with Live Presence Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/profilehub

package main

import (
	"testing"
	"time"

	"github.com/tomtom215/profilehub/internal/presence"
)

func TestFormatSnapshot(t *testing.T) {
	now := time.Date(2026, 1, 2, 13, 14, 15, 0, time.UTC)

	tests := []struct {
		name    string
		payload string
		want    string
	}{
		{
			"global name and custom status",
			`{"discord_status":"online","discord_user":{"id":"1","username":"chavis","global_name":"Chavis","avatar":null},"activities":[{"type":0,"name":"Game"},{"type":4,"state":"coding"}]}`,
			"[13:14:15] Chavis is online: coding",
		},
		{
			"username fallback",
			`{"discord_status":"idle","discord_user":{"id":"1","username":"chavis","global_name":null,"avatar":null}}`,
			"[13:14:15] chavis is idle",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := presence.ParseSnapshot([]byte(tt.payload))
			if err != nil {
				t.Fatal(err)
			}
			if got := formatSnapshot(now, s); got != tt.want {
				t.Errorf("formatSnapshot() = %q, want %q", got, tt.want)
			}
		})
	}
}
