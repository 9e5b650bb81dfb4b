// Profilehub - Personal Link Hub with Live Presence Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/profilehub

package presence

import (
	"testing"
	"time"
)

func TestExponentialBackoff(t *testing.T) {
	b := DefaultFeedBackoff()
	want := []time.Duration{2 * time.Second, 4 * time.Second, 8 * time.Second, 16 * time.Second, 30 * time.Second}

	for i, w := range want {
		got, ok := b.Delay(i + 1)
		if !ok || got != w {
			t.Errorf("Delay(%d) = %v, %v; want %v", i+1, got, ok, w)
		}
	}
	if _, ok := b.Delay(6); ok {
		t.Error("Delay(6) allowed beyond MaxAttempts")
	}
	if _, ok := b.Delay(0); ok {
		t.Error("Delay(0) allowed")
	}
}

func TestExponentialBackoff_Formula(t *testing.T) {
	b := ExponentialBackoff{Base: 250 * time.Millisecond, Ceiling: 5 * time.Second, MaxAttempts: 10}
	for attempt := 1; attempt <= 10; attempt++ {
		want := 250 * time.Millisecond * time.Duration(1<<attempt)
		if want > 5*time.Second {
			want = 5 * time.Second
		}
		got, ok := b.Delay(attempt)
		if !ok || got != want {
			t.Errorf("Delay(%d) = %v, want %v", attempt, got, want)
		}
	}
}

func TestLinearBackoff(t *testing.T) {
	b := DefaultBrowserBackoff()
	for attempt := 1; attempt <= 5; attempt++ {
		got, ok := b.Delay(attempt)
		if !ok || got != time.Duration(attempt)*time.Second {
			t.Errorf("Delay(%d) = %v, %v", attempt, got, ok)
		}
	}
	if _, ok := b.Delay(6); ok {
		t.Error("Delay(6) allowed beyond MaxAttempts")
	}

	capped := LinearBackoff{Step: 4 * time.Second, Ceiling: 10 * time.Second, MaxAttempts: 5}
	if got, _ := capped.Delay(3); got != 10*time.Second {
		t.Errorf("capped Delay(3) = %v, want 10s", got)
	}
}
