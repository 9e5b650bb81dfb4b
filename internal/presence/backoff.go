// Profilehub - Personal Link Hub with Live Presence Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/profilehub

package presence

import "time"

// Backoff computes reconnect delays. Attempt numbering starts at 1.
type Backoff interface {
	// Delay returns the wait before the given attempt and whether the
	// attempt is allowed at all.
	Delay(attempt int) (time.Duration, bool)
}

// ExponentialBackoff is the feed client's policy:
// delay = min(Base * 2^attempt, Ceiling), at most MaxAttempts attempts.
type ExponentialBackoff struct {
	Base        time.Duration
	Ceiling     time.Duration
	MaxAttempts int
}

// DefaultFeedBackoff returns 2s, 4s, 8s, 16s, 30s and then gives up.
func DefaultFeedBackoff() ExponentialBackoff {
	return ExponentialBackoff{Base: time.Second, Ceiling: 30 * time.Second, MaxAttempts: 5}
}

// Delay implements Backoff.
func (b ExponentialBackoff) Delay(attempt int) (time.Duration, bool) {
	if attempt < 1 || attempt > b.MaxAttempts {
		return 0, false
	}
	d := b.Base
	for i := 0; i < attempt; i++ {
		d *= 2
		if d >= b.Ceiling {
			return b.Ceiling, true
		}
	}
	return d, true
}

// LinearBackoff is the browser-side policy: delay = min(Step * attempt, Ceiling).
type LinearBackoff struct {
	Step        time.Duration
	Ceiling     time.Duration
	MaxAttempts int
}

// DefaultBrowserBackoff returns 1s, 2s, 3s, 4s, 5s and then gives up.
func DefaultBrowserBackoff() LinearBackoff {
	return LinearBackoff{Step: time.Second, Ceiling: 10 * time.Second, MaxAttempts: 5}
}

// Delay implements Backoff.
func (b LinearBackoff) Delay(attempt int) (time.Duration, bool) {
	if attempt < 1 || attempt > b.MaxAttempts {
		return 0, false
	}
	d := b.Step * time.Duration(attempt)
	if d > b.Ceiling {
		d = b.Ceiling
	}
	return d, true
}
