// Profilehub - Personal Link Hub with Live Presence Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/profilehub

package bot

import (
	"time"

	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
)

// limiterIdle is how long an unused per-user limiter is kept.
const limiterIdle = 10 * time.Minute

// Throttle limits how fast a single user can issue commands. Limiters
// live in a go-cache so idle users are forgotten.
type Throttle struct {
	every    time.Duration
	burst    int
	limiters *cache.Cache
}

// NewThrottle allows one command per every with the given burst. It
// returns nil, which allows everything, when every is not positive.
func NewThrottle(every time.Duration, burst int) *Throttle {
	if every <= 0 {
		return nil
	}
	if burst < 1 {
		burst = 1
	}
	return &Throttle{
		every:    every,
		burst:    burst,
		limiters: cache.New(limiterIdle, limiterIdle),
	}
}

// Allow reports whether userID may run a command now.
func (t *Throttle) Allow(userID string) bool {
	if t == nil {
		return true
	}
	return t.limiter(userID).Allow()
}

func (t *Throttle) limiter(userID string) *rate.Limiter {
	if v, ok := t.limiters.Get(userID); ok {
		l := v.(*rate.Limiter)
		t.limiters.Set(userID, l, cache.DefaultExpiration)
		return l
	}
	l := rate.NewLimiter(rate.Every(t.every), t.burst)
	if err := t.limiters.Add(userID, l, cache.DefaultExpiration); err != nil {
		// Lost the race; use the stored one.
		if v, ok := t.limiters.Get(userID); ok {
			return v.(*rate.Limiter)
		}
	}
	return l
}
