// Profilehub - Personal Link Hub with Live Presence Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/profilehub

package presence

import "time"

// State is the feed connection state.
type State int

const (
	StateDisconnected State = iota
	StateConnecting
	StateAwaitingHello
	StateSubscribed
)

func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateAwaitingHello:
		return "awaiting_hello"
	case StateSubscribed:
		return "subscribed"
	default:
		return "unknown"
	}
}

// Connected reports whether a socket is open in this state.
func (s State) Connected() bool {
	return s == StateAwaitingHello || s == StateSubscribed
}

// ConnStatus is the full feed state: connection state plus retry bookkeeping.
type ConnStatus struct {
	State     State
	Attempt   int
	NextRetry time.Time
	Exhausted bool
}

// EventKind enumerates inputs to the state machine.
type EventKind int

const (
	EventConnect EventKind = iota
	EventOpen
	EventHello
	EventHeartbeatDue
	EventError
	EventClosed
	EventRetryDue
)

func (k EventKind) String() string {
	switch k {
	case EventConnect:
		return "connect"
	case EventOpen:
		return "open"
	case EventHello:
		return "hello"
	case EventHeartbeatDue:
		return "heartbeat_due"
	case EventError:
		return "error"
	case EventClosed:
		return "closed"
	case EventRetryDue:
		return "retry_due"
	default:
		return "unknown"
	}
}

// Event is a state machine input.
type Event struct {
	Kind EventKind
	At   time.Time

	// HeartbeatInterval is set for EventHello.
	HeartbeatInterval time.Duration
}

// EffectKind enumerates actions the feed loop performs after a transition.
type EffectKind int

const (
	EffectDial EffectKind = iota
	EffectStartHeartbeat
	EffectStopHeartbeat
	EffectSendSubscribe
	EffectSendHeartbeat
	EffectScheduleRetry
	EffectGiveUp
)

func (k EffectKind) String() string {
	switch k {
	case EffectDial:
		return "dial"
	case EffectStartHeartbeat:
		return "start_heartbeat"
	case EffectStopHeartbeat:
		return "stop_heartbeat"
	case EffectSendSubscribe:
		return "send_subscribe"
	case EffectSendHeartbeat:
		return "send_heartbeat"
	case EffectScheduleRetry:
		return "schedule_retry"
	case EffectGiveUp:
		return "give_up"
	default:
		return "unknown"
	}
}

// Effect is an action requested by Transition.
type Effect struct {
	Kind EffectKind

	// Interval is set for EffectStartHeartbeat.
	Interval time.Duration
	// Delay and Attempt are set for EffectScheduleRetry.
	Delay   time.Duration
	Attempt int
}

// Transition is the feed state machine. It has no side effects; the caller
// executes the returned effects in order.
func Transition(s ConnStatus, ev Event, policy Backoff) (ConnStatus, []Effect) {
	switch ev.Kind {
	case EventConnect:
		if s.State != StateDisconnected || s.Exhausted {
			return s, nil
		}
		s.State = StateConnecting
		return s, []Effect{{Kind: EffectDial}}

	case EventOpen:
		if s.State != StateConnecting {
			return s, nil
		}
		s.State = StateAwaitingHello
		s.Attempt = 0
		s.NextRetry = time.Time{}
		return s, nil

	case EventHello:
		if !s.State.Connected() {
			return s, nil
		}
		// A repeated Hello restarts the heartbeat at the new interval.
		s.State = StateSubscribed
		return s, []Effect{
			{Kind: EffectStartHeartbeat, Interval: ev.HeartbeatInterval},
			{Kind: EffectSendSubscribe},
		}

	case EventHeartbeatDue:
		if s.State != StateSubscribed {
			return s, nil
		}
		return s, []Effect{{Kind: EffectSendHeartbeat}}

	case EventClosed:
		if s.State == StateDisconnected {
			return s, nil
		}
		var effects []Effect
		if s.State == StateSubscribed {
			effects = append(effects, Effect{Kind: EffectStopHeartbeat})
		}
		s.State = StateDisconnected
		return scheduleRetry(s, ev.At, policy, effects)

	case EventRetryDue:
		if s.State != StateDisconnected || s.Exhausted || s.NextRetry.IsZero() {
			return s, nil
		}
		s.State = StateConnecting
		s.NextRetry = time.Time{}
		return s, []Effect{{Kind: EffectDial}}
	}

	// EventError: wait for the close that follows.
	return s, nil
}

func scheduleRetry(s ConnStatus, at time.Time, policy Backoff, effects []Effect) (ConnStatus, []Effect) {
	delay, ok := policy.Delay(s.Attempt + 1)
	if !ok {
		s.Exhausted = true
		s.NextRetry = time.Time{}
		return s, append(effects, Effect{Kind: EffectGiveUp})
	}
	s.Attempt++
	s.NextRetry = at.Add(delay)
	return s, append(effects, Effect{Kind: EffectScheduleRetry, Delay: delay, Attempt: s.Attempt})
}
