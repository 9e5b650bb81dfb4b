// Profilehub - Personal Link Hub with Live Presence Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/profilehub

/*
Package presence mirrors a user's live presence from an upstream
presence-relay socket (Lanyard protocol).

# Components

  - Feed: owns the single upstream websocket. It waits for Hello, starts the
    heartbeat, subscribes to the configured subject and turns INIT_STATE and
    PRESENCE_UPDATE events into Snapshot values.
  - Cache: the last snapshot received, or nil before the first event.
  - Transition: the connection state machine as a pure function from
    (ConnStatus, Event) to (ConnStatus, []Effect). Feed.Run executes effects.
  - ExponentialBackoff / LinearBackoff: the feed's reconnect curve and the
    browser consumer's curve, kept as separate policies.

# Wire Protocol

	<- {"op":1,"d":{"heartbeat_interval":30000}}                  Hello
	-> {"op":2,"d":{"subscribe_to_id":"750800056453693472"}}     Subscribe
	-> {"op":3}                                                   Heartbeat
	<- {"op":0,"t":"INIT_STATE"|"PRESENCE_UPDATE","d":{...}}      Event

Other op codes are ignored.

# Failure Handling

Socket errors are logged and the feed waits for the close that follows.
Each close schedules a reconnect with delay min(base*2^attempt, ceiling);
a successful open resets the attempt counter. After MaxAttempts failed
reconnects Run returns ErrRetriesExhausted and the cache keeps its last
value. Malformed frames are dropped.
*/
package presence
