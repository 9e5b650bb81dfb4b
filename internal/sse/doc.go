// Profilehub - Personal Link Hub with Live Presence Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/profilehub

/*
Package sse fans presence snapshots out to Server-Sent Events streams.

Each connected stream is a Subscriber with a bounded message queue. The hub
never writes to a network connection itself: Broadcast encodes a snapshot
once and queues it for every subscriber, and the HTTP handler runs Pump,
which drains the queue and sends a ": heartbeat" comment every
HeartbeatInterval. A subscriber is removed when a write fails, when its
queue is full at broadcast time, or when its request context ends.

Message format:

	data: {"success":true,"data":{"discord_status":"online",...}}\n\n

Usage:

	sub, err := hub.Register()
	if err != nil {
	    return
	}
	_ = hub.Pump(r.Context(), sub, writer)
*/
package sse
