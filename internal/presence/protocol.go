// Profilehub - Personal Link Hub with Live Presence Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/profilehub

package presence

import (
	"fmt"
	"math"
	"time"

	"github.com/goccy/go-json"
)

// Upstream op codes.
const (
	OpEvent     = 0
	OpHello     = 1
	OpSubscribe = 2
	OpHeartbeat = 3
)

// Event names carried by OpEvent frames.
const (
	EventInitState      = "INIT_STATE"
	EventPresenceUpdate = "PRESENCE_UPDATE"
)

// Frame is an upstream message.
type Frame struct {
	Op int             `json:"op"`
	T  string          `json:"t,omitempty"`
	D  json.RawMessage `json:"d,omitempty"`
}

type helloPayload struct {
	HeartbeatInterval *int64 `json:"heartbeat_interval"`
}

type subscribePayload struct {
	SubscribeToID string `json:"subscribe_to_id"`
}

func decodeFrame(b []byte) (Frame, error) {
	var f Frame
	if err := json.Unmarshal(b, &f); err != nil {
		return Frame{}, fmt.Errorf("%w: %v", ErrMalformedFrame, err)
	}
	return f, nil
}

func parseHello(d json.RawMessage) (time.Duration, error) {
	var p helloPayload
	if err := json.Unmarshal(d, &p); err != nil {
		return 0, fmt.Errorf("%w: hello: %v", ErrMalformedFrame, err)
	}
	if p.HeartbeatInterval == nil || *p.HeartbeatInterval <= 0 {
		return 0, fmt.Errorf("%w: hello without heartbeat_interval", ErrMalformedFrame)
	}
	if *p.HeartbeatInterval > math.MaxInt64/int64(time.Millisecond) {
		return 0, fmt.Errorf("%w: heartbeat_interval %d out of range", ErrMalformedFrame, *p.HeartbeatInterval)
	}
	return time.Duration(*p.HeartbeatInterval) * time.Millisecond, nil
}

func encodeHeartbeat() ([]byte, error) {
	return json.Marshal(Frame{Op: OpHeartbeat})
}

func encodeSubscribe(subjectID string) ([]byte, error) {
	d, err := json.Marshal(subscribePayload{SubscribeToID: subjectID})
	if err != nil {
		return nil, err
	}
	return json.Marshal(Frame{Op: OpSubscribe, D: d})
}
