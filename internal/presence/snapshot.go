// Profilehub - Personal Link Hub with Live Presence Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/profilehub

package presence

import (
	"fmt"

	"github.com/goccy/go-json"
)

// Status is the subject's online state as reported upstream.
type Status string

const (
	StatusOnline  Status = "online"
	StatusIdle    Status = "idle"
	StatusDND     Status = "dnd"
	StatusOffline Status = "offline"
)

// Valid reports whether s is one of the four known states.
func (s Status) Valid() bool {
	switch s {
	case StatusOnline, StatusIdle, StatusDND, StatusOffline:
		return true
	}
	return false
}

// ActivityTypeCustom marks a custom status whose State is the display text.
const ActivityTypeCustom = 4

// User is the subset of the upstream user object that is relayed.
// GlobalName and Avatar are nullable upstream and stay null on the wire.
type User struct {
	Username   string  `json:"username"`
	GlobalName *string `json:"global_name"`
	Avatar     *string `json:"avatar"`
	ID         string  `json:"id"`
}

// Activity is one entry of the upstream activity list. Fields beyond Type and
// State are kept in the raw form and re-emitted unchanged.
type Activity struct {
	Type  int
	State *string

	raw json.RawMessage
}

type activityFields struct {
	Type  int     `json:"type"`
	State *string `json:"state,omitempty"`
}

// UnmarshalJSON decodes type and state and keeps the original bytes.
func (a *Activity) UnmarshalJSON(b []byte) error {
	var f activityFields
	if err := json.Unmarshal(b, &f); err != nil {
		return err
	}
	a.Type = f.Type
	a.State = f.State
	a.raw = append(json.RawMessage(nil), b...)
	return nil
}

// MarshalJSON emits the upstream object when one was decoded.
func (a Activity) MarshalJSON() ([]byte, error) {
	if len(a.raw) > 0 {
		return a.raw, nil
	}
	return json.Marshal(activityFields{Type: a.Type, State: a.State})
}

// Snapshot is the complete presence state of the subject. A Snapshot is
// never modified after construction; each upstream event replaces it.
type Snapshot struct {
	Status     Status     `json:"discord_status"`
	User       User       `json:"discord_user"`
	Activities []Activity `json:"activities"`
}

// CustomStatus returns the text of the first custom-status activity.
func (s *Snapshot) CustomStatus() (string, bool) {
	for _, a := range s.Activities {
		if a.Type == ActivityTypeCustom && a.State != nil {
			return *a.State, true
		}
	}
	return "", false
}

func (s *Snapshot) clone() *Snapshot {
	c := *s
	c.Activities = append(make([]Activity, 0, len(s.Activities)), s.Activities...)
	return &c
}

// snapshotPayload mirrors the upstream event body. Pointers distinguish
// absent fields from zero values.
type snapshotPayload struct {
	Status     *Status    `json:"discord_status"`
	User       *User      `json:"discord_user"`
	Activities []Activity `json:"activities"`
}

// ParseSnapshot normalizes an upstream event payload. Missing activities
// become an empty list; an unknown status or missing user is malformed.
func ParseSnapshot(d []byte) (*Snapshot, error) {
	var p snapshotPayload
	if err := json.Unmarshal(d, &p); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedFrame, err)
	}
	if p.Status == nil || !p.Status.Valid() {
		return nil, fmt.Errorf("%w: invalid discord_status", ErrMalformedFrame)
	}
	if p.User == nil {
		return nil, fmt.Errorf("%w: missing discord_user", ErrMalformedFrame)
	}
	if p.Activities == nil {
		p.Activities = []Activity{}
	}
	return &Snapshot{
		Status:     *p.Status,
		User:       *p.User,
		Activities: p.Activities,
	}, nil
}

// Envelope is the body served by the polling endpoint and each SSE message.
type Envelope struct {
	Success bool      `json:"success"`
	Data    *Snapshot `json:"data"`
}

// MarshalEnvelope encodes s as a success envelope.
func MarshalEnvelope(s *Snapshot) ([]byte, error) {
	return json.Marshal(Envelope{Success: true, Data: s})
}
