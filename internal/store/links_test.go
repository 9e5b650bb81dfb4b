// Profilehub - Personal Link Hub with Live Presence Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/profilehub

package store

import (
	"errors"
	"path/filepath"
	"testing"
)

func TestLinkStore_CRUD(t *testing.T) {
	s := NewLinkStore(filepath.Join(t.TempDir(), "links.json"))

	if got := s.List(); len(got) != 0 {
		t.Fatalf("List() on missing file = %v", got)
	}

	gh, err := s.Add(Link{Title: "GitHub", URL: "https://github.com/x", Order: 2})
	if err != nil {
		t.Fatal(err)
	}
	if gh.ID == "" {
		t.Fatal("Add() did not assign an ID")
	}
	if _, err := s.Add(Link{Title: "Discord", URL: "https://discord.gg/x", Order: 1}); err != nil {
		t.Fatal(err)
	}

	list := s.List()
	if len(list) != 2 || list[0].Title != "Discord" || list[1].Title != "GitHub" {
		t.Fatalf("List() order = %+v", list)
	}

	updated, err := s.Update(gh.ID, Link{Title: "GitHub", URL: "https://github.com/y", Order: 0})
	if err != nil {
		t.Fatal(err)
	}
	if updated.ID != gh.ID || s.List()[0].URL != "https://github.com/y" {
		t.Errorf("Update() not applied: %+v", s.List())
	}

	if _, err := s.Update("missing", Link{}); !errors.Is(err, ErrNotFound) {
		t.Errorf("Update(missing) = %v", err)
	}
	if err := s.Delete(gh.ID); err != nil {
		t.Fatal(err)
	}
	if err := s.Delete(gh.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Delete(missing) = %v", err)
	}
	if len(s.List()) != 1 {
		t.Errorf("List() after delete = %+v", s.List())
	}
}
