// Profilehub - Personal Link Hub with Live Presence Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/profilehub

package store

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/tomtom215/profilehub/internal/logging"
)

// Link is one social link shown on the profile page.
type Link struct {
	ID    string `json:"id"`
	Title string `json:"title" validate:"required,min=1,max=64"`
	URL   string `json:"url" validate:"required,url,max=2048"`
	Icon  string `json:"icon,omitempty" validate:"max=64"`
	Order int    `json:"order" validate:"gte=0,lte=1000"`
}

// Links is the on-disk links document.
type Links struct {
	Links []Link `json:"links"`
}

// LinkStore reads and writes the social links file.
type LinkStore struct {
	path string
	mu   sync.Mutex
}

// NewLinkStore creates a store for the file at path.
func NewLinkStore(path string) *LinkStore {
	return &LinkStore{path: path}
}

// Load returns the stored links. A missing or corrupt file yields no links.
func (s *LinkStore) Load() Links {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

func (s *LinkStore) load() Links {
	var l Links
	if err := readJSON(s.path, &l); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			logging.Error().Err(err).Str("path", s.path).Msg("Error loading links")
		}
		return Links{Links: []Link{}}
	}
	if l.Links == nil {
		l.Links = []Link{}
	}
	return l
}

// Save replaces the links file.
func (s *LinkStore) Save(l Links) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(l)
}

func (s *LinkStore) save(l Links) error {
	if l.Links == nil {
		l.Links = []Link{}
	}
	if err := writeJSON(s.path, l); err != nil {
		return fmt.Errorf("save links: %w", err)
	}
	return nil
}

// List returns links sorted by Order, then Title.
func (s *LinkStore) List() []Link {
	links := s.Load().Links
	slices.SortStableFunc(links, func(a, b Link) int {
		if a.Order != b.Order {
			return a.Order - b.Order
		}
		switch {
		case a.Title < b.Title:
			return -1
		case a.Title > b.Title:
			return 1
		}
		return 0
	})
	return links
}

// Add stores link under a new ID and returns it.
func (s *LinkStore) Add(link Link) (Link, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	l := s.load()
	link.ID = uuid.New().String()
	l.Links = append(l.Links, link)
	if err := s.save(l); err != nil {
		return Link{}, err
	}
	return link, nil
}

// Update replaces the link with the given ID.
func (s *LinkStore) Update(id string, link Link) (Link, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	l := s.load()
	i := slices.IndexFunc(l.Links, func(v Link) bool { return v.ID == id })
	if i < 0 {
		return Link{}, ErrNotFound
	}
	link.ID = id
	l.Links[i] = link
	if err := s.save(l); err != nil {
		return Link{}, err
	}
	return link, nil
}

// Delete removes the link with the given ID.
func (s *LinkStore) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	l := s.load()
	n := len(l.Links)
	l.Links = slices.DeleteFunc(l.Links, func(v Link) bool { return v.ID == id })
	if len(l.Links) == n {
		return ErrNotFound
	}
	return s.save(l)
}
