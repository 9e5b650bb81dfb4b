// Profilehub - Personal Link Hub with Live Presence Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/profilehub

package services

import (
	"context"
	"errors"

	"github.com/thejerf/suture/v4"

	"github.com/tomtom215/profilehub/internal/logging"
	"github.com/tomtom215/profilehub/internal/presence"
)

// FeedRunner is satisfied by *presence.Feed.
type FeedRunner interface {
	Run(ctx context.Context) error
}

// FeedService runs the upstream presence feed.
//
// The feed does its own reconnect backoff. When that budget is spent it
// stays down: the service returns suture.ErrDoNotRestart and the last
// snapshot keeps being served.
type FeedService struct {
	feed FeedRunner
	name string
}

// NewFeedService wraps feed.
func NewFeedService(feed FeedRunner) *FeedService {
	return &FeedService{feed: feed, name: "presence-feed"}
}

// Serve implements suture.Service.
func (s *FeedService) Serve(ctx context.Context) error {
	err := s.feed.Run(ctx)
	if errors.Is(err, presence.ErrRetriesExhausted) {
		logging.Error().Err(err).Msg("Presence feed gave up reconnecting; serving last snapshot")
		return suture.ErrDoNotRestart
	}
	return err
}

func (s *FeedService) String() string {
	return s.name
}
