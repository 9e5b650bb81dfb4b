// Profilehub - Personal Link Hub with Live Presence Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/profilehub

package services

import "context"

// BotRunner is satisfied by *bot.Bot.
type BotRunner interface {
	Run(ctx context.Context) error
}

// BotService runs the Discord whitelist bot. A failed gateway connection
// is returned to suture, which restarts it with backoff.
type BotService struct {
	bot  BotRunner
	name string
}

// NewBotService wraps b.
func NewBotService(b BotRunner) *BotService {
	return &BotService{bot: b, name: "discord-bot"}
}

// Serve implements suture.Service.
func (s *BotService) Serve(ctx context.Context) error {
	return s.bot.Run(ctx)
}

func (s *BotService) String() string {
	return s.name
}
