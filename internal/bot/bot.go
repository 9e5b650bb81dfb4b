// Profilehub - Personal Link Hub with Live Presence Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/profilehub

package bot

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"

	"github.com/tomtom215/profilehub/internal/config"
	"github.com/tomtom215/profilehub/internal/logging"
	"github.com/tomtom215/profilehub/internal/metrics"
)

// Session is the part of *discordgo.Session the bot uses.
type Session interface {
	MessageSender
	AddHandler(handler interface{}) func()
	Open() error
	Close() error
	ApplicationCommandBulkOverwrite(appID, guildID string, commands []*discordgo.ApplicationCommand, options ...discordgo.RequestOption) ([]*discordgo.ApplicationCommand, error)
	InteractionRespond(interaction *discordgo.Interaction, resp *discordgo.InteractionResponse, options ...discordgo.RequestOption) error
}

// Bot connects the whitelist command handler to a Discord gateway session.
type Bot struct {
	session Session
	handler *Handler
	audit   *AuditLog
	appID   string
	guildID string
	log     zerolog.Logger
}

// New creates a bot logged in with cfg.Token.
func New(cfg config.BotConfig, whitelist Whitelist) (*Bot, error) {
	s, err := discordgo.New("Bot " + cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("create discord session: %w", err)
	}
	s.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildMessages
	return NewWithSession(s, cfg, whitelist), nil
}

// NewWithSession creates a bot on an existing session.
func NewWithSession(s Session, cfg config.BotConfig, whitelist Whitelist) *Bot {
	return &Bot{
		session: s,
		handler: NewHandler(whitelist, HandlerConfig{
			GuildID:   cfg.GuildID,
			ChannelID: cfg.ChannelID,
		}, NewThrottle(cfg.CommandRate, cfg.CommandBurst)),
		audit:   NewAuditLog(s, cfg.LogChannelID),
		appID:   cfg.AppID,
		guildID: cfg.GuildID,
		log:     logging.WithComponent("discord-bot"),
	}
}

// Run opens the gateway connection and serves commands until ctx is done.
func (b *Bot) Run(ctx context.Context) error {
	removeReady := b.session.AddHandler(func(_ *discordgo.Session, r *discordgo.Ready) {
		b.handleReady(r)
	})
	defer removeReady()
	removeInteraction := b.session.AddHandler(func(_ *discordgo.Session, i *discordgo.InteractionCreate) {
		b.handleInteraction(i.Interaction)
	})
	defer removeInteraction()

	if err := b.session.Open(); err != nil {
		return fmt.Errorf("open discord session: %w", err)
	}
	b.log.Info().Msg("Discord bot connected")

	<-ctx.Done()

	if err := b.session.Close(); err != nil {
		return fmt.Errorf("close discord session: %w", err)
	}
	b.log.Info().Msg("Discord bot disconnected")
	return ctx.Err()
}

// handleReady registers the slash commands for the configured guild.
func (b *Bot) handleReady(r *discordgo.Ready) {
	appID := b.appID
	if appID == "" && r.User != nil {
		appID = r.User.ID
	}
	if r.User != nil {
		b.log.Info().Str("user", userTag(r.User)).Msg("Discord bot logged in")
	}

	b.log.Info().Str("guild", b.guildID).Msg("Registering slash commands")
	if _, err := b.session.ApplicationCommandBulkOverwrite(appID, b.guildID, Commands()); err != nil {
		b.log.Error().Err(err).Msg("Error registering commands")
		return
	}
	b.log.Info().Msg("Slash commands registered successfully")
}

func (b *Bot) handleInteraction(i *discordgo.Interaction) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}

	req := requestFromInteraction(i)
	reply, ok := b.handler.Handle(req)
	if !ok {
		return
	}
	metrics.RecordBotCommand(req.Command, reply.OK)

	resp := &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{Content: reply.Content},
	}
	if reply.Ephemeral {
		resp.Data.Flags = discordgo.MessageFlagsEphemeral
	}
	if err := b.session.InteractionRespond(i, resp); err != nil {
		b.log.Error().Err(err).Str("command", req.Command).Msg("Failed to reply to interaction")
	}

	if reply.Audit != nil {
		if err := b.audit.Send(*reply.Audit); err != nil {
			b.log.Warn().Err(err).Str("action", reply.Audit.Action).Msg("Audit message not delivered")
		}
	}
}

func requestFromInteraction(i *discordgo.Interaction) Request {
	data := i.ApplicationCommandData()
	req := Request{
		Command:   data.Name,
		GuildID:   i.GuildID,
		ChannelID: i.ChannelID,
	}
	for _, opt := range data.Options {
		if opt.Name == optionIP && opt.Type == discordgo.ApplicationCommandOptionString {
			req.IP = opt.StringValue()
		}
	}

	user := i.User
	if i.Member != nil && i.Member.User != nil {
		user = i.Member.User
	}
	if user != nil {
		req.UserID = user.ID
		req.UserTag = userTag(user)
	}
	return req
}

// userTag renders "name#1234", or just the name for accounts on the
// discriminator-free username system.
func userTag(u *discordgo.User) string {
	if u.Discriminator == "" || u.Discriminator == "0" {
		return u.Username
	}
	return u.Username + "#" + u.Discriminator
}
