// Profilehub - Personal Link Hub with Live Presence Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/profilehub

package bot

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tomtom215/profilehub/internal/store"
	"github.com/tomtom215/profilehub/internal/validation"
)

// User-facing replies.
const (
	msgWrongGuild   = "Bu komut sadece belirli sunucuda kullanılabilir."
	msgWrongChannel = "Bu komut sadece belirli kanalda kullanılabilir."
	msgInvalidIP    = "Geçersiz IP formatı."
	msgAddFailed    = "IP eklenirken bir hata oluştu."
	msgRemoveFailed = "IP çıkarılırken bir hata oluştu."
	msgThrottled    = "Çok hızlı komut gönderiyorsun, lütfen biraz bekle."
	msgEmptyList    = "Whitelist boş."
)

// Whitelist is the subset of store.WhitelistStore the bot mutates.
type Whitelist interface {
	Load() store.Whitelist
	Add(ip string) error
	Remove(ip string) error
}

// Request is one slash command invocation.
type Request struct {
	Command   string
	IP        string
	GuildID   string
	ChannelID string
	UserID    string
	UserTag   string
}

// Reply is the interaction response plus an optional audit entry.
type Reply struct {
	Content   string
	Ephemeral bool

	// OK is false when the command was refused or failed.
	OK    bool
	Audit *AuditEntry
}

// HandlerConfig restricts where commands are accepted. An empty ID
// disables that restriction.
type HandlerConfig struct {
	GuildID   string
	ChannelID string
}

// Handler applies the whitelist command rules.
type Handler struct {
	whitelist Whitelist
	config    HandlerConfig
	throttle  *Throttle
	now       func() time.Time
}

// NewHandler creates a Handler. throttle may be nil.
func NewHandler(whitelist Whitelist, config HandlerConfig, throttle *Throttle) *Handler {
	return &Handler{
		whitelist: whitelist,
		config:    config,
		throttle:  throttle,
		now:       time.Now,
	}
}

// Handle executes req. The second result is false for commands this bot
// does not own; those get no reply.
func (h *Handler) Handle(req Request) (Reply, bool) {
	switch req.Command {
	case CommandAdd, CommandRemove, CommandList:
	default:
		return Reply{}, false
	}

	if h.config.GuildID != "" && req.GuildID != h.config.GuildID {
		return ephemeral(msgWrongGuild), true
	}
	if h.config.ChannelID != "" && req.ChannelID != h.config.ChannelID && req.Command != CommandList {
		return ephemeral(msgWrongChannel), true
	}
	if !h.throttle.Allow(req.UserID) {
		return ephemeral(msgThrottled), true
	}

	switch req.Command {
	case CommandAdd:
		return h.add(req), true
	case CommandRemove:
		return h.remove(req), true
	default:
		return h.list(), true
	}
}

func (h *Handler) add(req Request) Reply {
	if validation.ValidateVar(req.IP, validation.TagIPv4) != nil {
		return ephemeral(msgInvalidIP)
	}

	err := h.whitelist.Add(req.IP)
	switch {
	case errors.Is(err, store.ErrExists):
		return Reply{
			Content: fmt.Sprintf("IP %s zaten whitelist'te.", req.IP),
			OK:      true,
			Audit:   h.entry(ActionAddAttempt, req, "Zaten whitelist'te"),
		}
	case err != nil:
		return ephemeral(msgAddFailed)
	}
	return Reply{
		Content: fmt.Sprintf("IP %s whitelist'e eklendi.", req.IP),
		OK:      true,
		Audit:   h.entry(ActionAdd, req, "Başarılı"),
	}
}

func (h *Handler) remove(req Request) Reply {
	if validation.ValidateVar(req.IP, validation.TagIPv4) != nil {
		return ephemeral(msgInvalidIP)
	}

	err := h.whitelist.Remove(req.IP)
	switch {
	case errors.Is(err, store.ErrNotFound):
		return Reply{
			Content: fmt.Sprintf("IP %s whitelist'te bulunamadı.", req.IP),
			OK:      true,
			Audit:   h.entry(ActionRemoveAttempt, req, "Whitelist'te değil"),
		}
	case err != nil:
		return ephemeral(msgRemoveFailed)
	}
	return Reply{
		Content: fmt.Sprintf("IP %s whitelist'ten çıkarıldı.", req.IP),
		OK:      true,
		Audit:   h.entry(ActionRemove, req, "Başarılı"),
	}
}

func (h *Handler) list() Reply {
	ips := h.whitelist.Load().IPs
	body := msgEmptyList
	if len(ips) > 0 {
		lines := make([]string, len(ips))
		for i, ip := range ips {
			lines[i] = fmt.Sprintf("%d. %s", i+1, ip)
		}
		body = strings.Join(lines, "\n")
	}
	return Reply{
		Content:   "**Whitelist IP'leri:**\n```\n" + body + "\n```",
		Ephemeral: true,
		OK:        true,
	}
}

func (h *Handler) entry(action string, req Request, status string) *AuditEntry {
	return &AuditEntry{
		Time:   h.now(),
		Action: action,
		IP:     req.IP,
		Status: status,
		User:   req.UserTag,
	}
}

func ephemeral(content string) Reply {
	return Reply{Content: content, Ephemeral: true}
}
