// Profilehub - Personal Link Hub with Live Presence Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/profilehub

package bot

import (
	"errors"
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/profilehub/internal/logging"
	"github.com/tomtom215/profilehub/internal/metrics"
)

// Audit actions.
const (
	ActionAdd           = "IP_EKLEME"
	ActionAddAttempt    = "IP_EKLEME_DENEMESI"
	ActionRemove        = "IP_CIKARMA"
	ActionRemoveAttempt = "IP_CIKARMA_DENEMESI"
)

// isoMillis matches JavaScript's Date.toISOString.
const isoMillis = "2006-01-02T15:04:05.000Z"

// AuditEntry is one whitelist change or attempted change.
type AuditEntry struct {
	Time   time.Time
	Action string
	IP     string
	Status string
	User   string
}

// String renders the entry as the audit channel message.
func (e AuditEntry) String() string {
	return fmt.Sprintf("`[%s]` **%s**\nIP: `%s`\nDurum: %s\nKullanıcı: %s",
		e.Time.UTC().Format(isoMillis), e.Action, e.IP, e.Status, e.User)
}

// MessageSender posts a plain message to a channel.
type MessageSender interface {
	ChannelMessageSend(channelID, content string, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// AuditLog posts audit entries to a channel behind a circuit breaker.
type AuditLog struct {
	sender    MessageSender
	channelID string
	cb        *gobreaker.CircuitBreaker[*discordgo.Message]
	name      string
}

// NewAuditLog creates an audit log for channelID. With an empty channelID
// Send only logs locally.
//
// The breaker opens after 5 consecutive send failures and probes again
// after a minute.
func NewAuditLog(sender MessageSender, channelID string) *AuditLog {
	name := "discord-audit"
	metrics.CircuitBreakerState.WithLabelValues(name).Set(0)

	cb := gobreaker.NewCircuitBreaker[*discordgo.Message](gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Interval:    5 * time.Minute,
		Timeout:     time.Minute,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Info().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("Circuit breaker state transition")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, from.String(), to.String()).Inc()
		},
	})

	return &AuditLog{sender: sender, channelID: channelID, cb: cb, name: name}
}

// Send logs entry and posts it to the audit channel.
func (a *AuditLog) Send(entry AuditEntry) error {
	logging.Info().
		Str("action", entry.Action).
		Str("ip", entry.IP).
		Str("status", entry.Status).
		Str("user", logging.Sanitize(entry.User)).
		Msg("Whitelist audit")

	if a.channelID == "" {
		return nil
	}

	_, err := a.cb.Execute(func() (*discordgo.Message, error) {
		return a.sender.ChannelMessageSend(a.channelID, entry.String())
	})
	switch {
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		metrics.CircuitBreakerRequests.WithLabelValues(a.name, "rejected").Inc()
		return fmt.Errorf("audit channel unavailable: %w", err)
	case err != nil:
		metrics.CircuitBreakerRequests.WithLabelValues(a.name, "failure").Inc()
		return fmt.Errorf("send audit message: %w", err)
	}
	metrics.CircuitBreakerRequests.WithLabelValues(a.name, "success").Inc()
	return nil
}

// State reports the breaker state.
func (a *AuditLog) State() gobreaker.State {
	return a.cb.State()
}

func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}
