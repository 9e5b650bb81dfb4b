// Profilehub - Personal Link Hub with Live Presence Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/profilehub

/*
Package bot runs the Discord bot that manages the admin IP whitelist.

Three guild slash commands are registered when the gateway reports Ready:

	/ipekle ip    add an IPv4 address to the whitelist
	/ipcikar ip   remove an address
	/ipler        list the whitelist (ephemeral)

Commands are only accepted from the configured guild, and add/remove only
from the configured channel. Every add or remove attempt that reaches the
whitelist is written to the audit channel.

The package is split so the command rules can be tested without a gateway:

  - Handler turns a Request into a Reply. It owns the guild and channel
    checks, IP validation, whitelist mutation and the per-user Throttle.
  - AuditLog sends audit lines to a channel through a gobreaker circuit
    breaker so a failing channel does not slow command replies.
  - Bot adapts a discordgo session: it registers commands, converts
    interactions into Requests and writes the replies back.
*/
package bot
