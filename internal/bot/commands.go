// Profilehub - Personal Link Hub with Live Presence Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/profilehub

package bot

import "github.com/bwmarrin/discordgo"

// Slash command names.
const (
	CommandAdd    = "ipekle"
	CommandRemove = "ipcikar"
	CommandList   = "ipler"

	optionIP = "ip"
)

// Commands returns the guild command definitions.
func Commands() []*discordgo.ApplicationCommand {
	return []*discordgo.ApplicationCommand{
		{
			Name:        CommandAdd,
			Description: "IP adresini whitelist'e ekler",
			Options: []*discordgo.ApplicationCommandOption{{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        optionIP,
				Description: "Eklenecek IP adresi",
				Required:    true,
			}},
		},
		{
			Name:        CommandRemove,
			Description: "IP adresini whitelist'ten çıkarır",
			Options: []*discordgo.ApplicationCommandOption{{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        optionIP,
				Description: "Çıkarılacak IP adresi",
				Required:    true,
			}},
		},
		{
			Name:        CommandList,
			Description: "Whitelist'teki tüm IP adreslerini listeler",
		},
	}
}
