// Profilehub - Personal Link Hub with Live Presence Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/profilehub

/*
Package supervisor runs profilehub's long-lived services under suture v4.

# Tree

	profilehub
	├── data-layer
	│   └── session-cleanup        (badger or memory session sweeper)
	├── messaging-layer
	│   ├── presence-feed          upstream WebSocket client
	│   ├── sse-hub                heartbeats, closes streams on shutdown
	│   └── discord-bot            (only when DISCORD_BOT_TOKEN is set)
	└── api-layer
	    └── http-server

Each layer counts failures on its own, so a flapping upstream does not
take the HTTP server down with it. Restarts back off according to
TreeConfig; the presence feed stops being restarted once its own
reconnect budget is spent (see services.FeedService).

# Events

Supervisor events are logged through sutureslog into the zerolog
pipeline (logging.NewSlogLogger).

# Shutdown

Canceling the context passed to Serve stops every service. Services that
do not return within ShutdownTimeout are listed by UnstoppedServiceReport.

# Usage

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
	    return err
	}
	tree.AddMessagingService(services.NewFeedService(feed))
	tree.AddMessagingService(services.NewHubService(hub))
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))
	return tree.Serve(ctx)
*/
package supervisor
