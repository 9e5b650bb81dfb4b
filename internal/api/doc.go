// Profilehub - Personal Link Hub with Live Presence Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/profilehub

/*
Package api is the HTTP surface of profilehub.

Routes are served by a chi router built in Router.Setup:

	GET  /api/views                   current view count
	POST /api/views/increment         increment (rate limited)
	PUT  /api/views                   set the count (rate limited)
	GET  /api/health                  liveness plus feed connectivity
	GET  /api/discord/status          cached presence snapshot, 503 until one arrives
	GET  /api/discord/status/stream   server-sent events relay of the presence feed
	GET  /api/links                   public social links

	POST /api/admin/login             password login, sets the session cookie
	POST /api/admin/logout
	GET  /api/admin/session           {isAdmin}
	GET|POST /api/admin/whitelist     list or add an IPv4 address
	DELETE /api/admin/whitelist/{ip}
	GET|POST /api/admin/links         list or create links
	PUT|DELETE /api/admin/links/{id}
	GET|POST /api/admin/uploads       list or upload media (multipart "file")
	DELETE /api/admin/uploads/{name}

	GET /metrics                      Prometheus exposition
	GET /uploads/*                    uploaded media
	GET /*                            static site

Error bodies are JSON objects with "error" and "message" keys. The presence
endpoints additionally carry "success". Unmatched routes answer 404 and
panics answer 500, both in the same shape.

# Event stream

The stream handler clears the server's write deadline for its connection,
flushes headers immediately and then hands the connection to the SSE hub,
which writes the cached snapshot (if any), every subsequent broadcast and
a comment heartbeat until the client goes away or the server shuts down.
*/
package api
