// Profilehub - Personal Link Hub with Live Presence Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/profilehub

/*
Package metrics provides Prometheus metrics collection and export for observability.

All collectors are registered with the default registry through promauto and
exposed at /metrics in Prometheus text format:

	curl http://localhost:3000/metrics

# Available Metrics

Presence feed:
  - presence_feed_state: Current connection state (gauge)
  - presence_feed_exhausted: 1 after the feed gives up (gauge)
  - presence_reconnects_total: Scheduled reconnects (counter)
  - presence_frames_total{op}: Upstream frames received (counter)
  - presence_malformed_frames_total: Dropped frames (counter)
  - presence_snapshots_total{event}: Snapshots cached and broadcast (counter)

SSE fan-out:
  - sse_subscribers: Connected stream subscribers (gauge)
  - sse_messages_total{kind}: Messages queued (counter)
  - sse_evictions_total{reason}: Subscribers dropped after a failed write (counter)

HTTP API:
  - api_requests_total{method,endpoint,status_code}
  - api_request_duration_seconds{method,endpoint}
  - api_rate_limit_hits_total{endpoint}

Other:
  - profile_views, admin_logins_total{result}, bot_commands_total{command,result}
  - circuit_breaker_state{name}, circuit_breaker_requests_total{name,result}
*/
package metrics
