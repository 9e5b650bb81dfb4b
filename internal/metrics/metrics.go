// Profilehub - Personal Link Hub with Live Presence Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/profilehub

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Presence Feed Metrics
	PresenceFeedState = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "presence_feed_state",
			Help: "Upstream feed state (0=disconnected, 1=connecting, 2=awaiting_hello, 3=subscribed)",
		},
	)

	PresenceFeedExhausted = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "presence_feed_exhausted",
			Help: "1 when the feed has given up reconnecting",
		},
	)

	PresenceReconnectsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "presence_reconnects_total",
			Help: "Total number of scheduled upstream reconnects",
		},
	)

	PresenceFramesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "presence_frames_total",
			Help: "Total number of upstream frames received by op code",
		},
		[]string{"op"},
	)

	PresenceMalformedFramesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "presence_malformed_frames_total",
			Help: "Total number of upstream frames dropped as malformed",
		},
	)

	PresenceSnapshotsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "presence_snapshots_total",
			Help: "Total number of snapshots cached and broadcast",
		},
		[]string{"event"}, // INIT_STATE, PRESENCE_UPDATE
	)

	PresenceLastUpdate = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "presence_last_update_timestamp_seconds",
			Help: "Unix time of the last cached snapshot",
		},
	)

	// SSE Metrics
	SSESubscribers = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "sse_subscribers",
			Help: "Current number of connected SSE subscribers",
		},
	)

	SSEMessagesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sse_messages_total",
			Help: "Total number of SSE messages queued to subscribers",
		},
		[]string{"kind"}, // initial, broadcast, heartbeat
	)

	SSEEvictionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sse_evictions_total",
			Help: "Total number of subscribers removed after a failed write",
		},
		[]string{"reason"}, // queue_full, write_error
	)

	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_rate_limit_hits_total",
			Help: "Total number of requests rejected by rate limiting",
		},
		[]string{"endpoint"},
	)

	// Views
	ViewCount = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "profile_views",
			Help: "Current page view count",
		},
	)

	// Admin
	AdminLoginsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "admin_logins_total",
			Help: "Total number of admin login attempts",
		},
		[]string{"result"}, // success, failure, locked
	)

	// Discord Bot Metrics
	BotCommandsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_commands_total",
			Help: "Total number of bot slash commands handled",
		},
		[]string{"command", "result"},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)
)

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordSnapshot records a cached and broadcast snapshot.
func RecordSnapshot(event string, at time.Time) {
	PresenceSnapshotsTotal.WithLabelValues(event).Inc()
	PresenceLastUpdate.Set(float64(at.Unix()))
}

// RecordBotCommand records a handled slash command.
func RecordBotCommand(command string, ok bool) {
	result := "success"
	if !ok {
		result = "rejected"
	}
	BotCommandsTotal.WithLabelValues(command, result).Inc()
}
