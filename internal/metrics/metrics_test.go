// Profilehub - Personal Link Hub with Live Presence Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/profilehub

package metrics

import (
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordAPIRequest(t *testing.T) {
	before := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/api/views", "200"))

	RecordAPIRequest("GET", "/api/views", "200", 5*time.Millisecond)
	RecordAPIRequest("GET", "/api/views", "200", 7*time.Millisecond)

	after := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/api/views", "200"))
	if after-before != 2 {
		t.Errorf("api_requests_total delta = %v, want 2", after-before)
	}
}

func TestTrackActiveRequest(t *testing.T) {
	before := testutil.ToFloat64(APIActiveRequests)
	TrackActiveRequest(true)
	if got := testutil.ToFloat64(APIActiveRequests); got != before+1 {
		t.Errorf("active requests = %v, want %v", got, before+1)
	}
	TrackActiveRequest(false)
	if got := testutil.ToFloat64(APIActiveRequests); got != before {
		t.Errorf("active requests = %v, want %v", got, before)
	}
}

func TestRecordSnapshot(t *testing.T) {
	before := testutil.ToFloat64(PresenceSnapshotsTotal.WithLabelValues("PRESENCE_UPDATE"))
	at := time.Unix(1700000000, 0)

	RecordSnapshot("PRESENCE_UPDATE", at)

	if got := testutil.ToFloat64(PresenceSnapshotsTotal.WithLabelValues("PRESENCE_UPDATE")); got != before+1 {
		t.Errorf("presence_snapshots_total = %v, want %v", got, before+1)
	}
	if got := testutil.ToFloat64(PresenceLastUpdate); got != 1700000000 {
		t.Errorf("presence_last_update = %v", got)
	}
}

func TestRecordBotCommand(t *testing.T) {
	okBefore := testutil.ToFloat64(BotCommandsTotal.WithLabelValues("ipekle", "success"))
	rejBefore := testutil.ToFloat64(BotCommandsTotal.WithLabelValues("ipekle", "rejected"))

	RecordBotCommand("ipekle", true)
	RecordBotCommand("ipekle", false)
	RecordBotCommand("ipekle", false)

	if got := testutil.ToFloat64(BotCommandsTotal.WithLabelValues("ipekle", "success")) - okBefore; got != 1 {
		t.Errorf("success delta = %v, want 1", got)
	}
	if got := testutil.ToFloat64(BotCommandsTotal.WithLabelValues("ipekle", "rejected")) - rejBefore; got != 2 {
		t.Errorf("rejected delta = %v, want 2", got)
	}
}

func TestConcurrentMetricRecording(t *testing.T) {
	before := testutil.ToFloat64(SSEMessagesTotal.WithLabelValues("broadcast"))

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				SSEMessagesTotal.WithLabelValues("broadcast").Inc()
			}
		}()
	}
	wg.Wait()

	if got := testutil.ToFloat64(SSEMessagesTotal.WithLabelValues("broadcast")) - before; got != 1000 {
		t.Errorf("sse_messages_total delta = %v, want 1000", got)
	}
}

func TestMetricsRegistration(t *testing.T) {
	// Touch vectors so they appear in the gather output.
	PresenceFramesTotal.WithLabelValues("0")
	SSEEvictionsTotal.WithLabelValues("queue_full")
	CircuitBreakerState.WithLabelValues("discord_audit")

	families, err := prometheus.DefaultGatherer.Gather()
	if err != nil {
		t.Fatalf("Gather() error = %v", err)
	}

	names := make(map[string]bool, len(families))
	for _, mf := range families {
		names[mf.GetName()] = true
	}

	for _, want := range []string{
		"presence_feed_state",
		"presence_frames_total",
		"sse_subscribers",
		"sse_evictions_total",
		"profile_views",
		"circuit_breaker_state",
	} {
		if !names[want] {
			t.Errorf("metric %q not registered", want)
		}
	}
}
