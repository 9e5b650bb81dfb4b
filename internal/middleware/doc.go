// Profilehub - Personal Link Hub with Live Presence Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/profilehub

/*
Package middleware provides HTTP middleware used by the API router.

Key Components:

  - RequestID: UUID request IDs, echoed in X-Request-ID and carried in the
    context for structured logging
  - PrometheusMetrics: request count, latency and in-flight gauge, labelled
    by chi route pattern
  - Compression: gzip for static assets and JSON; event streams bypass it
  - SecurityHeaders: hardening headers without a Content-Security-Policy

All middleware has the func(http.Handler) http.Handler shape so it plugs
into chi's Use and With.

Writers installed by this package implement Unwrap, so handlers can reach
the connection's Flush and SetWriteDeadline through http.ResponseController.
The gzip writer is the exception and is never installed on event streams.
*/
package middleware
