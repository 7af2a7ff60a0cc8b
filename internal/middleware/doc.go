// Filmorate - Film Catalog and Social Graph Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmorate

/*
Package middleware provides HTTP middleware components for the API.

Key Components:

  - RequestID: request and correlation id tracking, propagated into the
    logging context and response headers
  - PrometheusMetrics: request count, latency and in-flight gauge, labeled
    by chi route pattern
  - AccessLog: one structured log line per request

All three use the http.HandlerFunc middleware signature; the api package
adapts them for chi's r.Use.

Usage Example:

	r.Use(chiMiddleware(middleware.RequestID))
	r.Use(chiMiddleware(middleware.AccessLog))
	r.Use(chiMiddleware(middleware.PrometheusMetrics))

Thread Safety:

All middleware is safe for concurrent use. Metrics are recorded through
the promauto collectors in internal/metrics.
*/
package middleware
