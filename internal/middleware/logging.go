// Filmorate - Film Catalog and Social Graph Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmorate

package middleware

import (
	"net/http"
	"time"

	"github.com/tomtom215/filmorate/internal/logging"
)

// AccessLog logs one line per request with the logging context set by
// RequestID. 5xx responses log at error level, 4xx at warn, the rest at debug.
func AccessLog(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := &metricsResponseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next(ww, r)

		logger := logging.Ctx(r.Context())
		event := logger.Debug()
		switch {
		case ww.statusCode >= http.StatusInternalServerError:
			event = logger.Error()
		case ww.statusCode >= http.StatusBadRequest:
			event = logger.Warn()
		}
		event.
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Str("route", RoutePattern(r)).
			Int("status", ww.statusCode).
			Dur("duration", time.Since(start)).
			Str("remote_addr", r.RemoteAddr).
			Msg("Request completed")
	}
}
