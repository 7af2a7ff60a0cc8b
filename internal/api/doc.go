// Filmorate - Film Catalog and Social Graph Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmorate

/*
Package api provides the HTTP surface of Filmorate using the Chi router.

Routes:

	/films                          GET list, POST create (201), PUT replace
	/films/popular?count=N          most liked films, count defaults to 10
	/films/{id}                     GET one
	/films/{id}/like/{userId}       PUT add like, DELETE remove like
	/users                          GET list, POST create (201), PUT replace
	/users/{id}                     GET one
	/users/{id}/friends             GET friends
	/users/{id}/friends/{friendId}  PUT add, DELETE remove
	/users/{id}/friends/common/{otherId}
	/users/{id}/feed                activity feed, oldest first
	/genres, /genres/{id}, /mpa, /mpa/{id}
	/health/live, /health/ready
	/metrics                        Prometheus exposition

Success bodies are the bare entity or array. Failures use the envelope
models.ErrorResponse with per-field violations; see respondServiceError for
the status mapping.

Middleware is layered globally (request id, real IP, access log, panic
recovery, CORS, compression) and per route group (rate limits, security
headers, Prometheus request metrics).
*/
package api
