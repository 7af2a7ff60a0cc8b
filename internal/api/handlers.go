// Filmorate - Film Catalog and Social Graph Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmorate

package api

import (
	"context"
	"time"

	"github.com/tomtom215/filmorate/internal/service"
)

// defaultPopularCount applies when neither the request nor config sets one.
const defaultPopularCount = 10

// readyPingTimeout bounds the storage ping of the readiness probe.
const readyPingTimeout = 2 * time.Second

// Pinger reports whether a dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler serves the HTTP endpoints.
type Handler struct {
	users  *service.UserService
	films  *service.FilmService
	genres *service.GenreService
	mpa    *service.MpaService

	store        Pinger
	backend      string
	popularCount int
	startTime    time.Time
}

// HandlerConfig carries the handler's dependencies.
type HandlerConfig struct {
	Users  *service.UserService
	Films  *service.FilmService
	Genres *service.GenreService
	Mpa    *service.MpaService

	// Store is pinged by the readiness probe.
	Store Pinger
	// Backend names the storage backend in health responses.
	Backend string
	// PopularCount is the default for GET /films/popular.
	PopularCount int
}

// NewHandler creates a new API handler.
func NewHandler(cfg HandlerConfig) *Handler {
	count := cfg.PopularCount
	if count <= 0 {
		count = defaultPopularCount
	}
	return &Handler{
		users:        cfg.Users,
		films:        cfg.Films,
		genres:       cfg.Genres,
		mpa:          cfg.Mpa,
		store:        cfg.Store,
		backend:      cfg.Backend,
		popularCount: count,
		startTime:    time.Now(),
	}
}
