// Filmorate - Film Catalog and Social Graph Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmorate

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/filmorate/internal/middleware"
	"github.com/tomtom215/filmorate/internal/models"
)

// chiMiddleware adapts http.HandlerFunc middleware to Chi's func(http.Handler) http.Handler.
func chiMiddleware(mw func(http.HandlerFunc) http.HandlerFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return mw(next.ServeHTTP)
	}
}

// Router binds the handler to its middleware.
type Router struct {
	handler       *Handler
	chiMiddleware *ChiMiddleware
}

// NewRouter creates a router. A nil mw uses DefaultChiMiddlewareConfig.
func NewRouter(handler *Handler, mw *ChiMiddleware) *Router {
	if mw == nil {
		mw = NewChiMiddleware(nil)
	}
	return &Router{handler: handler, chiMiddleware: mw}
}

// SetupChi configures all HTTP routes using Chi router.
func (router *Router) SetupChi() http.Handler {
	r := chi.NewRouter()

	// ========================
	// Global Middleware Stack
	// ========================
	r.Use(chiMiddleware(middleware.RequestID)) // X-Request-ID and logging context
	r.Use(chimiddleware.RealIP)
	r.Use(chiMiddleware(middleware.AccessLog))
	r.Use(chimiddleware.Recoverer)
	r.Use(router.chiMiddleware.CORS()) // CORS must be global to handle OPTIONS preflight
	r.Use(chimiddleware.Compress(5, "application/json"))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respondAPIError(w, r, http.StatusNotFound, &models.APIError{
			Code:    models.ErrCodeNotFound,
			Message: "route not found",
		})
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		respondAPIError(w, r, http.StatusMethodNotAllowed, &models.APIError{
			Code:    "METHOD_NOT_ALLOWED",
			Message: "method not allowed",
		})
	})

	// ========================
	// Health and Metrics
	// ========================
	r.Route("/health", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimitHealth())
		r.Use(APISecurityHeaders())
		r.Get("/live", router.handler.HealthLive)
		r.Get("/ready", router.handler.HealthReady)
	})
	r.Handle("/metrics", promhttp.Handler())

	// ========================
	// Core API Endpoints
	// ========================
	r.Group(func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimit())
		r.Use(APISecurityHeaders())
		r.Use(chiMiddleware(middleware.PrometheusMetrics))

		write := router.chiMiddleware.RateLimitWrite()

		r.Route("/films", func(r chi.Router) {
			r.Get("/", router.handler.ListFilms)
			r.With(write).Post("/", router.handler.CreateFilm)
			r.With(write).Put("/", router.handler.UpdateFilm)
			r.Get("/popular", router.handler.PopularFilms)
			r.Get("/{id}", router.handler.GetFilm)
			r.Put("/{id}/like/{userId}", router.handler.AddLike)
			r.Delete("/{id}/like/{userId}", router.handler.RemoveLike)
		})

		r.Route("/users", func(r chi.Router) {
			r.Get("/", router.handler.ListUsers)
			r.With(write).Post("/", router.handler.CreateUser)
			r.With(write).Put("/", router.handler.UpdateUser)
			r.Get("/{id}", router.handler.GetUser)
			r.Get("/{id}/friends", router.handler.ListFriends)
			r.Get("/{id}/friends/common/{otherId}", router.handler.CommonFriends)
			r.Put("/{id}/friends/{friendId}", router.handler.AddFriend)
			r.Delete("/{id}/friends/{friendId}", router.handler.RemoveFriend)
			r.Get("/{id}/feed", router.handler.Feed)
		})

		r.Get("/genres", router.handler.ListGenres)
		r.Get("/genres/{id}", router.handler.GetGenre)
		r.Get("/mpa", router.handler.ListMpaRatings)
		r.Get("/mpa/{id}", router.handler.GetMpaRating)
	})

	return r
}
