// Filmorate - Film Catalog and Social Graph Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmorate

package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/tomtom215/filmorate/internal/models"
)

// CreateFilm handles POST /films.
func (h *Handler) CreateFilm(w http.ResponseWriter, r *http.Request) {
	var film models.Film
	if err := decodeJSON(w, r, &film); err != nil {
		respondBadRequest(w, r, "body", err.Error())
		return
	}

	created, err := h.films.AddFilm(r.Context(), &film)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, created)
}

// UpdateFilm handles PUT /films.
func (h *Handler) UpdateFilm(w http.ResponseWriter, r *http.Request) {
	var film models.Film
	if err := decodeJSON(w, r, &film); err != nil {
		respondBadRequest(w, r, "body", err.Error())
		return
	}

	updated, err := h.films.UpdateFilm(r.Context(), &film)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, updated)
}

// ListFilms handles GET /films.
func (h *Handler) ListFilms(w http.ResponseWriter, r *http.Request) {
	films, err := h.films.ListFilms(r.Context())
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, films)
}

// GetFilm handles GET /films/{id}.
func (h *Handler) GetFilm(w http.ResponseWriter, r *http.Request) {
	ids, ok := pathIDs(w, r, "id")
	if !ok {
		return
	}

	film, err := h.films.GetFilm(r.Context(), ids[0])
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, film)
}

// PopularFilms handles GET /films/popular?count=N.
func (h *Handler) PopularFilms(w http.ResponseWriter, r *http.Request) {
	count := h.popularCount
	if raw := r.URL.Query().Get("count"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			respondBadRequest(w, r, "count", fmt.Sprintf("count must be an integer, got %q", raw))
			return
		}
		count = n
	}

	films, err := h.films.PopularFilms(r.Context(), count)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, films)
}

// AddLike handles PUT /films/{id}/like/{userId}.
func (h *Handler) AddLike(w http.ResponseWriter, r *http.Request) {
	ids, ok := pathIDs(w, r, "id", "userId")
	if !ok {
		return
	}
	if err := h.films.AddLike(r.Context(), ids[0], ids[1]); err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondEmpty(w)
}

// RemoveLike handles DELETE /films/{id}/like/{userId}.
func (h *Handler) RemoveLike(w http.ResponseWriter, r *http.Request) {
	ids, ok := pathIDs(w, r, "id", "userId")
	if !ok {
		return
	}
	if err := h.films.RemoveLike(r.Context(), ids[0], ids[1]); err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondEmpty(w)
}
