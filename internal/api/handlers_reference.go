// Filmorate - Film Catalog and Social Graph Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmorate

package api

import "net/http"

// ListGenres handles GET /genres.
func (h *Handler) ListGenres(w http.ResponseWriter, r *http.Request) {
	genres, err := h.genres.ListGenres(r.Context())
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, genres)
}

// GetGenre handles GET /genres/{id}.
func (h *Handler) GetGenre(w http.ResponseWriter, r *http.Request) {
	id, ok := smallPathID(w, r, "id")
	if !ok {
		return
	}

	genre, err := h.genres.GetGenre(r.Context(), id)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, genre)
}

// ListMpaRatings handles GET /mpa.
func (h *Handler) ListMpaRatings(w http.ResponseWriter, r *http.Request) {
	ratings, err := h.mpa.ListMpaRatings(r.Context())
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, ratings)
}

// GetMpaRating handles GET /mpa/{id}.
func (h *Handler) GetMpaRating(w http.ResponseWriter, r *http.Request) {
	id, ok := smallPathID(w, r, "id")
	if !ok {
		return
	}

	rating, err := h.mpa.GetMpaRating(r.Context(), id)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, rating)
}
