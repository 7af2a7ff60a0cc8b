// Filmorate - Film Catalog and Social Graph Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmorate

package api

import (
	"net/http"

	"github.com/tomtom215/filmorate/internal/models"
)

// CreateUser handles POST /users.
func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var user models.User
	if err := decodeJSON(w, r, &user); err != nil {
		respondBadRequest(w, r, "body", err.Error())
		return
	}

	created, err := h.users.AddUser(r.Context(), &user)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, created)
}

// UpdateUser handles PUT /users.
func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	var user models.User
	if err := decodeJSON(w, r, &user); err != nil {
		respondBadRequest(w, r, "body", err.Error())
		return
	}

	updated, err := h.users.UpdateUser(r.Context(), &user)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, updated)
}

// ListUsers handles GET /users.
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.ListUsers(r.Context())
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, users)
}

// GetUser handles GET /users/{id}.
func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	ids, ok := pathIDs(w, r, "id")
	if !ok {
		return
	}

	user, err := h.users.GetUser(r.Context(), ids[0])
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, user)
}

// AddFriend handles PUT /users/{id}/friends/{friendId}.
func (h *Handler) AddFriend(w http.ResponseWriter, r *http.Request) {
	ids, ok := pathIDs(w, r, "id", "friendId")
	if !ok {
		return
	}
	if err := h.users.AddFriend(r.Context(), ids[0], ids[1]); err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondEmpty(w)
}

// RemoveFriend handles DELETE /users/{id}/friends/{friendId}.
func (h *Handler) RemoveFriend(w http.ResponseWriter, r *http.Request) {
	ids, ok := pathIDs(w, r, "id", "friendId")
	if !ok {
		return
	}
	if err := h.users.RemoveFriend(r.Context(), ids[0], ids[1]); err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondEmpty(w)
}

// ListFriends handles GET /users/{id}/friends.
func (h *Handler) ListFriends(w http.ResponseWriter, r *http.Request) {
	ids, ok := pathIDs(w, r, "id")
	if !ok {
		return
	}

	friends, err := h.users.ListFriends(r.Context(), ids[0])
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, friends)
}

// CommonFriends handles GET /users/{id}/friends/common/{otherId}.
func (h *Handler) CommonFriends(w http.ResponseWriter, r *http.Request) {
	ids, ok := pathIDs(w, r, "id", "otherId")
	if !ok {
		return
	}

	common, err := h.users.CommonFriends(r.Context(), ids[0], ids[1])
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, common)
}

// Feed handles GET /users/{id}/feed.
func (h *Handler) Feed(w http.ResponseWriter, r *http.Request) {
	ids, ok := pathIDs(w, r, "id")
	if !ok {
		return
	}

	events, err := h.users.Feed(r.Context(), ids[0])
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, events)
}
