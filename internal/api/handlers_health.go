// Filmorate - Film Catalog and Social Graph Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmorate

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/tomtom215/filmorate/internal/logging"
	"github.com/tomtom215/filmorate/internal/models"
)

// HealthLive handles liveness probe requests (Kubernetes-style).
// Returns 200 OK as long as the process is serving HTTP.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, &models.HealthResponse{
		Status:    "alive",
		Storage:   h.backend,
		Timestamp: time.Now(),
	})
}

// HealthReady handles readiness probe requests (Kubernetes-style).
// Returns 200 OK only if the storage backend answers a ping, 503 otherwise.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	resp := &models.HealthResponse{
		Status:    "ready",
		Storage:   h.backend,
		Timestamp: time.Now(),
	}

	if h.store == nil {
		resp.Status = "not_ready"
		resp.Error = "storage not configured"
		respondJSON(w, http.StatusServiceUnavailable, resp)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), readyPingTimeout)
	defer cancel()

	if err := h.store.Ping(ctx); err != nil {
		logging.CtxWarn(r.Context()).Err(err).Str("storage", h.backend).Msg("Readiness check failed")
		resp.Status = "not_ready"
		resp.Error = err.Error()
		respondJSON(w, http.StatusServiceUnavailable, resp)
		return
	}
	respondJSON(w, http.StatusOK, resp)
}
