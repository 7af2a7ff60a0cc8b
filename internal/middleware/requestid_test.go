// Filmorate - Film Catalog and Social Graph Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmorate

package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/tomtom215/filmorate/internal/logging"
)

func TestRequestID_GeneratesNewID(t *testing.T) {
	t.Parallel()

	var capturedID, loggingID, correlationID string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		capturedID = GetRequestID(r.Context())
		loggingID = logging.RequestIDFromContext(r.Context())
		correlationID = logging.CorrelationIDFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/films", nil)
	rec := httptest.NewRecorder()
	RequestID(handler)(rec, req)

	responseID := rec.Header().Get(HeaderRequestID)
	if _, err := uuid.Parse(responseID); err != nil {
		t.Errorf("response X-Request-ID %q is not a valid UUID: %v", responseID, err)
	}
	if capturedID != responseID || loggingID != responseID {
		t.Errorf("context ids (%q, %q) do not match header %q", capturedID, loggingID, responseID)
	}
	if correlationID == "" {
		t.Error("expected a correlation id in the logging context")
	}
	if got := rec.Header().Get(HeaderCorrelationID); got != correlationID {
		t.Errorf("X-Correlation-ID = %q, want %q", got, correlationID)
	}
}

func TestRequestID_PreservesIncomingIDs(t *testing.T) {
	t.Parallel()

	var capturedID, correlationID string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		capturedID = GetRequestID(r.Context())
		correlationID = logging.CorrelationIDFromContext(r.Context())
	})

	req := httptest.NewRequest(http.MethodGet, "/users", nil)
	req.Header.Set(HeaderRequestID, "upstream-123")
	req.Header.Set(HeaderCorrelationID, "trace-abc")
	rec := httptest.NewRecorder()
	RequestID(handler)(rec, req)

	if capturedID != "upstream-123" || rec.Header().Get(HeaderRequestID) != "upstream-123" {
		t.Errorf("request id not preserved: ctx=%q header=%q", capturedID, rec.Header().Get(HeaderRequestID))
	}
	if correlationID != "trace-abc" {
		t.Errorf("correlation id = %q, want trace-abc", correlationID)
	}
}

func TestRequestID_RejectsOversizedID(t *testing.T) {
	t.Parallel()

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderRequestID, strings.Repeat("x", maxIncomingIDLength+1))
	rec := httptest.NewRecorder()
	RequestID(handler)(rec, req)

	if _, err := uuid.Parse(rec.Header().Get(HeaderRequestID)); err != nil {
		t.Errorf("oversized id should be replaced by a UUID, got %q", rec.Header().Get(HeaderRequestID))
	}
}

func TestGetRequestID_Empty(t *testing.T) {
	t.Parallel()

	if id := GetRequestID(context.Background()); id != "" {
		t.Errorf("GetRequestID(empty) = %q", id)
	}
}
