// Filmorate - Film Catalog and Social Graph Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmorate

package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/tomtom215/filmorate/internal/logging"
	"github.com/tomtom215/filmorate/internal/middleware"
	"github.com/tomtom215/filmorate/internal/models"
	"github.com/tomtom215/filmorate/internal/service"
	"github.com/tomtom215/filmorate/internal/storage"
	"github.com/tomtom215/filmorate/internal/validation"
)

// maxBodyBytes limits request bodies.
const maxBodyBytes = 1 << 20

// sanitizeLogValue removes control characters from strings to prevent log injection attacks.
func sanitizeLogValue(s string) string {
	var result strings.Builder
	result.Grow(len(s))
	for _, r := range s {
		if r < 0x20 || r == 0x7F {
			result.WriteString(fmt.Sprintf("\\x%02x", r))
		} else {
			result.WriteRune(r)
		}
	}
	return result.String()
}

// respondJSON writes v as the bare JSON body.
func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		logging.Error().Err(err).Msg("Failed to marshal JSON response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		logging.Error().Err(err).Msg("Failed to write JSON response")
	}
}

// respondEmpty answers a relation change with an empty 200.
func respondEmpty(w http.ResponseWriter) {
	w.WriteHeader(http.StatusOK)
}

// respondAPIError writes the error envelope, stamping the request id.
func respondAPIError(w http.ResponseWriter, r *http.Request, status int, apiErr *models.APIError) {
	apiErr.RequestID = middleware.GetRequestID(r.Context())
	respondJSON(w, status, &models.ErrorResponse{Success: false, Error: apiErr})
}

// respondBadRequest answers 400 BAD_REQUEST with a single violation.
func respondBadRequest(w http.ResponseWriter, r *http.Request, field, message string) {
	respondAPIError(w, r, http.StatusBadRequest, &models.APIError{
		Code:    models.ErrCodeBadRequest,
		Message: message,
		Details: violationDetails(field, message),
	})
}

func violationDetails(field, message string) map[string]interface{} {
	return map[string]interface{}{
		"violations": []models.Violation{{FieldName: field, Message: message}},
	}
}

// respondServiceError maps service and storage errors to HTTP responses:
//
//	validation            400 VALIDATION_ERROR
//	not found             404 NOT_FOUND
//	relation conflicts    400 BAD_REQUEST
//	storage unavailable   503 SERVICE_UNAVAILABLE
//	anything else         500 INTERNAL_ERROR
func respondServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *validation.RequestValidationError
	switch {
	case errors.As(err, &verr):
		respondAPIError(w, r, http.StatusBadRequest, verr.ToAPIError())

	case storage.IsNotFound(err):
		msg := notFoundMessage(err)
		respondAPIError(w, r, http.StatusNotFound, &models.APIError{
			Code:    models.ErrCodeNotFound,
			Message: msg,
			Details: violationDetails("id", msg),
		})

	case service.IsBadRequest(err):
		respondBadRequest(w, r, "error", rootMessage(err))

	case errors.Is(err, storage.ErrUnavailable):
		logging.CtxErr(r.Context(), err).Msg("Storage unavailable")
		respondAPIError(w, r, http.StatusServiceUnavailable, &models.APIError{
			Code:    models.ErrCodeServiceUnavailable,
			Message: "storage temporarily unavailable, retry later",
		})

	default:
		logging.CtxErr(r.Context(), err).
			Str("method", r.Method).
			Str("path", sanitizeLogValue(r.URL.Path)).
			Msg("Unhandled API error")
		respondAPIError(w, r, http.StatusInternalServerError, &models.APIError{
			Code:    models.ErrCodeInternal,
			Message: "internal server error",
		})
	}
}

// notFoundMessage prefers the NotFoundError text over wrapping context.
func notFoundMessage(err error) string {
	var nf *storage.NotFoundError
	if errors.As(err, &nf) {
		return nf.Error()
	}
	return err.Error()
}

// rootMessage returns the message of the sentinel a relation error wraps.
func rootMessage(err error) string {
	for _, sentinel := range []error{
		service.ErrSelfFriendship,
		service.ErrInvalidCount,
		storage.ErrLikeExists,
		storage.ErrLikeNotFound,
		storage.ErrFriendExists,
	} {
		if errors.Is(err, sentinel) {
			return sentinel.Error()
		}
	}
	return err.Error()
}

// decodeJSON reads a single JSON document into dst.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(body)
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("request body is empty")
		}
		return fmt.Errorf("malformed JSON body: %w", err)
	}
	return nil
}

// pathID parses the integer URL parameter name. Ids that no entity can
// have (zero, negative) are left to the store, which answers not found.
func pathID(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer, got %q", name, raw)
	}
	return id, nil
}

// pathIDs parses several URL parameters, answering 400 on the first bad one.
func pathIDs(w http.ResponseWriter, r *http.Request, names ...string) ([]int64, bool) {
	ids := make([]int64, len(names))
	for i, name := range names {
		id, err := pathID(r, name)
		if err != nil {
			respondBadRequest(w, r, name, err.Error())
			return nil, false
		}
		ids[i] = id
	}
	return ids, true
}

// smallPathID parses an int reference-data id.
func smallPathID(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	raw := chi.URLParam(r, name)
	id, err := strconv.Atoi(raw)
	if err != nil {
		msg := fmt.Sprintf("%s must be an integer, got %q", name, raw)
		respondBadRequest(w, r, name, msg)
		return 0, false
	}
	return id, true
}
