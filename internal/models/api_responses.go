// Filmorate - Film Catalog and Social Graph Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmorate

package models

import "time"

// Error codes returned in APIError.Code.
const (
	ErrCodeValidation         = "VALIDATION_ERROR"
	ErrCodeNotFound           = "NOT_FOUND"
	ErrCodeBadRequest         = "BAD_REQUEST"
	ErrCodeInternal           = "INTERNAL_ERROR"
	ErrCodeServiceUnavailable = "SERVICE_UNAVAILABLE"
	ErrCodeRateLimited        = "RATE_LIMIT_EXCEEDED"
)

// ErrorResponse is the body of every non-2xx response.
//
// Example:
//
//	{
//	  "success": false,
//	  "error": {
//	    "code": "NOT_FOUND",
//	    "message": "film with id 9 not found",
//	    "details": {
//	      "violations": [{"fieldName": "id", "message": "film with id 9 not found"}]
//	    },
//	    "request_id": "0b7c..."
//	  }
//	}
type ErrorResponse struct {
	Success bool      `json:"success"`
	Error   *APIError `json:"error"`
}

// APIError represents an error response with structured error details.
//
// Common error codes:
//   - VALIDATION_ERROR: request body failed field validation
//   - NOT_FOUND: referenced user, film, genre or rating does not exist
//   - BAD_REQUEST: malformed input or a rejected relation change
//   - SERVICE_UNAVAILABLE: storage circuit breaker is open
type APIError struct {
	Code      string                 `json:"code"`
	Message   string                 `json:"message"`
	Details   map[string]interface{} `json:"details,omitempty"`
	RequestID string                 `json:"request_id,omitempty"`
}

// Violation describes one rejected field.
type Violation struct {
	FieldName string `json:"fieldName"`
	Message   string `json:"message"`
}

// Violations returns the violation list stored in Details, if any.
func (e *APIError) Violations() []Violation {
	if e == nil || e.Details == nil {
		return nil
	}
	v, _ := e.Details["violations"].([]Violation)
	return v
}

// HealthResponse is returned by the health endpoints.
type HealthResponse struct {
	Status    string    `json:"status"`
	Storage   string    `json:"storage,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	Error     string    `json:"error,omitempty"`
}
