// Filmorate - Film Catalog and Social Graph Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmorate

// Package validation provides struct validation using go-playground/validator v10.
//
// A thread-safe singleton validator carries the Filmorate rules as custom tags:
//
//	notblank       string is not empty after trimming
//	nowhitespace   string contains no whitespace (login)
//	releasedate    date is on or after 1895-12-28
//	pastorpresent  date is not after today
//
// models.Date values are exposed to the validator as time.Time, and unset
// dates as nil so that "required" rejects them. Field errors carry the JSON
// field name and convert to the API violation list:
//
//	if err := validation.ValidateStruct(&film); err != nil {
//	    apiErr := err.ToAPIError()
//	    // apiErr.Details["violations"] = [{"fieldName":"releaseDate", ...}]
//	}
package validation
