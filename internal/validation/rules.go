// Filmorate - Film Catalog and Social Graph Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmorate

package validation

import (
	"reflect"
	"strings"
	"time"
	"unicode"

	"github.com/go-playground/validator/v10"

	"github.com/tomtom215/filmorate/internal/models"
)

// isNotBlank rejects empty and whitespace-only strings.
func isNotBlank(fl validator.FieldLevel) bool {
	field := fl.Field()
	if field.Kind() != reflect.String {
		return false
	}
	return strings.TrimSpace(field.String()) != ""
}

// hasNoWhitespace matches the login pattern ^\S+$ (emptiness is left to "required").
func hasNoWhitespace(fl validator.FieldLevel) bool {
	field := fl.Field()
	if field.Kind() != reflect.String {
		return false
	}
	return !strings.ContainsFunc(field.String(), unicode.IsSpace)
}

// isValidReleaseDate rejects dates before models.EarliestReleaseDate.
func isValidReleaseDate(fl validator.FieldLevel) bool {
	t, ok := fieldTime(fl)
	if !ok {
		return false
	}
	return !t.Before(models.EarliestReleaseDate.Time)
}

// isPastOrPresent rejects dates after today (UTC).
func isPastOrPresent(fl validator.FieldLevel) bool {
	t, ok := fieldTime(fl)
	if !ok {
		return false
	}
	return !models.DateOf(t).After(models.Today().Time)
}

func fieldTime(fl validator.FieldLevel) (time.Time, bool) {
	t, ok := fl.Field().Interface().(time.Time)
	return t, ok
}
