// Filmorate - Film Catalog and Social Graph Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmorate

package storage

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is matched by every *NotFoundError.
	ErrNotFound = errors.New("not found")

	// ErrLikeExists is returned when a user likes the same film twice.
	ErrLikeExists = errors.New("like already exists")

	// ErrLikeNotFound is returned when removing a like that was never added.
	ErrLikeNotFound = errors.New("like not found")

	// ErrFriendExists is returned when a friendship is added twice.
	ErrFriendExists = errors.New("friendship already exists")

	// ErrUnavailable is returned while a backend refuses calls, for example
	// when its circuit breaker is open.
	ErrUnavailable = errors.New("storage unavailable")
)

// Entity names used in NotFoundError.
const (
	EntityUser  = "user"
	EntityFilm  = "film"
	EntityGenre = "genre"
	EntityMpa   = "mpa rating"
)

// NotFoundError reports a missing entity by kind and id.
type NotFoundError struct {
	Entity string
	ID     int64
}

// NewNotFoundError returns a *NotFoundError for entity/id.
func NewNotFoundError(entity string, id int64) *NotFoundError {
	return &NotFoundError{Entity: entity, ID: id}
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with id %d not found", e.Entity, e.ID)
}

// Is makes errors.Is(err, ErrNotFound) true for any NotFoundError.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// IsNotFound reports whether err is, or wraps, a not-found error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsDomainError reports whether err is an expected repository outcome rather
// than a backend failure. Circuit breakers count domain errors as successes.
func IsDomainError(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrLikeExists) ||
		errors.Is(err, ErrLikeNotFound) ||
		errors.Is(err, ErrFriendExists)
}
