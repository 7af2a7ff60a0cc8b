// Filmorate - Film Catalog and Social Graph Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmorate

package service

import (
	"errors"

	"github.com/tomtom215/filmorate/internal/storage"
)

// ErrSelfFriendship is returned when a user tries to befriend themselves.
var ErrSelfFriendship = errors.New("a user cannot add themselves as a friend")

// ErrInvalidCount is returned for a non-positive popular films count.
var ErrInvalidCount = errors.New("count must be positive")

// IsBadRequest reports whether err is a rejected relation change or
// argument that the client can correct.
func IsBadRequest(err error) bool {
	return errors.Is(err, ErrSelfFriendship) ||
		errors.Is(err, ErrInvalidCount) ||
		errors.Is(err, storage.ErrLikeExists) ||
		errors.Is(err, storage.ErrLikeNotFound) ||
		errors.Is(err, storage.ErrFriendExists)
}
