// Filmorate - Film Catalog and Social Graph Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmorate

package storage

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestNotFoundError(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("update: %w", NewNotFoundError(EntityFilm, 9))

	if !errors.Is(err, ErrNotFound) {
		t.Error("wrapped NotFoundError should match ErrNotFound")
	}
	if !IsNotFound(err) {
		t.Error("IsNotFound() = false, want true")
	}

	var nf *NotFoundError
	if !errors.As(err, &nf) {
		t.Fatal("errors.As should find *NotFoundError")
	}
	if nf.Entity != EntityFilm || nf.ID != 9 {
		t.Errorf("NotFoundError = %+v", nf)
	}
	if nf.Error() != "film with id 9 not found" {
		t.Errorf("Error() = %q", nf.Error())
	}
}

func TestIsDomainError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"not found", NewNotFoundError(EntityUser, 1), true},
		{"like exists", fmt.Errorf("add: %w", ErrLikeExists), true},
		{"like missing", ErrLikeNotFound, true},
		{"friend exists", ErrFriendExists, true},
		{"backend failure", errors.New("connection refused"), false},
		{"context canceled", context.Canceled, false},
		{"nil", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := IsDomainError(tt.err); got != tt.want {
				t.Errorf("IsDomainError(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}
