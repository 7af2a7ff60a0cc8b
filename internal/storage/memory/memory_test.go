// Filmorate - Film Catalog and Social Graph Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmorate

package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/tomtom215/filmorate/internal/models"
	"github.com/tomtom215/filmorate/internal/storage"
	"github.com/tomtom215/filmorate/internal/storage/storagetest"
)

func TestConformance(t *testing.T) {
	storagetest.Run(t, func(t *testing.T) storage.Store { return New() })
}

func TestConcurrentLikes(t *testing.T) {
	t.Parallel()

	s := New()
	ctx := context.Background()
	film, err := s.AddFilm(ctx, &models.Film{
		Name:        "concurrent",
		ReleaseDate: models.NewDate(2000, time.January, 1),
		Duration:    90,
	})
	if err != nil {
		t.Fatalf("AddFilm: %v", err)
	}

	const users = 50
	var wg sync.WaitGroup
	for i := int64(1); i <= users; i++ {
		wg.Add(1)
		go func(userID int64) {
			defer wg.Done()
			if err := s.AddLike(ctx, film.ID, userID); err != nil {
				t.Errorf("AddLike(%d): %v", userID, err)
			}
			if _, err := s.PopularFilms(ctx, 1); err != nil {
				t.Errorf("PopularFilms: %v", err)
			}
		}(i)
	}
	wg.Wait()

	got, err := s.GetFilm(ctx, film.ID)
	if err != nil {
		t.Fatalf("GetFilm: %v", err)
	}
	if got.LikeCount() != users {
		t.Errorf("LikeCount = %d, want %d", got.LikeCount(), users)
	}
}

func TestIndependentSequences(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	a, b := New(), New()

	ua, err := a.AddUser(ctx, &models.User{Login: "a"})
	if err != nil {
		t.Fatalf("AddUser: %v", err)
	}
	ub, err := b.AddUser(ctx, &models.User{Login: "b"})
	if err != nil {
		t.Fatalf("AddUser: %v", err)
	}
	if ua.ID != 1 || ub.ID != 1 {
		t.Errorf("each store should own its sequence, got %d and %d", ua.ID, ub.ID)
	}
}
