// Filmorate - Film Catalog and Social Graph Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmorate

package service

import (
	"context"

	"github.com/tomtom215/filmorate/internal/models"
	"github.com/tomtom215/filmorate/internal/storage"
)

// GenreService reads genres.
type GenreService struct {
	store storage.GenreStorage
}

func NewGenreService(store storage.GenreStorage) *GenreService {
	return &GenreService{store: store}
}

func (s *GenreService) ListGenres(ctx context.Context) ([]models.Genre, error) {
	return s.store.ListGenres(ctx)
}

func (s *GenreService) GetGenre(ctx context.Context, id int) (*models.Genre, error) {
	return s.store.GetGenre(ctx, id)
}

// MpaService reads MPA ratings.
type MpaService struct {
	store storage.MpaStorage
}

func NewMpaService(store storage.MpaStorage) *MpaService {
	return &MpaService{store: store}
}

func (s *MpaService) ListMpaRatings(ctx context.Context) ([]models.MpaRating, error) {
	return s.store.ListMpaRatings(ctx)
}

func (s *MpaService) GetMpaRating(ctx context.Context, id int) (*models.MpaRating, error) {
	return s.store.GetMpaRating(ctx, id)
}
