// Filmorate - Film Catalog and Social Graph Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmorate

package service

import (
	"context"
	"fmt"
	"sort"

	"github.com/tomtom215/filmorate/internal/logging"
	"github.com/tomtom215/filmorate/internal/metrics"
	"github.com/tomtom215/filmorate/internal/models"
	"github.com/tomtom215/filmorate/internal/storage"
	"github.com/tomtom215/filmorate/internal/validation"
)

// FilmService manages the film catalog and likes.
type FilmService struct {
	store     storage.Store
	reference ReferenceStorage
	events    EventPublisher
}

// NewFilmService creates a film service. events may be nil.
func NewFilmService(store storage.Store, events EventPublisher) *FilmService {
	return &FilmService{store: store, reference: store, events: events}
}

// WithReference makes the service resolve genres and ratings through ref,
// typically a CachedReference over the same store.
func (s *FilmService) WithReference(ref ReferenceStorage) *FilmService {
	if ref != nil {
		s.reference = ref
	}
	return s
}

// AddFilm validates, enriches and stores a new film. The id must be unset.
func (s *FilmService) AddFilm(ctx context.Context, film *models.Film) (*models.Film, error) {
	if film.ID != 0 {
		return nil, validation.NewFieldError("id", "id must not be set when creating a film")
	}
	if err := validation.Validate(film); err != nil {
		return nil, err
	}
	if err := s.enrich(ctx, film); err != nil {
		return nil, err
	}

	created, err := s.store.AddFilm(ctx, film)
	if err != nil {
		return nil, fmt.Errorf("add film: %w", err)
	}
	logging.CtxInfo(ctx).Int64("film_id", created.ID).Str("name", created.Name).Msg("Film created")
	return created, nil
}

// UpdateFilm validates, enriches and replaces an existing film. Likes are kept.
func (s *FilmService) UpdateFilm(ctx context.Context, film *models.Film) (*models.Film, error) {
	if film.ID == 0 {
		return nil, validation.NewFieldError("id", "id is required when updating a film")
	}
	if err := validation.Validate(film); err != nil {
		return nil, err
	}
	if err := s.enrich(ctx, film); err != nil {
		return nil, err
	}

	updated, err := s.store.UpdateFilm(ctx, film)
	if err != nil {
		return nil, fmt.Errorf("update film: %w", err)
	}
	logging.CtxInfo(ctx).Int64("film_id", updated.ID).Msg("Film updated")
	return updated, nil
}

// GetFilm returns the film or a not-found error.
func (s *FilmService) GetFilm(ctx context.Context, id int64) (*models.Film, error) {
	return s.store.GetFilm(ctx, id)
}

// ListFilms returns all films ordered by id.
func (s *FilmService) ListFilms(ctx context.Context) ([]models.Film, error) {
	return s.store.ListFilms(ctx)
}

// AddLike records that userID likes filmID.
func (s *FilmService) AddLike(ctx context.Context, filmID, userID int64) error {
	if err := s.requireFilmAndUser(ctx, filmID, userID); err != nil {
		return err
	}
	if err := s.store.AddLike(ctx, filmID, userID); err != nil {
		return fmt.Errorf("add like: %w", err)
	}

	metrics.RecordLike(models.OperationAdd)
	logging.CtxInfo(ctx).Int64("film_id", filmID).Int64("user_id", userID).Msg("Like added")
	publish(ctx, s.events, models.NewFeedEvent(userID, models.EventTypeLike, models.OperationAdd, filmID))
	return nil
}

// RemoveLike deletes userID's like of filmID.
func (s *FilmService) RemoveLike(ctx context.Context, filmID, userID int64) error {
	if err := s.requireFilmAndUser(ctx, filmID, userID); err != nil {
		return err
	}
	if err := s.store.RemoveLike(ctx, filmID, userID); err != nil {
		return fmt.Errorf("remove like: %w", err)
	}

	metrics.RecordLike(models.OperationRemove)
	logging.CtxInfo(ctx).Int64("film_id", filmID).Int64("user_id", userID).Msg("Like removed")
	publish(ctx, s.events, models.NewFeedEvent(userID, models.EventTypeLike, models.OperationRemove, filmID))
	return nil
}

// PopularFilms returns up to count films, most liked first.
func (s *FilmService) PopularFilms(ctx context.Context, count int) ([]models.Film, error) {
	if count <= 0 {
		return nil, ErrInvalidCount
	}
	return s.store.PopularFilms(ctx, count)
}

func (s *FilmService) requireFilmAndUser(ctx context.Context, filmID, userID int64) error {
	if _, err := s.store.GetFilm(ctx, filmID); err != nil {
		return err
	}
	if _, err := s.store.GetUser(ctx, userID); err != nil {
		return err
	}
	return nil
}

// enrich resolves the film's genres and rating against reference data.
//
// Genres with a zero id are dropped, duplicates collapse, and the result is
// sorted by id. A missing rating becomes models.DefaultMpaID.
func (s *FilmService) enrich(ctx context.Context, film *models.Film) error {
	seen := make(map[int]struct{}, len(film.Genres))
	genres := make([]models.Genre, 0, len(film.Genres))
	for _, g := range film.Genres {
		if g.ID == 0 {
			continue
		}
		if _, dup := seen[g.ID]; dup {
			continue
		}
		seen[g.ID] = struct{}{}

		resolved, err := s.reference.GetGenre(ctx, g.ID)
		if err != nil {
			return err
		}
		genres = append(genres, *resolved)
	}
	sort.Slice(genres, func(i, j int) bool { return genres[i].ID < genres[j].ID })
	film.Genres = genres

	mpaID := models.DefaultMpaID
	if film.Mpa != nil && film.Mpa.ID != 0 {
		mpaID = film.Mpa.ID
	}
	rating, err := s.reference.GetMpaRating(ctx, mpaID)
	if err != nil {
		return err
	}
	film.Mpa = rating
	return nil
}
