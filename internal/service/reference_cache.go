// Filmorate - Film Catalog and Social Graph Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmorate

package service

import (
	"context"
	"time"

	"github.com/tomtom215/filmorate/internal/cache"
	"github.com/tomtom215/filmorate/internal/models"
	"github.com/tomtom215/filmorate/internal/storage"
)

// ReferenceStorage reads genres and MPA ratings.
type ReferenceStorage interface {
	storage.GenreStorage
	storage.MpaStorage
}

// CachedReference serves genres and MPA ratings from a TTL cache in front
// of the store. Not-found results are never cached.
type CachedReference struct {
	store ReferenceStorage

	genres      *cache.Cache[int, models.Genre]
	genreList   *cache.Cache[struct{}, []models.Genre]
	ratings     *cache.Cache[int, models.MpaRating]
	ratingsList *cache.Cache[struct{}, []models.MpaRating]
}

var _ ReferenceStorage = (*CachedReference)(nil)

// NewCachedReference wraps store with caches that hold entries for ttl.
func NewCachedReference(store ReferenceStorage, ttl time.Duration) *CachedReference {
	return &CachedReference{
		store:       store,
		genres:      cache.New[int, models.Genre]("genre", ttl),
		genreList:   cache.New[struct{}, []models.Genre]("genre_list", ttl),
		ratings:     cache.New[int, models.MpaRating]("mpa", ttl),
		ratingsList: cache.New[struct{}, []models.MpaRating]("mpa_list", ttl),
	}
}

func (c *CachedReference) ListGenres(ctx context.Context) ([]models.Genre, error) {
	if genres, ok := c.genreList.Get(struct{}{}); ok {
		return append([]models.Genre(nil), genres...), nil
	}
	genres, err := c.store.ListGenres(ctx)
	if err != nil {
		return nil, err
	}
	c.genreList.Set(struct{}{}, genres)
	return append([]models.Genre(nil), genres...), nil
}

func (c *CachedReference) GetGenre(ctx context.Context, id int) (*models.Genre, error) {
	if g, ok := c.genres.Get(id); ok {
		return &g, nil
	}
	g, err := c.store.GetGenre(ctx, id)
	if err != nil {
		return nil, err
	}
	c.genres.Set(id, *g)
	return g, nil
}

func (c *CachedReference) ListMpaRatings(ctx context.Context) ([]models.MpaRating, error) {
	if ratings, ok := c.ratingsList.Get(struct{}{}); ok {
		return append([]models.MpaRating(nil), ratings...), nil
	}
	ratings, err := c.store.ListMpaRatings(ctx)
	if err != nil {
		return nil, err
	}
	c.ratingsList.Set(struct{}{}, ratings)
	return append([]models.MpaRating(nil), ratings...), nil
}

func (c *CachedReference) GetMpaRating(ctx context.Context, id int) (*models.MpaRating, error) {
	if r, ok := c.ratings.Get(id); ok {
		return &r, nil
	}
	r, err := c.store.GetMpaRating(ctx, id)
	if err != nil {
		return nil, err
	}
	c.ratings.Set(id, *r)
	return r, nil
}
