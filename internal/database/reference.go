// Filmorate - Film Catalog and Social Graph Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmorate

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/tomtom215/filmorate/internal/models"
	"github.com/tomtom215/filmorate/internal/storage"
)

func (db *DB) ListGenres(ctx context.Context) ([]models.Genre, error) {
	return call(ctx, db, "select", "genres", func(ctx context.Context) ([]models.Genre, error) {
		rows, err := db.conn.QueryContext(ctx, `SELECT genre_id, name FROM genres ORDER BY genre_id`)
		if err != nil {
			return nil, fmt.Errorf("query genres: %w", err)
		}
		defer rows.Close()

		genres := make([]models.Genre, 0)
		for rows.Next() {
			var g models.Genre
			if err := rows.Scan(&g.ID, &g.Name); err != nil {
				return nil, fmt.Errorf("scan genre: %w", err)
			}
			genres = append(genres, g)
		}
		return genres, rows.Err()
	})
}

func (db *DB) GetGenre(ctx context.Context, id int) (*models.Genre, error) {
	return call(ctx, db, "select", "genres", func(ctx context.Context) (*models.Genre, error) {
		g := models.Genre{ID: id}
		err := db.conn.QueryRowContext(ctx, `SELECT name FROM genres WHERE genre_id = ?`, id).Scan(&g.Name)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.NewNotFoundError(storage.EntityGenre, int64(id))
		}
		if err != nil {
			return nil, fmt.Errorf("select genre %d: %w", id, err)
		}
		return &g, nil
	})
}

func (db *DB) ListMpaRatings(ctx context.Context) ([]models.MpaRating, error) {
	return call(ctx, db, "select", "mpa_ratings", func(ctx context.Context) ([]models.MpaRating, error) {
		rows, err := db.conn.QueryContext(ctx, `SELECT mpa_id, code FROM mpa_ratings ORDER BY mpa_id`)
		if err != nil {
			return nil, fmt.Errorf("query mpa ratings: %w", err)
		}
		defer rows.Close()

		ratings := make([]models.MpaRating, 0)
		for rows.Next() {
			var m models.MpaRating
			if err := rows.Scan(&m.ID, &m.Name); err != nil {
				return nil, fmt.Errorf("scan mpa rating: %w", err)
			}
			ratings = append(ratings, m)
		}
		return ratings, rows.Err()
	})
}

func (db *DB) GetMpaRating(ctx context.Context, id int) (*models.MpaRating, error) {
	return call(ctx, db, "select", "mpa_ratings", func(ctx context.Context) (*models.MpaRating, error) {
		m := models.MpaRating{ID: id}
		err := db.conn.QueryRowContext(ctx, `SELECT code FROM mpa_ratings WHERE mpa_id = ?`, id).Scan(&m.Name)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.NewNotFoundError(storage.EntityMpa, int64(id))
		}
		if err != nil {
			return nil, fmt.Errorf("select mpa rating %d: %w", id, err)
		}
		return &m, nil
	})
}
