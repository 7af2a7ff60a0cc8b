// Filmorate - Film Catalog and Social Graph Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmorate

package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/tomtom215/filmorate/internal/database/query"
	"github.com/tomtom215/filmorate/internal/models"
	"github.com/tomtom215/filmorate/internal/storage"
)

const filmColumns = `f.film_id, f.name, f.description, f.release_date, f.duration, f.mpa_id, m.code`

// AddFilm inserts a film and its genre links in one transaction.
func (db *DB) AddFilm(ctx context.Context, film *models.Film) (*models.Film, error) {
	return call(ctx, db, "insert", "films", func(ctx context.Context) (*models.Film, error) {
		var stored *models.Film
		err := db.withTx(ctx, func(tx *sql.Tx) error {
			id, err := db.insertReturningID(ctx, tx,
				`INSERT INTO films (name, description, release_date, duration, mpa_id) VALUES (?, ?, ?, ?, ?)`,
				"film_id", film.Name, film.Description, film.ReleaseDate, film.Duration, mpaID(film))
			if err != nil {
				return fmt.Errorf("insert film: %w", err)
			}
			if err := insertFilmGenres(ctx, tx, id, film.Genres); err != nil {
				return err
			}
			stored, err = loadFilm(ctx, tx, id)
			return err
		})
		return stored, err
	})
}

// UpdateFilm replaces the scalar columns and the genre links of a film.
// Likes are not touched.
func (db *DB) UpdateFilm(ctx context.Context, film *models.Film) (*models.Film, error) {
	return call(ctx, db, "update", "films", func(ctx context.Context) (*models.Film, error) {
		var stored *models.Film
		err := db.withTx(ctx, func(tx *sql.Tx) error {
			res, err := tx.ExecContext(ctx,
				`UPDATE films SET name = ?, description = ?, release_date = ?, duration = ?, mpa_id = ? WHERE film_id = ?`,
				film.Name, film.Description, film.ReleaseDate, film.Duration, mpaID(film), film.ID)
			if err != nil {
				return fmt.Errorf("update film %d: %w", film.ID, err)
			}
			found, err := affectedOne(res)
			if err != nil {
				return err
			}
			if !found {
				return storage.NewNotFoundError(storage.EntityFilm, film.ID)
			}

			if _, err := tx.ExecContext(ctx, `DELETE FROM film_genres WHERE film_id = ?`, film.ID); err != nil {
				return fmt.Errorf("clear genres of film %d: %w", film.ID, err)
			}
			if err := insertFilmGenres(ctx, tx, film.ID, film.Genres); err != nil {
				return err
			}
			stored, err = loadFilm(ctx, tx, film.ID)
			return err
		})
		return stored, err
	})
}

// GetFilm returns a film with its rating, genres and likes.
func (db *DB) GetFilm(ctx context.Context, id int64) (*models.Film, error) {
	return call(ctx, db, "select", "films", func(ctx context.Context) (*models.Film, error) {
		return loadFilm(ctx, db.conn, id)
	})
}

// ListFilms returns every film ordered by id.
func (db *DB) ListFilms(ctx context.Context) ([]models.Film, error) {
	return call(ctx, db, "select", "films", func(ctx context.Context) ([]models.Film, error) {
		return loadFilms(ctx, db.conn, nil)
	})
}

// AddLike records that userID likes filmID.
func (db *DB) AddLike(ctx context.Context, filmID, userID int64) error {
	return exec(ctx, db, "insert", "film_likes", func(ctx context.Context) error {
		return db.withTx(ctx, func(tx *sql.Tx) error {
			ok, err := rowExists(ctx, tx, `SELECT COUNT(*) FROM films WHERE film_id = ?`, filmID)
			if err != nil {
				return err
			}
			if !ok {
				return storage.NewNotFoundError(storage.EntityFilm, filmID)
			}

			dup, err := rowExists(ctx, tx, `SELECT COUNT(*) FROM film_likes WHERE film_id = ? AND user_id = ?`, filmID, userID)
			if err != nil {
				return err
			}
			if dup {
				return storage.ErrLikeExists
			}

			if _, err := tx.ExecContext(ctx,
				`INSERT INTO film_likes (film_id, user_id) VALUES (?, ?)`, filmID, userID,
			); err != nil {
				if isUniqueConstraintError(err) {
					return storage.ErrLikeExists
				}
				return fmt.Errorf("insert like: %w", err)
			}
			return nil
		})
	})
}

// RemoveLike deletes a like; storage.ErrLikeNotFound if there was none.
func (db *DB) RemoveLike(ctx context.Context, filmID, userID int64) error {
	return exec(ctx, db, "delete", "film_likes", func(ctx context.Context) error {
		res, err := db.conn.ExecContext(ctx,
			`DELETE FROM film_likes WHERE film_id = ? AND user_id = ?`, filmID, userID)
		if err != nil {
			return fmt.Errorf("delete like: %w", err)
		}
		found, err := affectedOne(res)
		if err != nil {
			return err
		}
		if !found {
			return storage.ErrLikeNotFound
		}
		return nil
	})
}

// PopularFilms ranks films by like count in SQL and loads the top count.
// A negative count returns every film.
func (db *DB) PopularFilms(ctx context.Context, count int) ([]models.Film, error) {
	return call(ctx, db, "select", "film_likes", func(ctx context.Context) ([]models.Film, error) {
		q := `SELECT f.film_id FROM films f
LEFT JOIN film_likes l ON l.film_id = f.film_id
GROUP BY f.film_id
ORDER BY COUNT(l.user_id) DESC, f.film_id ASC`
		var args []interface{}
		if count >= 0 {
			q += ` LIMIT ?`
			args = append(args, count)
		}

		ids, err := queryIDs(ctx, db.conn, q, args...)
		if err != nil {
			return nil, fmt.Errorf("rank films: %w", err)
		}

		films, err := loadFilms(ctx, db.conn, ids)
		if err != nil {
			return nil, err
		}
		byID := make(map[int64]models.Film, len(films))
		for _, f := range films {
			byID[f.ID] = f
		}
		ranked := make([]models.Film, 0, len(ids))
		for _, id := range ids {
			if f, ok := byID[id]; ok {
				ranked = append(ranked, f)
			}
		}
		return ranked, nil
	})
}

func mpaID(f *models.Film) interface{} {
	if f.Mpa == nil {
		return nil
	}
	return f.Mpa.ID
}

func insertFilmGenres(ctx context.Context, tx *sql.Tx, filmID int64, genres []models.Genre) error {
	seen := make(map[int]struct{}, len(genres))
	for _, g := range genres {
		if _, dup := seen[g.ID]; dup {
			continue
		}
		seen[g.ID] = struct{}{}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO film_genres (film_id, genre_id) VALUES (?, ?)`, filmID, g.ID,
		); err != nil {
			return fmt.Errorf("link genre %d to film %d: %w", g.ID, filmID, err)
		}
	}
	return nil
}

func loadFilm(ctx context.Context, q queryer, id int64) (*models.Film, error) {
	films, err := loadFilms(ctx, q, []int64{id})
	if err != nil {
		return nil, err
	}
	if len(films) == 0 {
		return nil, storage.NewNotFoundError(storage.EntityFilm, id)
	}
	return &films[0], nil
}

// loadFilms returns films ordered by id with genres and likes attached.
// A nil ids slice loads every film.
func loadFilms(ctx context.Context, q queryer, ids []int64) ([]models.Film, error) {
	where, args := query.NewWhereBuilder().AddIDs("f.film_id", ids).BuildWithPrefix()
	rows, err := q.QueryContext(ctx,
		`SELECT `+filmColumns+` FROM films f LEFT JOIN mpa_ratings m ON m.mpa_id = f.mpa_id `+where+` ORDER BY f.film_id`,
		args...)
	if err != nil {
		return nil, fmt.Errorf("query films: %w", err)
	}

	films := make([]models.Film, 0)
	index := make(map[int64]int)
	for rows.Next() {
		var (
			f       models.Film
			mpa     sql.NullInt64
			mpaCode sql.NullString
		)
		if err := rows.Scan(&f.ID, &f.Name, &f.Description, &f.ReleaseDate, &f.Duration, &mpa, &mpaCode); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan film: %w", err)
		}
		if mpa.Valid {
			f.Mpa = &models.MpaRating{ID: int(mpa.Int64), Name: mpaCode.String}
		}
		index[f.ID] = len(films)
		films = append(films, f)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	if len(films) == 0 {
		return films, nil
	}
	if err := attachGenres(ctx, q, ids, films, index); err != nil {
		return nil, err
	}
	if err := attachLikes(ctx, q, ids, films, index); err != nil {
		return nil, err
	}
	for i := range films {
		films[i].NormalizeCollections()
	}
	return films, nil
}

func attachGenres(ctx context.Context, q queryer, ids []int64, films []models.Film, index map[int64]int) error {
	where, args := query.NewWhereBuilder().AddIDs("fg.film_id", ids).BuildWithPrefix()
	rows, err := q.QueryContext(ctx,
		`SELECT fg.film_id, g.genre_id, g.name FROM film_genres fg JOIN genres g ON g.genre_id = fg.genre_id `+where+` ORDER BY fg.film_id, g.genre_id`,
		args...)
	if err != nil {
		return fmt.Errorf("query film genres: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			filmID int64
			g      models.Genre
		)
		if err := rows.Scan(&filmID, &g.ID, &g.Name); err != nil {
			return fmt.Errorf("scan film genre: %w", err)
		}
		if i, ok := index[filmID]; ok {
			films[i].Genres = append(films[i].Genres, g)
		}
	}
	return rows.Err()
}

func attachLikes(ctx context.Context, q queryer, ids []int64, films []models.Film, index map[int64]int) error {
	where, args := query.NewWhereBuilder().AddIDs("film_id", ids).BuildWithPrefix()
	rows, err := q.QueryContext(ctx,
		`SELECT film_id, user_id FROM film_likes `+where+` ORDER BY film_id, user_id`,
		args...)
	if err != nil {
		return fmt.Errorf("query film likes: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var filmID, userID int64
		if err := rows.Scan(&filmID, &userID); err != nil {
			return fmt.Errorf("scan film like: %w", err)
		}
		if i, ok := index[filmID]; ok {
			films[i].Likes = append(films[i].Likes, userID)
		}
	}
	return rows.Err()
}

func rowExists(ctx context.Context, q queryer, countQuery string, args ...interface{}) (bool, error) {
	var n int64
	if err := q.QueryRowContext(ctx, countQuery, args...).Scan(&n); err != nil {
		return false, fmt.Errorf("existence check: %w", err)
	}
	return n > 0, nil
}

func queryIDs(ctx context.Context, q queryer, stmt string, args ...interface{}) ([]int64, error) {
	rows, err := q.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := make([]int64, 0)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
