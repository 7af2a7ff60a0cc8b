// Filmorate - Film Catalog and Social Graph Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmorate

package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/tomtom215/filmorate/internal/logging"
	"github.com/tomtom215/filmorate/internal/models"
)

// seedReferenceData inserts the default genres and MPA ratings. Rows that
// already exist are left untouched, so renamed reference rows survive restarts.
func (db *DB) seedReferenceData(ctx context.Context) error {
	inserted := 0
	err := db.withTx(ctx, func(tx *sql.Tx) error {
		inserted = 0
		for _, g := range models.DefaultGenres() {
			ok, err := insertIfAbsent(ctx, tx, "genres", "genre_id", "name", g.ID, g.Name)
			if err != nil {
				return err
			}
			if ok {
				inserted++
			}
		}
		for _, m := range models.DefaultMpaRatings() {
			ok, err := insertIfAbsent(ctx, tx, "mpa_ratings", "mpa_id", "code", m.ID, m.Name)
			if err != nil {
				return err
			}
			if ok {
				inserted++
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to seed reference data: %w", err)
	}

	if inserted > 0 {
		logging.Info().Int("rows", inserted).Msg("Seeded genre and MPA reference data")
	}
	return nil
}

// insertIfAbsent inserts (id, label) into a two-column reference table.
// Table and column names are package constants, never user input.
func insertIfAbsent(ctx context.Context, tx *sql.Tx, table, idColumn, labelColumn string, id int, label string) (bool, error) {
	var count int
	if err := tx.QueryRowContext(ctx,
		fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE %s = ?`, table, idColumn), id,
	).Scan(&count); err != nil {
		return false, fmt.Errorf("check %s %d: %w", table, id, err)
	}
	if count > 0 {
		return false, nil
	}

	if _, err := tx.ExecContext(ctx,
		fmt.Sprintf(`INSERT INTO %s (%s, %s) VALUES (?, ?)`, table, idColumn, labelColumn), id, label,
	); err != nil {
		return false, fmt.Errorf("insert %s %d: %w", table, id, err)
	}
	return true, nil
}
