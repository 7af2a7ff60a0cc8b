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

const userColumns = `u.user_id, u.email, u.login, u.name, u.birthday`

// AddUser inserts a user and returns it with the generated id.
func (db *DB) AddUser(ctx context.Context, user *models.User) (*models.User, error) {
	return call(ctx, db, "insert", "users", func(ctx context.Context) (*models.User, error) {
		id, err := db.insertReturningID(ctx, db.conn,
			`INSERT INTO users (email, login, name, birthday) VALUES (?, ?, ?, ?)`,
			"user_id", user.Email, user.Login, user.Name, user.Birthday)
		if err != nil {
			return nil, fmt.Errorf("insert user: %w", err)
		}
		stored := *user
		stored.ID = id
		return &stored, nil
	})
}

// UpdateUser replaces every mutable column of an existing user.
func (db *DB) UpdateUser(ctx context.Context, user *models.User) (*models.User, error) {
	return call(ctx, db, "update", "users", func(ctx context.Context) (*models.User, error) {
		res, err := db.conn.ExecContext(ctx,
			`UPDATE users SET email = ?, login = ?, name = ?, birthday = ? WHERE user_id = ?`,
			user.Email, user.Login, user.Name, user.Birthday, user.ID)
		if err != nil {
			return nil, fmt.Errorf("update user %d: %w", user.ID, err)
		}
		found, err := affectedOne(res)
		if err != nil {
			return nil, err
		}
		if !found {
			return nil, storage.NewNotFoundError(storage.EntityUser, user.ID)
		}
		stored := *user
		return &stored, nil
	})
}

// GetUser returns the user with id.
func (db *DB) GetUser(ctx context.Context, id int64) (*models.User, error) {
	return call(ctx, db, "select", "users", func(ctx context.Context) (*models.User, error) {
		var u models.User
		err := scanUser(db.conn.QueryRowContext(ctx,
			`SELECT `+userColumns+` FROM users u WHERE u.user_id = ?`, id), &u)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.NewNotFoundError(storage.EntityUser, id)
		}
		if err != nil {
			return nil, fmt.Errorf("select user %d: %w", id, err)
		}
		return &u, nil
	})
}

// ListUsers returns every user ordered by id.
func (db *DB) ListUsers(ctx context.Context) ([]models.User, error) {
	return call(ctx, db, "select", "users", func(ctx context.Context) ([]models.User, error) {
		return db.queryUsers(ctx, `SELECT `+userColumns+` FROM users u ORDER BY u.user_id`)
	})
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanUser(row rowScanner, u *models.User) error {
	return row.Scan(&u.ID, &u.Email, &u.Login, &u.Name, &u.Birthday)
}

// queryUsers runs a query selecting userColumns.
func (db *DB) queryUsers(ctx context.Context, query string, args ...interface{}) ([]models.User, error) {
	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}
	defer rows.Close()

	users := make([]models.User, 0)
	for rows.Next() {
		var u models.User
		if err := scanUser(rows, &u); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}
