// Filmorate - Film Catalog and Social Graph Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmorate

package database

import (
	"context"
	"fmt"

	"github.com/tomtom215/filmorate/internal/models"
	"github.com/tomtom215/filmorate/internal/storage"
)

// AddFriend stores the directed edge userID -> friendID.
func (db *DB) AddFriend(ctx context.Context, userID, friendID int64) error {
	return exec(ctx, db, "insert", "friendships", func(ctx context.Context) error {
		dup, err := rowExists(ctx, db.conn,
			`SELECT COUNT(*) FROM friendships WHERE user_id = ? AND friend_id = ?`, userID, friendID)
		if err != nil {
			return err
		}
		if dup {
			return storage.ErrFriendExists
		}

		if _, err := db.conn.ExecContext(ctx,
			`INSERT INTO friendships (user_id, friend_id, status) VALUES (?, ?, ?)`,
			userID, friendID, models.FriendshipConfirmed,
		); err != nil {
			if isUniqueConstraintError(err) {
				return storage.ErrFriendExists
			}
			return fmt.Errorf("insert friendship: %w", err)
		}
		return nil
	})
}

// RemoveFriend deletes the edge if present.
func (db *DB) RemoveFriend(ctx context.Context, userID, friendID int64) error {
	return exec(ctx, db, "delete", "friendships", func(ctx context.Context) error {
		if _, err := db.conn.ExecContext(ctx,
			`DELETE FROM friendships WHERE user_id = ? AND friend_id = ?`, userID, friendID,
		); err != nil {
			return fmt.Errorf("delete friendship: %w", err)
		}
		return nil
	})
}

// ListFriends returns the users userID has added, ordered by id.
func (db *DB) ListFriends(ctx context.Context, userID int64) ([]models.User, error) {
	return call(ctx, db, "select", "friendships", func(ctx context.Context) ([]models.User, error) {
		return db.queryUsers(ctx, `SELECT `+userColumns+`
FROM friendships f
JOIN users u ON u.user_id = f.friend_id
WHERE f.user_id = ?
ORDER BY u.user_id`, userID)
	})
}

// CommonFriends returns users both userID and otherID have added.
func (db *DB) CommonFriends(ctx context.Context, userID, otherID int64) ([]models.User, error) {
	return call(ctx, db, "select", "friendships", func(ctx context.Context) ([]models.User, error) {
		return db.queryUsers(ctx, `SELECT `+userColumns+`
FROM friendships f1
JOIN friendships f2 ON f2.friend_id = f1.friend_id AND f2.user_id = ?
JOIN users u ON u.user_id = f1.friend_id
WHERE f1.user_id = ?
ORDER BY u.user_id`, otherID, userID)
	})
}
