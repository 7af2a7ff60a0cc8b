// Filmorate - Film Catalog and Social Graph Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmorate

package database

import (
	"context"
	"fmt"

	"github.com/tomtom215/filmorate/internal/models"
)

// AddFeedEvent appends an event and sets event.EventID.
func (db *DB) AddFeedEvent(ctx context.Context, event *models.FeedEvent) error {
	return exec(ctx, db, "insert", "feed_events", func(ctx context.Context) error {
		id, err := db.insertReturningID(ctx, db.conn,
			`INSERT INTO feed_events (user_id, event_type, operation, entity_id, event_ts) VALUES (?, ?, ?, ?, ?)`,
			"event_id", event.UserID, event.EventType, event.Operation, event.EntityID, event.Timestamp)
		if err != nil {
			return fmt.Errorf("insert feed event: %w", err)
		}
		event.EventID = id
		return nil
	})
}

// ListFeed returns the user's events in insertion order.
func (db *DB) ListFeed(ctx context.Context, userID int64) ([]models.FeedEvent, error) {
	return call(ctx, db, "select", "feed_events", func(ctx context.Context) ([]models.FeedEvent, error) {
		rows, err := db.conn.QueryContext(ctx, `SELECT event_id, user_id, event_type, operation, entity_id, event_ts
FROM feed_events
WHERE user_id = ?
ORDER BY event_id`, userID)
		if err != nil {
			return nil, fmt.Errorf("query feed: %w", err)
		}
		defer rows.Close()

		events := make([]models.FeedEvent, 0)
		for rows.Next() {
			var e models.FeedEvent
			if err := rows.Scan(&e.EventID, &e.UserID, &e.EventType, &e.Operation, &e.EntityID, &e.Timestamp); err != nil {
				return nil, fmt.Errorf("scan feed event: %w", err)
			}
			events = append(events, e)
		}
		return events, rows.Err()
	})
}
