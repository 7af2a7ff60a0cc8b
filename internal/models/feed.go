// Filmorate - Film Catalog and Social Graph Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmorate

package models

import "time"

// Feed event types.
const (
	EventTypeLike   = "LIKE"
	EventTypeFriend = "FRIEND"
)

// Feed event operations.
const (
	OperationAdd    = "ADD"
	OperationRemove = "REMOVE"
)

// FeedEvent records a social action taken by a user.
//
// EntityID is the film id for LIKE events and the friend's user id for
// FRIEND events. Timestamp is in Unix milliseconds.
type FeedEvent struct {
	EventID   int64  `json:"eventId"`
	UserID    int64  `json:"userId"`
	EventType string `json:"eventType"`
	Operation string `json:"operation"`
	EntityID  int64  `json:"entityId"`
	Timestamp int64  `json:"timestamp"`
}

// NewFeedEvent creates an unsaved event stamped with the current time.
func NewFeedEvent(userID int64, eventType, operation string, entityID int64) FeedEvent {
	return FeedEvent{
		UserID:    userID,
		EventType: eventType,
		Operation: operation,
		EntityID:  entityID,
		Timestamp: time.Now().UnixMilli(),
	}
}
