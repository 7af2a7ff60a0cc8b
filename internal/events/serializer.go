// Filmorate - Film Catalog and Social Graph Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmorate

package events

import (
	"errors"
	"fmt"

	"github.com/goccy/go-json"

	"github.com/tomtom215/filmorate/internal/models"
)

// ErrInvalidEvent is returned for feed events that fail validation.
var ErrInvalidEvent = errors.New("invalid feed event")

// Serializer handles feed event encoding/decoding for bus messages.
type Serializer struct{}

// NewSerializer creates a new serializer.
func NewSerializer() *Serializer {
	return &Serializer{}
}

// Marshal validates an event and converts it to JSON bytes.
func (s *Serializer) Marshal(event *models.FeedEvent) ([]byte, error) {
	if err := Validate(event); err != nil {
		return nil, fmt.Errorf("validate event: %w", err)
	}

	data, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("marshal event: %w", err)
	}

	return data, nil
}

// Unmarshal converts JSON bytes to a validated event.
func (s *Serializer) Unmarshal(data []byte) (*models.FeedEvent, error) {
	var event models.FeedEvent
	if err := json.Unmarshal(data, &event); err != nil {
		return nil, fmt.Errorf("unmarshal event: %w", err)
	}
	if err := Validate(&event); err != nil {
		return nil, fmt.Errorf("validate event: %w", err)
	}

	return &event, nil
}

// Validate checks the fields a feed event must carry before it is stored.
func Validate(event *models.FeedEvent) error {
	if event == nil {
		return fmt.Errorf("%w: nil event", ErrInvalidEvent)
	}
	if event.UserID <= 0 {
		return fmt.Errorf("%w: user id %d", ErrInvalidEvent, event.UserID)
	}
	if event.EntityID <= 0 {
		return fmt.Errorf("%w: entity id %d", ErrInvalidEvent, event.EntityID)
	}
	switch event.EventType {
	case models.EventTypeLike, models.EventTypeFriend:
	default:
		return fmt.Errorf("%w: event type %q", ErrInvalidEvent, event.EventType)
	}
	switch event.Operation {
	case models.OperationAdd, models.OperationRemove:
	default:
		return fmt.Errorf("%w: operation %q", ErrInvalidEvent, event.Operation)
	}
	return nil
}
