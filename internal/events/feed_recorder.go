// Filmorate - Film Catalog and Social Graph Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmorate

package events

import (
	"errors"
	"fmt"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"

	"github.com/tomtom215/filmorate/internal/logging"
	"github.com/tomtom215/filmorate/internal/metrics"
	"github.com/tomtom215/filmorate/internal/storage"
)

// FeedRecorderHandlerName identifies the recorder in router logs.
const FeedRecorderHandlerName = "feed-recorder"

// FeedRecorder persists feed events consumed from the bus.
type FeedRecorder struct {
	store      storage.FeedStorage
	serializer *Serializer
}

// NewFeedRecorder creates a recorder writing to store.
func NewFeedRecorder(store storage.FeedStorage) (*FeedRecorder, error) {
	if store == nil {
		return nil, errors.New("feed storage required")
	}
	return &FeedRecorder{store: store, serializer: NewSerializer()}, nil
}

// Handle implements message.NoPublishHandlerFunc.
//
// Undecodable payloads are acknowledged and counted as dropped since no
// retry can fix them. Storage errors are returned for the retry middleware.
func (h *FeedRecorder) Handle(msg *message.Message) error {
	ctx := msg.Context()
	if id := middleware.MessageCorrelationID(msg); id != "" {
		ctx = logging.ContextWithCorrelationID(ctx, id)
	}

	event, err := h.serializer.Unmarshal(msg.Payload)
	if err != nil {
		metrics.FeedDroppedEvents.Inc()
		logging.CtxErr(ctx, err).
			Str("message_uuid", msg.UUID).
			Msg("Discarding malformed feed message")
		return nil
	}

	if err := h.store.AddFeedEvent(ctx, event); err != nil {
		return fmt.Errorf("record feed event for user %d: %w", event.UserID, err)
	}

	metrics.RecordFeedEvent(event.EventType, event.Operation)
	logging.Ctx(ctx).Debug().
		Int64("event_id", event.EventID).
		Int64("user_id", event.UserID).
		Str("event_type", event.EventType).
		Str("operation", event.Operation).
		Msg("Feed event recorded")
	return nil
}
