// Filmorate - Film Catalog and Social Graph Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmorate

package events

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"github.com/tomtom215/filmorate/internal/logging"
	"github.com/tomtom215/filmorate/internal/metrics"
	"github.com/tomtom215/filmorate/internal/models"
	"github.com/tomtom215/filmorate/internal/storage"
)

// FeedTopic carries every feed event.
const FeedTopic = "filmorate.feed"

// outputBuffer is the gochannel subscriber buffer size.
const outputBuffer = 256

// ErrBusClosed is returned by Publish after Close.
var ErrBusClosed = errors.New("event bus closed")

// Bus is the in-process feed event bus. Publish is safe for concurrent use.
//
// While the router is not running (startup, restart after a failure)
// events are written to the store directly so none are lost. A message
// handed to the router is acknowledged before Publish returns, and Shutdown
// waits for in-flight publishes, so a stopping router never drops one.
type Bus struct {
	recorder   *FeedRecorder
	serializer *Serializer
	config     RouterConfig
	logger     watermill.LoggerAdapter

	mu     sync.RWMutex
	pubsub *gochannel.GoChannel
	router *Router
	closed bool
}

// NewBus creates a bus whose feed-recorder persists into store.
func NewBus(store storage.FeedStorage, cfg RouterConfig) (*Bus, error) {
	recorder, err := NewFeedRecorder(store)
	if err != nil {
		return nil, err
	}

	return &Bus{
		recorder:   recorder,
		serializer: NewSerializer(),
		config:     cfg,
		logger:     watermill.NewSlogLogger(logging.NewSlogLogger()),
	}, nil
}

// newPubSub creates the channel a single router generation consumes.
// Closing the router closes its subscriber, so it cannot be shared
// across restarts.
func (b *Bus) newPubSub() *gochannel.GoChannel {
	return gochannel.NewGoChannel(gochannel.Config{
		OutputChannelBuffer:            outputBuffer,
		PreserveContext:                true,
		BlockPublishUntilSubscriberAck: true,
	}, b.logger)
}

// Start builds a fresh router and pub/sub, subscribes the feed recorder and
// returns once the router is running. A watermill router cannot be
// restarted, so each Start gets its own.
//
// The router outlives ctx; only Shutdown or Close stops it.
func (b *Bus) Start(ctx context.Context) error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return ErrBusClosed
	}
	if b.router != nil && b.router.IsRunning() {
		b.mu.Unlock()
		return nil
	}

	router, err := NewRouter(&b.config, b.logger)
	if err != nil {
		b.mu.Unlock()
		return err
	}
	pubsub := b.newPubSub()
	router.AddConsumerHandler(FeedRecorderHandlerName, FeedTopic, pubsub, b.recorder.Handle)
	b.pubsub = pubsub
	b.router = router
	b.mu.Unlock()

	errCh := make(chan error, 1)
	go func() {
		errCh <- router.Run(context.WithoutCancel(ctx))
	}()

	select {
	case <-router.Running():
		logging.Info().Str("topic", FeedTopic).Msg("Feed event router started")
		return nil
	case err := <-errCh:
		b.mu.Lock()
		if b.router == router {
			b.router, b.pubsub = nil, nil
		}
		b.mu.Unlock()
		_ = pubsub.Close()
		return fmt.Errorf("run feed router: %w", err)
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Shutdown stops the router and its pub/sub. Publishes still in flight
// finish first; later ones go straight to the store until the next Start.
func (b *Bus) Shutdown(_ context.Context) {
	b.mu.Lock()
	router := b.router
	b.router = nil
	b.pubsub = nil
	b.mu.Unlock()

	if router == nil {
		return
	}
	if err := router.Close(); err != nil {
		logging.Warn().Err(err).Msg("Failed to close feed event router")
		return
	}
	logging.Info().Msg("Feed event router stopped")
}

// IsRunning reports whether the router is consuming events.
func (b *Bus) IsRunning() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.router != nil && b.router.IsRunning()
}

// Publish sends event to the feed topic.
func (b *Bus) Publish(ctx context.Context, event models.FeedEvent) error {
	payload, err := b.serializer.Marshal(&event)
	if err != nil {
		return err
	}

	// Held until the router acknowledges, so Shutdown cannot close the
	// subscriber under a message.
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return ErrBusClosed
	}
	if b.router == nil || !b.router.IsRunning() {
		return recordDirect(ctx, b.recorder.store, &event)
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	if id := logging.CorrelationIDFromContext(ctx); id != "" {
		middleware.SetCorrelationID(id, msg)
	}
	// The request context may end before the recorder runs.
	msg.SetContext(context.WithoutCancel(ctx))

	if err := b.pubsub.Publish(FeedTopic, msg); err != nil {
		return fmt.Errorf("publish to %s: %w", FeedTopic, err)
	}
	return nil
}

// Close stops the router and the pub/sub. The bus cannot be reused.
func (b *Bus) Close() error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil
	}
	b.closed = true
	router, pubsub := b.router, b.pubsub
	b.router, b.pubsub = nil, nil
	b.mu.Unlock()

	if router != nil {
		if err := router.Close(); err != nil {
			logging.Warn().Err(err).Msg("Failed to close feed event router")
		}
	}
	if pubsub != nil {
		if err := pubsub.Close(); err != nil {
			return fmt.Errorf("close feed pubsub: %w", err)
		}
	}
	return nil
}

// DirectPublisher writes feed events synchronously. It is used when the
// bus is disabled in configuration.
type DirectPublisher struct {
	store storage.FeedStorage
}

// NewDirectPublisher creates a publisher writing straight to store.
func NewDirectPublisher(store storage.FeedStorage) *DirectPublisher {
	return &DirectPublisher{store: store}
}

// Publish validates and stores event.
func (p *DirectPublisher) Publish(ctx context.Context, event models.FeedEvent) error {
	if err := Validate(&event); err != nil {
		return err
	}
	return recordDirect(ctx, p.store, &event)
}

func recordDirect(ctx context.Context, store storage.FeedStorage, event *models.FeedEvent) error {
	if err := store.AddFeedEvent(ctx, event); err != nil {
		return fmt.Errorf("record feed event: %w", err)
	}
	metrics.RecordFeedEvent(event.EventType, event.Operation)
	return nil
}
