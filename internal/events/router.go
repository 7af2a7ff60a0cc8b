// Filmorate - Film Catalog and Social Graph Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmorate

package events

import (
	"context"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"

	"github.com/tomtom215/filmorate/internal/config"
	"github.com/tomtom215/filmorate/internal/logging"
	"github.com/tomtom215/filmorate/internal/metrics"
)

// RouterConfig holds configuration for the Watermill Router.
type RouterConfig struct {
	// CloseTimeout is how long to wait for handlers to finish when closing.
	CloseTimeout time.Duration

	// Retry configuration
	RetryMaxRetries      int
	RetryInitialInterval time.Duration
	RetryMaxInterval     time.Duration
	RetryMultiplier      float64
}

// DefaultRouterConfig returns production defaults for the Router.
func DefaultRouterConfig() RouterConfig {
	return RouterConfig{
		CloseTimeout:         10 * time.Second,
		RetryMaxRetries:      3,
		RetryInitialInterval: 100 * time.Millisecond,
		RetryMaxInterval:     5 * time.Second,
		RetryMultiplier:      2.0,
	}
}

// RouterConfigFrom applies the events section of the application config
// on top of the defaults.
func RouterConfigFrom(cfg *config.EventsConfig) RouterConfig {
	rc := DefaultRouterConfig()
	if cfg == nil {
		return rc
	}
	if cfg.RetryCount >= 0 {
		rc.RetryMaxRetries = cfg.RetryCount
	}
	if cfg.CloseTimeout > 0 {
		rc.CloseTimeout = cfg.CloseTimeout
	}
	return rc
}

// Router wraps the Watermill Router with pre-configured middleware.
// It provides automatic Ack/Nack handling, retry logic, panic recovery and
// correlation id propagation. Messages still failing after the last retry
// are logged and acknowledged so the in-process channel does not redeliver
// them forever.
type Router struct {
	router *message.Router
	config RouterConfig
	logger watermill.LoggerAdapter
}

// NewRouter creates a new Watermill Router with pre-configured middleware.
func NewRouter(cfg *RouterConfig, logger watermill.LoggerAdapter) (*Router, error) {
	if logger == nil {
		logger = watermill.NewSlogLogger(logging.NewSlogLogger())
	}

	if cfg == nil {
		defaultCfg := DefaultRouterConfig()
		cfg = &defaultCfg
	}

	wmRouter, err := message.NewRouter(message.RouterConfig{
		CloseTimeout: cfg.CloseTimeout,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("create watermill router: %w", err)
	}

	// Middleware in order (outer to inner):
	// 1. dropExhausted - ack messages that failed every attempt
	// 2. Recoverer - catch panics and convert to errors
	// 3. CorrelationID - carry the request correlation id
	// 4. Retry - handle transient failures with backoff
	wmRouter.AddMiddleware(dropExhausted)
	wmRouter.AddMiddleware(middleware.Recoverer)
	wmRouter.AddMiddleware(middleware.CorrelationID)

	retryMiddleware := middleware.Retry{
		MaxRetries:      cfg.RetryMaxRetries,
		InitialInterval: cfg.RetryInitialInterval,
		MaxInterval:     cfg.RetryMaxInterval,
		Multiplier:      cfg.RetryMultiplier,
		Logger:          logger,
	}
	wmRouter.AddMiddleware(retryMiddleware.Middleware)

	return &Router{
		router: wmRouter,
		config: *cfg,
		logger: logger,
	}, nil
}

// dropExhausted acknowledges a message whose handler still fails after
// the retry middleware gave up.
func dropExhausted(h message.HandlerFunc) message.HandlerFunc {
	return func(msg *message.Message) ([]*message.Message, error) {
		produced, err := h(msg)
		if err != nil {
			metrics.FeedDroppedEvents.Inc()
			logging.Error().
				Err(err).
				Str("message_uuid", msg.UUID).
				Str("correlation_id", middleware.MessageCorrelationID(msg)).
				Msg("Dropping message after retries")
			return nil, nil
		}
		return produced, nil
	}
}

// AddConsumerHandler registers a handler that consumes without publishing.
func (r *Router) AddConsumerHandler(
	handlerName string,
	topic string,
	subscriber message.Subscriber,
	handler message.NoPublishHandlerFunc,
) {
	r.router.AddConsumerHandler(handlerName, topic, subscriber, handler)
}

// Run starts the router. It blocks until the context is canceled or
// Close is called.
func (r *Router) Run(ctx context.Context) error {
	return r.router.Run(ctx)
}

// Running returns a channel that is closed once the router is running.
func (r *Router) Running() chan struct{} {
	return r.router.Running()
}

// Close stops the router gracefully.
func (r *Router) Close() error {
	return r.router.Close()
}

// IsRunning reports whether handlers are subscribed and the router has
// not been closed.
func (r *Router) IsRunning() bool {
	return r.router.IsRunning() && !r.router.IsClosed()
}
