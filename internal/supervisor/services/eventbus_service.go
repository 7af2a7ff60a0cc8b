// Filmorate - Film Catalog and Social Graph Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmorate

package services

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrBusStopped is returned when the event router stops on its own.
var ErrBusStopped = errors.New("event bus stopped unexpectedly")

// defaultBusCheckInterval is how often a running bus is checked.
const defaultBusCheckInterval = 5 * time.Second

// EventBusRunner is the lifecycle of *events.Bus.
type EventBusRunner interface {
	Start(ctx context.Context) error
	Shutdown(ctx context.Context)
	IsRunning() bool
}

// EventBusService runs the feed event bus under suture.
//
// Serve starts the bus and then polls IsRunning. If the router dies while
// the context is live, Serve returns ErrBusStopped so suture restarts it;
// meanwhile publishers fall back to direct feed writes.
type EventBusService struct {
	bus             EventBusRunner
	shutdownTimeout time.Duration
	checkInterval   time.Duration
	name            string
}

// NewEventBusService wraps bus. A non-positive shutdownTimeout becomes 10s.
func NewEventBusService(bus EventBusRunner, shutdownTimeout time.Duration) *EventBusService {
	if shutdownTimeout <= 0 {
		shutdownTimeout = defaultShutdownTimeout
	}
	return &EventBusService{
		bus:             bus,
		shutdownTimeout: shutdownTimeout,
		checkInterval:   defaultBusCheckInterval,
		name:            "event-bus",
	}
}

// Serve implements suture.Service.
func (s *EventBusService) Serve(ctx context.Context) error {
	if err := s.bus.Start(ctx); err != nil {
		return fmt.Errorf("event bus start failed: %w", err)
	}

	ticker := time.NewTicker(s.checkInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
			defer cancel()
			s.bus.Shutdown(shutdownCtx)
			return ctx.Err()

		case <-ticker.C:
			if !s.bus.IsRunning() {
				shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
				s.bus.Shutdown(shutdownCtx)
				cancel()
				return ErrBusStopped
			}
		}
	}
}

// String implements fmt.Stringer.
func (s *EventBusService) String() string {
	return s.name
}
