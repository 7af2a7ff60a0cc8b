// Filmorate - Film Catalog and Social Graph Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmorate

package services

import (
	"context"
	"time"

	"github.com/tomtom215/filmorate/internal/logging"
	"github.com/tomtom215/filmorate/internal/metrics"
)

// GarbageCollector reclaims storage space. Satisfied by *badgerstore.Store.
type GarbageCollector interface {
	RunGC(discardRatio float64) error
}

// StoreGCService runs value log GC on a fixed interval.
//
// GC failures are logged and counted but never stop the service: the next
// tick tries again.
type StoreGCService struct {
	store        GarbageCollector
	interval     time.Duration
	discardRatio float64
	name         string
}

// NewStoreGCService creates a GC loop for store. A non-positive interval
// becomes 10m.
func NewStoreGCService(store GarbageCollector, interval time.Duration, discardRatio float64) *StoreGCService {
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	return &StoreGCService{
		store:        store,
		interval:     interval,
		discardRatio: discardRatio,
		name:         "store-gc",
	}
}

// Serve implements suture.Service.
func (s *StoreGCService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.collect()
		}
	}
}

func (s *StoreGCService) collect() {
	start := time.Now()
	err := s.store.RunGC(s.discardRatio)
	metrics.RecordStoreGC(err)
	if err != nil {
		logging.Warn().Err(err).Float64("discard_ratio", s.discardRatio).Msg("Store GC failed")
		return
	}
	logging.Debug().Dur("duration", time.Since(start)).Msg("Store GC completed")
}

// String implements fmt.Stringer.
func (s *StoreGCService) String() string {
	return s.name
}
