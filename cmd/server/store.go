// Filmorate - Film Catalog and Social Graph Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmorate

package main

import (
	"fmt"

	"github.com/tomtom215/filmorate/internal/config"
	"github.com/tomtom215/filmorate/internal/database"
	"github.com/tomtom215/filmorate/internal/storage"
	"github.com/tomtom215/filmorate/internal/storage/badgerstore"
	"github.com/tomtom215/filmorate/internal/storage/memory"
	"github.com/tomtom215/filmorate/internal/supervisor/services"
)

// openStore builds the storage backend named by cfg.Storage.Backend.
//
// The second result is non-nil when the backend needs periodic garbage
// collection.
func openStore(cfg *config.Config) (storage.Store, services.GarbageCollector, error) {
	switch cfg.Storage.Backend {
	case config.BackendMemory:
		return memory.New(), nil, nil

	case config.BackendSQL:
		db, err := database.New(&cfg.Database, &cfg.Breaker)
		if err != nil {
			return nil, nil, fmt.Errorf("open %s database: %w", cfg.Database.Driver, err)
		}
		return db, nil, nil

	case config.BackendBadger:
		store, err := badgerstore.Open(badgerstore.Config{
			Path:     cfg.Badger.Path,
			InMemory: cfg.Badger.InMemory,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("open badger store: %w", err)
		}
		if cfg.Badger.InMemory || cfg.Badger.GCInterval <= 0 {
			return store, nil, nil
		}
		return store, store, nil

	default:
		return nil, nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}
