// Filmorate - Film Catalog and Social Graph Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmorate

package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/tomtom215/filmorate/internal/api"
	"github.com/tomtom215/filmorate/internal/config"
	"github.com/tomtom215/filmorate/internal/events"
	"github.com/tomtom215/filmorate/internal/logging"
	"github.com/tomtom215/filmorate/internal/service"
	"github.com/tomtom215/filmorate/internal/storage"
	"github.com/tomtom215/filmorate/internal/supervisor"
	"github.com/tomtom215/filmorate/internal/supervisor/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("storage", cfg.Storage.Backend).
		Str("addr", cfg.Server.Addr()).
		Bool("events_enabled", cfg.Events.Enabled).
		Msg("Starting Filmorate")

	if err := run(cfg); err != nil {
		logging.Fatal().Err(err).Msg("Filmorate stopped with error")
	}
	logging.Info().Msg("Application stopped gracefully")
}

func run(cfg *config.Config) error {
	store, gc, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing storage")
		}
	}()
	logging.Info().Str("storage", cfg.Storage.Backend).Msg("Storage initialized")

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		FailureThreshold: 5,
		FailureBackoff:   15 * time.Second,
		ShutdownTimeout:  cfg.Server.ShutdownTimeout,
	})
	if err != nil {
		return err
	}

	publisher, closeEvents, err := setupEvents(cfg, store, tree)
	if err != nil {
		return err
	}
	defer closeEvents()

	if gc != nil {
		tree.AddDataService(services.NewStoreGCService(gc, cfg.Badger.GCInterval, cfg.Badger.GCDiscardRatio))
		logging.Info().Dur("interval", cfg.Badger.GCInterval).Msg("Store GC scheduled")
	}

	var reference service.ReferenceStorage = store
	if cfg.Films.ReferenceCacheTTL > 0 {
		reference = service.NewCachedReference(store, cfg.Films.ReferenceCacheTTL)
	}

	handler := api.NewHandler(api.HandlerConfig{
		Users:        service.NewUserService(store, publisher),
		Films:        service.NewFilmService(store, publisher).WithReference(reference),
		Genres:       service.NewGenreService(reference),
		Mpa:          service.NewMpaService(reference),
		Store:        store,
		Backend:      cfg.Storage.Backend,
		PopularCount: cfg.Films.DefaultPopularCount,
	})
	router := api.NewRouter(handler, api.NewChiMiddlewareFromConfig(&cfg.Security))

	if cfg.Security.RateLimitDisabled {
		logging.Warn().Msg("Rate limiting is DISABLED (DISABLE_RATE_LIMIT=true)")
	}

	server := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           router.SetupChi(),
		ReadTimeout:       cfg.Server.Timeout,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       120 * time.Second,
	}
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	logging.Info().Msg("Starting supervisor tree...")
	errCh := tree.ServeBackground(ctx)

	var treeErr error
	select {
	case <-ctx.Done():
		logging.Info().Msg("Received shutdown signal, waiting for supervisor to finish...")
		treeErr = <-errCh
	case treeErr = <-errCh:
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
	}

	if treeErr != nil && !errors.Is(treeErr, context.Canceled) {
		return treeErr
	}
	return nil
}

// setupEvents wires the feed event path. With events enabled the bus runs
// under the messaging layer; otherwise feed entries are written inline.
func setupEvents(cfg *config.Config, store storage.Store, tree *supervisor.SupervisorTree) (service.EventPublisher, func(), error) {
	if !cfg.Events.Enabled {
		logging.Info().Msg("Feed event bus disabled (EVENTS_ENABLED=false), writing feed directly")
		return events.NewDirectPublisher(store), func() {}, nil
	}

	bus, err := events.NewBus(store, events.RouterConfigFrom(&cfg.Events))
	if err != nil {
		return nil, nil, err
	}
	tree.AddMessagingService(services.NewEventBusService(bus, cfg.Events.CloseTimeout))

	closeBus := func() {
		if err := bus.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing feed event bus")
		}
	}
	return bus, closeBus, nil
}
