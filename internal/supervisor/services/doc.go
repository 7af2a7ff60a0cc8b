// Filmorate - Film Catalog and Social Graph Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmorate

/*
Package services adapts Filmorate components to suture.Service.

Each wrapper translates a component lifecycle into Serve(ctx) error:

  - HTTPServerService: ListenAndServe plus graceful Shutdown.
  - EventBusService: events.Bus Start/Shutdown, restarting when the router dies.
  - StoreGCService: periodic Badger value log GC.

Wrappers take small interfaces rather than concrete types so they can be
tested without a listener, a router or a database.
*/
package services
