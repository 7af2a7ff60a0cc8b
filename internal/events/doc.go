// Filmorate - Film Catalog and Social Graph Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmorate

/*
Package events carries activity feed events from the service layer to
storage.

Services publish models.FeedEvent values on a Watermill gochannel pub/sub
(topic "filmorate.feed"). A Watermill router consumes the topic with the
feed-recorder handler, which writes each event through storage.FeedStorage.

Router middleware, outer to inner:

  - exhausted-message drop: logs and acknowledges a message that failed
    every retry
  - Recoverer: converts handler panics to errors
  - CorrelationID: keeps the HTTP request's correlation id on the message
  - Retry: exponential backoff for storage errors

Payloads are JSON encoded with goccy/go-json and validated on both ends.

A routed Publish returns once the recorder has acknowledged the message,
and Shutdown waits for those publishes, so restarting the router never
drops an event. When the router is not running the Bus records events
synchronously, and DirectPublisher does so unconditionally for deployments
with the bus disabled.

Each Start builds a new router and a new gochannel: closing a Watermill
router closes its subscriber, and a closed gochannel cannot subscribe again.

The Bus is started and stopped by a supervised service (see
internal/supervisor/services).
*/
package events
