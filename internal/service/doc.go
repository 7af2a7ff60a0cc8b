// Filmorate - Film Catalog and Social Graph Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmorate

/*
Package service holds Filmorate's business rules on top of storage.Store.

  - UserService: user CRUD, friendships, common friends and the activity feed
  - FilmService: film CRUD with genre/MPA enrichment, likes, popular films
  - GenreService, MpaService: read-only reference data
  - CachedReference: TTL cache over genre and MPA reads, shared by the above

Input is validated with internal/validation before it reaches storage.
Errors are returned as-is from storage (storage.IsNotFound, the relation
sentinels) or as *validation.RequestValidationError; IsBadRequest groups
the client-correctable relation errors for the HTTP layer.

Every like and friendship change publishes a models.FeedEvent through an
EventPublisher. Publishing is best effort: a failure is logged and counted
but never fails the operation that triggered it.
*/
package service
