// Filmorate - Film Catalog and Social Graph Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmorate

/*
Package cache provides a typed, thread-safe in-memory cache with TTL expiry.

Filmorate uses it for reference data (genres and MPA ratings), which every
film create and update resolves and which never changes at runtime. Hits and
misses are exported as filmorate_cache_hits_total and
filmorate_cache_misses_total, labelled by cache name.
*/
package cache
