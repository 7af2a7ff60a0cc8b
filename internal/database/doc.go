// Filmorate - Film Catalog and Social Graph Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmorate

// Package database implements storage.Store on a relational database.
//
// # Overview
//
// Two drivers are supported through database/sql:
//   - DuckDB (github.com/duckdb/duckdb-go/v2), the default, embedded in process
//   - MySQL (github.com/go-sql-driver/mysql) for a shared server
//
// Both use "?" placeholders, so queries are shared. The dialects differ only
// in DDL and in how a generated id is read back: DuckDB tables draw ids from
// sequences and inserts use RETURNING, MySQL tables use AUTO_INCREMENT and
// Result.LastInsertId.
//
// # Architecture
//
//   - database.go: lifecycle (open, pool, initialize, close)
//   - database_connection.go: pool settings and driver error classification
//   - database_schema.go: per-dialect DDL
//   - migrations.go: versioned schema migrations
//   - seed.go: genre and MPA reference rows
//   - breaker.go: circuit breaker and query metrics around every call
//   - users.go, films.go, friendships.go, reference.go, feed.go: storage.Store
//
// # Schema
//
//	users(user_id, email, login, name, birthday)
//	films(film_id, name, description, release_date, duration, mpa_id)
//	mpa_ratings(mpa_id, code)
//	genres(genre_id, name)
//	film_genres(film_id, genre_id)
//	film_likes(film_id, user_id)          PRIMARY KEY (film_id, user_id)
//	friendships(user_id, friend_id, status) PRIMARY KEY (user_id, friend_id)
//	feed_events(event_id, user_id, event_type, operation, entity_id, event_ts)
//
// # Resilience
//
// Every public call runs through a sony/gobreaker circuit breaker. Domain
// outcomes such as storage.ErrNotFound count as successes, so only driver
// failures can open the circuit. While it is open calls fail fast with an
// error wrapping storage.ErrUnavailable.
//
// # Testing
//
// Unit tests run the storagetest conformance suite against DuckDB ":memory:".
// The MySQL dialect is covered by an integration test (build tag
// "integration") that starts a container through internal/testinfra.
package database
