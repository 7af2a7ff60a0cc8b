// Filmorate - Film Catalog and Social Graph Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmorate

/*
database_schema.go - Database Schema Definitions

Tables:
  - users: registered users
  - films: film catalog, one MPA rating per film
  - mpa_ratings, genres: reference data, seeded on first start
  - film_genres: film to genre links
  - film_likes: one row per (film, user) like
  - friendships: directed friendship edges with a status
  - feed_events: append-only activity feed

Dialects:
DuckDB draws ids from sequences (DEFAULT nextval) and has no foreign keys,
since DuckDB rejects updates to rows that other tables reference. MySQL uses
AUTO_INCREMENT columns, InnoDB foreign keys, and a primary key on
film_genres.

The DDL is applied through versioned migrations (migrations.go); statements
here are the migration bodies.
*/

//nolint:staticcheck // File documentation, not package doc
package database

import (
	"context"
	"time"

	"github.com/tomtom215/filmorate/internal/config"
)

// schemaContext returns a context with timeout for schema operations
func schemaContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 60*time.Second)
}

// schemaMigrationsTable returns the DDL of the migration tracking table.
func schemaMigrationsTable(dialect string) string {
	if dialect == config.DriverMySQL {
		return `CREATE TABLE IF NOT EXISTS schema_migrations (
	version INT NOT NULL PRIMARY KEY,
	name VARCHAR(255) NOT NULL,
	description TEXT NOT NULL,
	applied_at DATETIME NOT NULL
) ENGINE=InnoDB`
	}
	return `CREATE TABLE IF NOT EXISTS schema_migrations (
	version INTEGER PRIMARY KEY,
	name TEXT NOT NULL,
	description TEXT NOT NULL,
	applied_at TIMESTAMP NOT NULL
)`
}

// coreTableQueries creates users, films, reference and relation tables.
func coreTableQueries(dialect string) []string {
	if dialect == config.DriverMySQL {
		return []string{
			`CREATE TABLE IF NOT EXISTS users (
	user_id BIGINT NOT NULL AUTO_INCREMENT PRIMARY KEY,
	email VARCHAR(255) NOT NULL,
	login VARCHAR(255) NOT NULL,
	name VARCHAR(255) NOT NULL DEFAULT '',
	birthday DATE NULL
) ENGINE=InnoDB`,
			`CREATE TABLE IF NOT EXISTS mpa_ratings (
	mpa_id INT NOT NULL PRIMARY KEY,
	code VARCHAR(16) NOT NULL
) ENGINE=InnoDB`,
			`CREATE TABLE IF NOT EXISTS genres (
	genre_id INT NOT NULL PRIMARY KEY,
	name VARCHAR(64) NOT NULL
) ENGINE=InnoDB`,
			`CREATE TABLE IF NOT EXISTS films (
	film_id BIGINT NOT NULL AUTO_INCREMENT PRIMARY KEY,
	name VARCHAR(255) NOT NULL,
	description VARCHAR(200) NOT NULL DEFAULT '',
	release_date DATE NULL,
	duration INT NOT NULL,
	mpa_id INT NULL,
	CONSTRAINT fk_films_mpa FOREIGN KEY (mpa_id) REFERENCES mpa_ratings (mpa_id)
) ENGINE=InnoDB`,
			`CREATE TABLE IF NOT EXISTS film_genres (
	film_id BIGINT NOT NULL,
	genre_id INT NOT NULL,
	PRIMARY KEY (film_id, genre_id),
	CONSTRAINT fk_film_genres_film FOREIGN KEY (film_id) REFERENCES films (film_id),
	CONSTRAINT fk_film_genres_genre FOREIGN KEY (genre_id) REFERENCES genres (genre_id)
) ENGINE=InnoDB`,
			`CREATE TABLE IF NOT EXISTS film_likes (
	film_id BIGINT NOT NULL,
	user_id BIGINT NOT NULL,
	PRIMARY KEY (film_id, user_id),
	CONSTRAINT fk_film_likes_film FOREIGN KEY (film_id) REFERENCES films (film_id),
	CONSTRAINT fk_film_likes_user FOREIGN KEY (user_id) REFERENCES users (user_id)
) ENGINE=InnoDB`,
			`CREATE TABLE IF NOT EXISTS friendships (
	user_id BIGINT NOT NULL,
	friend_id BIGINT NOT NULL,
	status VARCHAR(16) NOT NULL DEFAULT 'CONFIRMED',
	PRIMARY KEY (user_id, friend_id),
	CONSTRAINT fk_friendships_user FOREIGN KEY (user_id) REFERENCES users (user_id),
	CONSTRAINT fk_friendships_friend FOREIGN KEY (friend_id) REFERENCES users (user_id)
) ENGINE=InnoDB`,
		}
	}

	return []string{
		`CREATE SEQUENCE IF NOT EXISTS users_id_seq START 1`,
		`CREATE TABLE IF NOT EXISTS users (
	user_id BIGINT PRIMARY KEY DEFAULT nextval('users_id_seq'),
	email VARCHAR NOT NULL,
	login VARCHAR NOT NULL,
	name VARCHAR NOT NULL DEFAULT '',
	birthday DATE
)`,
		`CREATE TABLE IF NOT EXISTS mpa_ratings (
	mpa_id INTEGER PRIMARY KEY,
	code VARCHAR NOT NULL
)`,
		`CREATE TABLE IF NOT EXISTS genres (
	genre_id INTEGER PRIMARY KEY,
	name VARCHAR NOT NULL
)`,
		`CREATE SEQUENCE IF NOT EXISTS films_id_seq START 1`,
		`CREATE TABLE IF NOT EXISTS films (
	film_id BIGINT PRIMARY KEY DEFAULT nextval('films_id_seq'),
	name VARCHAR NOT NULL,
	description VARCHAR(200) NOT NULL DEFAULT '',
	release_date DATE,
	duration INTEGER NOT NULL,
	mpa_id INTEGER
)`,
		`CREATE TABLE IF NOT EXISTS film_genres (
	film_id BIGINT NOT NULL,
	genre_id INTEGER NOT NULL
)`,
		`CREATE TABLE IF NOT EXISTS film_likes (
	film_id BIGINT NOT NULL,
	user_id BIGINT NOT NULL,
	PRIMARY KEY (film_id, user_id)
)`,
		`CREATE TABLE IF NOT EXISTS friendships (
	user_id BIGINT NOT NULL,
	friend_id BIGINT NOT NULL,
	status VARCHAR NOT NULL DEFAULT 'CONFIRMED',
	PRIMARY KEY (user_id, friend_id)
)`,
	}
}

// feedTableQueries creates the activity feed table.
func feedTableQueries(dialect string) []string {
	if dialect == config.DriverMySQL {
		return []string{
			`CREATE TABLE IF NOT EXISTS feed_events (
	event_id BIGINT NOT NULL AUTO_INCREMENT PRIMARY KEY,
	user_id BIGINT NOT NULL,
	event_type VARCHAR(16) NOT NULL,
	operation VARCHAR(16) NOT NULL,
	entity_id BIGINT NOT NULL,
	event_ts BIGINT NOT NULL
) ENGINE=InnoDB`,
		}
	}
	return []string{
		`CREATE SEQUENCE IF NOT EXISTS feed_events_id_seq START 1`,
		`CREATE TABLE IF NOT EXISTS feed_events (
	event_id BIGINT PRIMARY KEY DEFAULT nextval('feed_events_id_seq'),
	user_id BIGINT NOT NULL,
	event_type VARCHAR NOT NULL,
	operation VARCHAR NOT NULL,
	entity_id BIGINT NOT NULL,
	event_ts BIGINT NOT NULL
)`,
	}
}

// indexQueries covers the lookups that are not served by a primary key.
func indexQueries(dialect string) []string {
	if dialect == config.DriverMySQL {
		// friend_id and film_likes.user_id are indexed by their foreign keys.
		return []string{
			`CREATE INDEX idx_feed_events_user ON feed_events (user_id, event_id)`,
		}
	}
	return []string{
		`CREATE INDEX IF NOT EXISTS idx_film_genres_film ON film_genres (film_id)`,
		`CREATE INDEX IF NOT EXISTS idx_friendships_friend ON friendships (friend_id)`,
		`CREATE INDEX IF NOT EXISTS idx_feed_events_user ON feed_events (user_id)`,
	}
}
