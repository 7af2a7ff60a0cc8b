// Filmorate - Film Catalog and Social Graph Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmorate

/*
Package main is the entry point for the Filmorate server.

Filmorate is a film catalog with a small social graph: users add films,
like them, follow each other as friends, and read an activity feed of
those actions.

# Application Architecture

	RootSupervisor ("filmorate")
	├── DataSupervisor ("data-layer")
	│   └── Store GC (badger backend)
	├── MessagingSupervisor ("messaging-layer")
	│   └── Feed event bus (watermill gochannel + router)
	└── APISupervisor ("api-layer")
	    └── HTTP Server (chi)

Initialization order:

 1. Configuration: Koanf v2 (defaults, YAML file, environment)
 2. Logging: zerolog, JSON or console
 3. Storage: memory, DuckDB/MySQL, or BadgerDB
 4. Feed events: watermill bus, or direct writes when disabled
 5. Services and HTTP handlers
 6. Supervisor tree; SIGINT/SIGTERM cancel it for a graceful stop

# Configuration

Priority: environment variables > config file > defaults.

	# Server
	HTTP_PORT=8080
	HTTP_HOST=0.0.0.0
	HTTP_SHUTDOWN_TIMEOUT=10s

	# Storage
	STORAGE_BACKEND=sql             # memory | sql | badger
	DB_DRIVER=duckdb                # duckdb | mysql
	DUCKDB_PATH=/data/filmorate.duckdb
	MYSQL_DSN=user:pass@tcp(db:3306)/filmorate
	BADGER_PATH=/data/filmorate.badger
	BADGER_GC_INTERVAL=10m

	# Feed events
	EVENTS_ENABLED=true
	EVENTS_RETRY_COUNT=3

	# Films
	POPULAR_FILMS_DEFAULT_COUNT=10
	REFERENCE_CACHE_TTL=10m         # 0 disables the genre/MPA cache

	# HTTP hardening
	CORS_ORIGINS=https://films.example.com
	RATE_LIMIT_REQUESTS=100
	RATE_LIMIT_WINDOW=1m

	# Logging
	LOG_LEVEL=info
	LOG_FORMAT=json

A YAML file is read from CONFIG_PATH, ./config.yaml or /etc/filmorate/config.yaml.
*/
package main
