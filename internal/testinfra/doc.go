// Filmorate - Film Catalog and Social Graph Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmorate

// Package testinfra provides container-backed infrastructure for integration
// tests. Everything here is behind the "integration" build tag:
//
//	go test -tags integration ./internal/database/...
//
// # MySQL Container
//
// NewMySQLContainer starts a real MySQL server so the SQL backend's MySQL
// dialect runs the same conformance suite as DuckDB:
//
//	func TestMySQLConformance(t *testing.T) {
//	    testinfra.SkipIfNoDocker(t)
//	    ctx := context.Background()
//	    mysql, err := testinfra.NewMySQLContainer(ctx)
//	    if err != nil {
//	        t.Fatal(err)
//	    }
//	    defer testinfra.CleanupContainer(t, ctx, mysql)
//	    // database.New(&config.DatabaseConfig{Driver: "mysql", DSN: mysql.DSN}, nil)
//	}
//
// # CI Considerations
//
// These tests require Docker and network access. They are skipped gracefully
// if Docker is unavailable. The first run downloads the image.
package testinfra
