// Filmorate - Film Catalog and Social Graph Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmorate

//go:build integration

package database

import (
	"context"
	"database/sql"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/go-sql-driver/mysql"

	"github.com/tomtom215/filmorate/internal/config"
	"github.com/tomtom215/filmorate/internal/storage"
	"github.com/tomtom215/filmorate/internal/storage/storagetest"
	"github.com/tomtom215/filmorate/internal/testinfra"
)

func TestMySQLConformance(t *testing.T) {
	testinfra.SkipIfNoDocker(t)

	ctx := context.Background()
	container, err := testinfra.NewMySQLContainer(ctx)
	if err != nil {
		t.Fatalf("start mysql: %v", err)
	}
	defer testinfra.CleanupContainer(t, ctx, container)

	admin, err := sql.Open("mysql", container.DSN)
	if err != nil {
		t.Fatalf("open admin connection: %v", err)
	}
	defer admin.Close()

	var seq atomic.Int64
	storagetest.Run(t, func(t *testing.T) storage.Store {
		name := fmt.Sprintf("filmorate_%d", seq.Add(1))
		if _, err := admin.ExecContext(ctx, "CREATE DATABASE "+name); err != nil {
			t.Fatalf("create database %s: %v", name, err)
		}

		dsn, err := mysql.ParseDSN(container.DSN)
		if err != nil {
			t.Fatalf("parse DSN: %v", err)
		}
		dsn.DBName = name

		db, err := New(&config.DatabaseConfig{Driver: config.DriverMySQL, DSN: dsn.FormatDSN()}, nil)
		if err != nil {
			t.Fatalf("New(mysql): %v", err)
		}
		if db.Dialect() != config.DriverMySQL {
			t.Fatalf("Dialect() = %s", db.Dialect())
		}
		return db
	})
}
