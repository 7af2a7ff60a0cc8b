// Filmorate - Film Catalog and Social Graph Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmorate

package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	_ "github.com/duckdb/duckdb-go/v2"
	"github.com/go-sql-driver/mysql"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/filmorate/internal/config"
	"github.com/tomtom215/filmorate/internal/logging"
	"github.com/tomtom215/filmorate/internal/storage"
)

// memoryPath selects an in-process DuckDB database.
const memoryPath = ":memory:"

// DB wraps a SQL connection pool and implements storage.Store.
type DB struct {
	conn    *sql.DB
	cfg     *config.DatabaseConfig
	dialect string
	breaker *gobreaker.CircuitBreaker[interface{}]
}

var _ storage.Store = (*DB)(nil)

// New opens the configured driver, migrates the schema and seeds reference
// data. breakerCfg may be nil to use the default breaker settings.
func New(cfg *config.DatabaseConfig, breakerCfg *config.BreakerConfig) (*DB, error) {
	var (
		conn *sql.DB
		err  error
	)
	switch cfg.Driver {
	case config.DriverMySQL:
		conn, err = openMySQL(cfg)
	case config.DriverDuckDB, "":
		conn, err = openDuckDB(cfg)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, err
	}

	db := &DB{
		conn:    conn,
		cfg:     cfg,
		dialect: cfg.Driver,
		breaker: newBreaker("database", breakerCfg),
	}
	if db.dialect == "" {
		db.dialect = config.DriverDuckDB
	}

	db.configureConnectionPool()

	if err := db.initialize(); err != nil {
		closeQuietly(conn)
		return nil, err
	}

	logging.Info().
		Str("driver", db.dialect).
		Msg("Database initialized")
	return db, nil
}

func openDuckDB(cfg *config.DatabaseConfig) (*sql.DB, error) {
	path := cfg.Path
	if path == "" {
		path = memoryPath
	}

	numThreads := cfg.Threads
	if numThreads <= 0 {
		numThreads = runtime.NumCPU()
	}

	// Use 0750 permissions (owner: rwx, group: rx, other: none) per gosec G301
	if path != memoryPath {
		dbDir := filepath.Dir(path)
		if dbDir != "" && dbDir != "." {
			if err := os.MkdirAll(dbDir, 0o750); err != nil {
				return nil, fmt.Errorf("failed to create database directory %s: %w", dbDir, err)
			}
		}
	}

	preserveOrder := "true"
	if !cfg.PreserveInsertionOrder {
		preserveOrder = "false"
	}
	maxMemory := cfg.MaxMemory
	if maxMemory == "" {
		maxMemory = "512MB"
	}

	connStr := fmt.Sprintf("%s?access_mode=read_write&threads=%d&max_memory=%s&preserve_insertion_order=%s",
		path, numThreads, maxMemory, preserveOrder)

	conn, err := sql.Open("duckdb", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return conn, nil
}

func openMySQL(cfg *config.DatabaseConfig) (*sql.DB, error) {
	mcfg, err := mysql.ParseDSN(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("invalid MySQL DSN: %w", err)
	}
	// DATE columns scan into time.Time, and UPDATE reports matched rather
	// than changed rows so an unchanged replacement is not mistaken for a
	// missing id.
	mcfg.ParseTime = true
	mcfg.ClientFoundRows = true
	if mcfg.Loc == nil {
		mcfg.Loc = time.UTC
	}

	connector, err := mysql.NewConnector(mcfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create MySQL connector: %w", err)
	}
	return sql.OpenDB(connector), nil
}

// initialize migrates the schema and seeds reference data.
func (db *DB) initialize() error {
	ctx, cancel := schemaContext()
	defer cancel()

	if err := db.conn.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.runVersionedMigrations(); err != nil {
		return err
	}
	if db.cfg.SkipSeed {
		return nil
	}
	return db.seedReferenceData(ctx)
}

// Dialect returns the active driver name.
func (db *DB) Dialect() string {
	return db.dialect
}

// Ping checks if the database connection is alive
func (db *DB) Ping(ctx context.Context) error {
	if db.conn == nil {
		return fmt.Errorf("database connection is nil")
	}
	return exec(ctx, db, "ping", "", func(ctx context.Context) error {
		return db.conn.PingContext(ctx)
	})
}

// Close checkpoints a DuckDB file so the next start does not replay the WAL,
// then closes the pool.
func (db *DB) Close() error {
	if db.conn == nil {
		return nil
	}
	if db.dialect == config.DriverDuckDB && db.cfg.Path != memoryPath && db.cfg.Path != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		if _, err := db.conn.ExecContext(ctx, "CHECKPOINT"); err != nil {
			logging.Warn().Err(err).Msg("Failed to checkpoint database before close")
		}
		cancel()
	}
	return db.conn.Close()
}
