// Filmorate - Film Catalog and Social Graph Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmorate

// Package config loads Filmorate configuration from defaults, an optional
// YAML file and environment variables (highest priority wins).
package config

import (
	"fmt"
	"time"
)

// Storage backends selectable through storage.backend / STORAGE_BACKEND.
const (
	BackendMemory = "memory"
	BackendSQL    = "sql"
	BackendBadger = "badger"
)

// SQL drivers selectable through database.driver / DB_DRIVER.
const (
	DriverDuckDB = "duckdb"
	DriverMySQL  = "mysql"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Storage  StorageConfig  `koanf:"storage"`
	Database DatabaseConfig `koanf:"database"`
	Badger   BadgerConfig   `koanf:"badger"`
	Breaker  BreakerConfig  `koanf:"breaker"`
	Events   EventsConfig   `koanf:"events"`
	Films    FilmsConfig    `koanf:"films"`
	Security SecurityConfig `koanf:"security"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            int           `koanf:"port"`
	Host            string        `koanf:"host"`
	Timeout         time.Duration `koanf:"timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	Environment     string        `koanf:"environment"`
}

// Addr returns the listen address in host:port form.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// StorageConfig selects the repository implementation.
type StorageConfig struct {
	// Backend is one of memory, sql or badger.
	Backend string `koanf:"backend"`
}

// DatabaseConfig holds relational store settings.
type DatabaseConfig struct {
	// Driver is duckdb or mysql.
	Driver string `koanf:"driver"`

	// Path is the DuckDB file, or ":memory:".
	Path                   string `koanf:"path"`
	MaxMemory              string `koanf:"max_memory"`
	Threads                int    `koanf:"threads"`
	PreserveInsertionOrder bool   `koanf:"preserve_insertion_order"`

	// DSN is the MySQL data source name (user:pass@tcp(host:3306)/filmorate).
	DSN string `koanf:"dsn"`

	// SkipSeed disables inserting the genre and MPA reference rows.
	SkipSeed bool `koanf:"skip_seed"`
}

// BadgerConfig holds BadgerDB settings.
type BadgerConfig struct {
	Path     string `koanf:"path"`
	InMemory bool   `koanf:"in_memory"`

	// GCInterval is how often value log garbage collection runs; 0 disables it.
	GCInterval     time.Duration `koanf:"gc_interval"`
	GCDiscardRatio float64       `koanf:"gc_discard_ratio"`
}

// BreakerConfig tunes the circuit breaker around SQL calls.
type BreakerConfig struct {
	MaxRequests  uint32        `koanf:"max_requests"`
	Interval     time.Duration `koanf:"interval"`
	Timeout      time.Duration `koanf:"timeout"`
	MinRequests  uint32        `koanf:"min_requests"`
	FailureRatio float64       `koanf:"failure_ratio"`
}

// EventsConfig controls the activity feed event bus.
type EventsConfig struct {
	Enabled      bool          `koanf:"enabled"`
	RetryCount   int           `koanf:"retry_count"`
	CloseTimeout time.Duration `koanf:"close_timeout"`
}

// FilmsConfig holds film catalog behaviour.
type FilmsConfig struct {
	DefaultPopularCount int           `koanf:"default_popular_count"`
	ReferenceCacheTTL   time.Duration `koanf:"reference_cache_ttl"`
}

// SecurityConfig holds HTTP hardening settings.
type SecurityConfig struct {
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// IsDevelopment reports whether the server runs in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Server.Environment == "" || c.Server.Environment == "development"
}

// Load reads configuration using Koanf layering.
func Load() (*Config, error) {
	return LoadWithKoanf()
}
