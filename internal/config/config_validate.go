// Filmorate - Film Catalog and Social Graph Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmorate

package config

import (
	"fmt"
	"strings"

	"github.com/go-sql-driver/mysql"
)

var validLogLevels = map[string]bool{
	"trace": true,
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

var validLogFormats = map[string]bool{
	"json":    true,
	"console": true,
}

// Validate checks that required configuration is present and valid
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}

	if err := c.validateStorage(); err != nil {
		return err
	}

	if err := c.validateBreaker(); err != nil {
		return err
	}

	if err := c.validateEvents(); err != nil {
		return err
	}

	if err := c.validateFilms(); err != nil {
		return err
	}

	if err := c.validateSecurity(); err != nil {
		return err
	}

	return c.validateLogging()
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535")
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive")
	}
	return nil
}

// validateStorage checks the backend selection and the settings it needs.
func (c *Config) validateStorage() error {
	switch c.Storage.Backend {
	case BackendMemory:
		return nil
	case BackendSQL:
		return c.validateDatabase()
	case BackendBadger:
		if !c.Badger.InMemory && c.Badger.Path == "" {
			return fmt.Errorf("BADGER_PATH is required when BADGER_IN_MEMORY=false")
		}
		if c.Badger.GCInterval > 0 && (c.Badger.GCDiscardRatio <= 0 || c.Badger.GCDiscardRatio >= 1) {
			return fmt.Errorf("BADGER_GC_DISCARD_RATIO must be between 0 and 1 (got %v)", c.Badger.GCDiscardRatio)
		}
		return nil
	default:
		return fmt.Errorf("STORAGE_BACKEND must be one of: memory, sql, badger (got %q)", c.Storage.Backend)
	}
}

func (c *Config) validateDatabase() error {
	switch c.Database.Driver {
	case DriverDuckDB:
		if c.Database.Path == "" {
			return fmt.Errorf("DUCKDB_PATH is required for the duckdb driver")
		}
		if c.Database.Threads < 0 {
			return fmt.Errorf("DUCKDB_THREADS must not be negative")
		}
		return nil
	case DriverMySQL:
		if c.Database.DSN == "" {
			return fmt.Errorf("MYSQL_DSN is required for the mysql driver")
		}
		if _, err := mysql.ParseDSN(c.Database.DSN); err != nil {
			return fmt.Errorf("MYSQL_DSN is invalid: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("DB_DRIVER must be one of: duckdb, mysql (got %q)", c.Database.Driver)
	}
}

func (c *Config) validateBreaker() error {
	if c.Breaker.FailureRatio <= 0 || c.Breaker.FailureRatio > 1 {
		return fmt.Errorf("BREAKER_FAILURE_RATIO must be in (0, 1]")
	}
	if c.Breaker.Timeout <= 0 {
		return fmt.Errorf("BREAKER_TIMEOUT must be positive")
	}
	return nil
}

func (c *Config) validateEvents() error {
	if c.Events.RetryCount < 0 {
		return fmt.Errorf("EVENTS_RETRY_COUNT must not be negative")
	}
	return nil
}

func (c *Config) validateFilms() error {
	if c.Films.DefaultPopularCount < 1 {
		return fmt.Errorf("POPULAR_FILMS_DEFAULT_COUNT must be at least 1")
	}
	if c.Films.ReferenceCacheTTL < 0 {
		return fmt.Errorf("REFERENCE_CACHE_TTL must not be negative")
	}
	return nil
}

func (c *Config) validateSecurity() error {
	if c.Security.RateLimitDisabled {
		return nil
	}
	if c.Security.RateLimitReqs < 1 {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be at least 1")
	}
	if c.Security.RateLimitWindow <= 0 {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be positive")
	}
	return c.validateCORS()
}

// validateCORS rejects a wildcard origin outside development.
func (c *Config) validateCORS() error {
	if c.IsDevelopment() {
		return nil
	}
	for _, origin := range c.Security.CORSOrigins {
		if strings.TrimSpace(origin) == "*" {
			return fmt.Errorf("CORS_ORIGINS=* (wildcard) is not allowed when ENVIRONMENT=%s", c.Server.Environment)
		}
	}
	return nil
}

func (c *Config) validateLogging() error {
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("LOG_LEVEL must be one of: trace, debug, info, warn, error")
	}
	if c.Logging.Format != "" && !validLogFormats[c.Logging.Format] {
		return fmt.Errorf("LOG_FORMAT must be one of: json, console")
	}
	return nil
}
