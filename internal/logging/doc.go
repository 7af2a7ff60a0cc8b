// Filmorate - Film Catalog and Social Graph Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmorate

// Package logging provides centralized zerolog-based structured logging for Filmorate.
//
// JSON output is the production default; console output is available for
// local development. Every package logs through the global logger configured
// here, and request-scoped logs carry the request id set by
// internal/middleware.
//
// # Quick Start
//
//	import "github.com/tomtom215/filmorate/internal/logging"
//
//	logging.Init(logging.Config{
//	    Level:  "info",
//	    Format: "json",
//	})
//
//	logging.Info().Int64("film_id", film.ID).Msg("Film created")
//	logging.Error().Err(err).Msg("Failed to open store")
//
//	// Request-scoped
//	logging.CtxInfo(ctx).Int64("user_id", id).Msg("Friend added")
//
// # Configuration
//
//	LOG_LEVEL   - trace, debug, info, warn, error (default: info)
//	LOG_FORMAT  - json, console (default: json)
//	LOG_CALLER  - include caller file:line (default: false)
//
// Always terminate log chains with .Msg() or .Send(); an unterminated event
// is never written.
//
// # slog Adapter
//
// Suture reports supervisor events through log/slog. NewSlogLogger returns an
// slog.Logger backed by the global zerolog logger so those events share the
// same output and format:
//
//	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), cfg)
//
// # Testing
//
//	var buf bytes.Buffer
//	logger := logging.NewTestLogger(&buf)
//	logger.Info().Msg("test message")
//
// All exported functions are safe for concurrent use.
package logging
