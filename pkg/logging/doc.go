// Package logging provides structured logging utilities for the sirecipe tool.
//
// # Overview
//
// This package wraps the standard library slog package with project defaults
// so every component logs the same way. It supports environment-based log level
// configuration, module/version context injection, and source location
// tracking for debug logs.
//
// # Log Levels
//
// Supported log levels (case-insensitive):
//   - DEBUG: per-file staging decisions, walk details, with source location
//   - INFO: operation start/finish (default)
//   - WARN/WARNING: duplicate destinations, ignored dependency roots
//   - ERROR: per-file failures
//
// # Usage
//
// The CLI installs the default logger from LOG_LEVEL before it parses any
// flags, so argument errors are already logged structurally:
//
//	logging.SetDefaultStructuredLogger("sirecipe", version)
//
// Once flags are parsed, --log-level replaces it with an explicit level:
//
//	logging.SetDefaultStructuredLoggerWithLevel("sirecipe", version, "debug")
//
// # Environment Configuration
//
// The LOG_LEVEL environment variable controls verbosity when no explicit
// level is given:
//
//	LOG_LEVEL=debug sirecipe export --name silicium --source . --package out
//
// # Output Format
//
// All logs are written to stderr in JSON format:
//
//	{
//	    "time": "2025-01-15T10:30:00.123Z",
//	    "level": "INFO",
//	    "msg": "apply complete",
//	    "module": "sirecipe",
//	    "version": "v1.0.0",
//	    "copied": 42
//	}
//
// # Integration
//
// This package is used by:
//   - pkg/cli - command logging and logger setup
//   - pkg/staging - per-file apply diagnostics
//   - pkg/match, pkg/exporter, pkg/importer - planning diagnostics
//   - pkg/recipe - table loading
package logging
