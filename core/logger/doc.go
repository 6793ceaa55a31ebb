// Package logger provides a structured logging facility based on Zap.
//
// It offers a configured logger instance that supports different environments (development vs production).
//
// # Correlation
//
// Every sync run gets a run id (WithRunID) so that fetch, plan and apply lines
// can be grouped. The pack file server tags each request with a ray id (WithRayID).
//
// # Configuration
//
// The package supports configuration for:
//   - Level: debug, info, warn, error
//   - Encoding: json or console
//
// # Usage
//
//	log, _ := logger.New(&logger.Config{Level: "info", Format: "console"})
//	l := logger.WithRunID(log, logger.NewRunID())
//	l.Info("fetching mod pack")
package logger
