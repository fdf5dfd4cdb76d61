// Package logging provides structured logging for StoryKeep.
//
// This package wraps zap logger with convenience functions for common logging
// patterns used throughout the application. Logging is silent by default so
// the TUI owns the terminal; set STORYKEEP_LOG_LEVEL to enable output.
//
// # Log Levels
//
// The package supports standard log levels:
//   - Debug: Detailed debugging info (store operations, component events)
//   - Info: Normal operations (record changes, preview clients, reloads)
//   - Warn: Non-fatal issues (readiness timeouts, degraded configs)
//   - Error: Fatal issues (startup failures, storage errors)
//
// # Structured Logging
//
// All log functions use structured fields for queryability:
//
//	logging.Info("Record change",
//	    zap.String("kind", "character"),
//	    zap.String("id", "f3a1..."),
//	    zap.String("action", "update"),
//	)
//
// # Specialized Logging
//
// The package provides domain-specific logging functions:
//
// Storage Logging:
//
//	logging.LogStoreOp("set", "records/characters", err)
//
// Record Logging:
//
//	logging.LogRecordChange("plot", id, "delete")
//
// Preview Server Logging:
//
//	logging.LogHTTPRequest(remoteAddr, "GET", "/api/records")
//	logging.LogClientEvent(remoteAddr, "feed_subscribed")
//
// # Configuration
//
// Initialize logging at startup:
//
//	if err := logging.InitializeFromEnv(); err != nil {
//	    log.Fatal(err)
//	}
//	defer logging.Sync()
//
// # Output Format
//
// Logs are written to stderr in console format (human-readable) so they never
// corrupt the TUI on stdout:
//
//	2025-11-25T10:30:45.123-0800  INFO  Record change
//	  kind=character
//	  id=f3a1...
//	  action=update
//
// # Thread Safety
//
// All logging functions are safe for concurrent use. The underlying zap logger
// handles synchronization automatically.
package logging
