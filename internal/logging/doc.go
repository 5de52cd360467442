// Package logging provides structured logging for the AB-bus processor.
//
// This package wraps zap with convenience functions for the logging patterns
// used throughout the processor: frame parsing, state transitions, retries,
// and MQTT connection events.
//
// # Log levels
//
//   - Debug: frame hex dumps, dropped undecodable frames, first two retries
//     of a bus timeout
//   - Info: startup/shutdown, broker connection, TLS setup
//   - Warn: retries 3-5 of a bus timeout, TLS verification disabled,
//     broker connection lost, rejected control requests, failed sends
//   - Error: abandonment of a command after its final retry
//
// # Configuration
//
// Initialize logging at process startup:
//
//	if err := logging.Initialize("debug"); err != nil {
//	    log.Fatal(err)
//	}
//	defer logging.Sync()
//
// If no level is given, ACPROCESSOR_LOG_LEVEL is consulted; if that is also
// unset, logging is silent (a no-op logger).
package logging
