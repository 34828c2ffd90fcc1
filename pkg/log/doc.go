// Package log provides structured protocol logging for XML-RPC.
//
// This package defines the Logger interface and Event types for capturing
// protocol-level events at multiple layers (transport, protocol, dispatch).
// It is separate from operational logging (slog) - protocol capture provides
// a complete machine-readable event trace for debugging and analysis.
//
// # Basic Usage
//
// Applications configure logging by providing a Logger implementation:
//
//	// For development: log to console via slog
//	cfg.Logger = log.NewSlogAdapter(slog.Default())
//
//	// For production: write to binary file
//	cfg.Logger, _ = log.NewFileLogger("/var/log/xmlrpc/server.rlog")
//
//	// Both: use MultiLogger
//	cfg.Logger = log.NewMultiLogger(
//	    log.NewSlogAdapter(slog.Default()),
//	    fileLogger,
//	)
//
// # Event Types
//
// Events carry one typed payload:
//   - CallEvent: a method call, with name and parameter count
//   - ResponseEvent: a response or fault, with timing on the server side
//   - ErrorEventData: transport or decode failures at any layer
//
// # File Format
//
// Log files use CBOR encoding with integer map keys. The Reader type
// streams events back out of a file, optionally filtered by connection,
// method, direction, time window, or fault status.
package log
