// Package log provides structured operation logging for the node tree.
//
// This package defines the Logger interface and the Event type capturing
// every instrument-facing operation (reads, writes, transaction commits,
// waits, subscriptions). It is separate from operational logging (slog):
// the event stream is a complete machine-readable trace of what was sent
// to and received from the instrument, for debugging and audit.
//
// # Basic Usage
//
// Applications configure logging by providing a Logger implementation:
//
//	// For development: log to console via slog
//	tree, _ := nodetree.New(ctx, p, nodetree.WithLogger(log.NewSlogAdapter(slog.Default())))
//
//	// For production: write to binary file
//	fl, _ := log.NewFileLogger("/var/log/lynq/session.qlog")
//	tree, _ := nodetree.New(ctx, p, nodetree.WithLogger(fl))
//
//	// Both: use MultiLogger
//	tree, _ := nodetree.New(ctx, p, nodetree.WithLogger(log.NewMultiLogger(
//	    log.NewSlogAdapter(slog.Default()), fl,
//	)))
//
// # File Format
//
// Log files use CBOR encoding with .qlog extension; Reader streams them
// back with optional filtering.
package log
