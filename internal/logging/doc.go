// Package logging builds the slog loggers used across coverscout.
//
// It provides a human-oriented console handler, a JSON handler for
// machine consumption, shared attribute helpers, and context plumbing so
// per-run and per-file fields follow the work through the pipeline.
package logging
