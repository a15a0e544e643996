package logging

import (
	"context"
	"log/slog"
)

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldFile is the standardized structured logging key for audio file paths.
	FieldFile = "file"
	// FieldRunID is the standardized structured logging key for batch run identifiers.
	FieldRunID = "run_id"
	// FieldOutcome is the standardized structured logging key for per-file outcomes.
	FieldOutcome = "outcome"
	// FieldRelease is the standardized structured logging key for MusicBrainz release IDs.
	FieldRelease = "release_id"
)

type contextKey int

const (
	runIDKey contextKey = iota
	fileKey
)

// WithRunID stores the batch run identifier in the context.
func WithRunID(ctx context.Context, runID string) context.Context {
	if runID == "" {
		return ctx
	}
	return context.WithValue(ctx, runIDKey, runID)
}

// RunIDFromContext extracts the batch run identifier, when present.
func RunIDFromContext(ctx context.Context) (string, bool) {
	value, ok := ctx.Value(runIDKey).(string)
	return value, ok && value != ""
}

// WithFile stores the audio file path currently being processed.
func WithFile(ctx context.Context, path string) context.Context {
	if path == "" {
		return ctx
	}
	return context.WithValue(ctx, fileKey, path)
}

// FileFromContext extracts the audio file path, when present.
func FileFromContext(ctx context.Context) (string, bool) {
	value, ok := ctx.Value(fileKey).(string)
	return value, ok && value != ""
}

// ContextFields extracts standardized slog attributes from the provided context.
func ContextFields(ctx context.Context) []slog.Attr {
	if ctx == nil {
		return nil
	}
	fields := make([]slog.Attr, 0, 2)
	if runID, ok := RunIDFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldRunID, runID))
	}
	if file, ok := FileFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldFile, file))
	}
	return fields
}

// WithContext returns a logger augmented with structured fields derived from the supplied context.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	fields := ContextFields(ctx)
	if len(fields) == 0 {
		return logger
	}
	return logger.With(attrsToArgs(fields)...)
}
