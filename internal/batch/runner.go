package batch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"coverscout/internal/logging"
	"coverscout/internal/resolver"
	"coverscout/internal/scan"
)

// ErrAlreadyRunning indicates another run holds the batch lock.
var ErrAlreadyRunning = errors.New("another coverscout run is already in progress")

// FileResolver resolves cover art for a single file.
type FileResolver interface {
	Resolve(ctx context.Context, path string) resolver.Outcome
}

// Tally aggregates per-file outcomes for a run. Total always equals the
// sum of the three outcome counters.
type Tally struct {
	Embedded       int
	AlreadyPresent int
	Failed         int

	FailedPaths []string
}

// Total reports how many files the run processed.
func (t Tally) Total() int {
	return t.Embedded + t.AlreadyPresent + t.Failed
}

func (t *Tally) record(path string, outcome resolver.Outcome) {
	switch outcome.Status {
	case resolver.StatusEmbedded:
		t.Embedded++
	case resolver.StatusAlreadyPresent:
		t.AlreadyPresent++
	default:
		t.Failed++
		t.FailedPaths = append(t.FailedPaths, path)
	}
}

// Runner processes files sequentially with a single-instance lock.
type Runner struct {
	resolver FileResolver
	lockPath string
	logger   *slog.Logger
}

// New constructs a Runner. The lock file lives under the log directory so
// concurrent invocations against the same installation are rejected.
func New(fileResolver FileResolver, lockPath string, logger *slog.Logger) (*Runner, error) {
	if fileResolver == nil {
		return nil, errors.New("batch runner requires a resolver")
	}
	if lockPath == "" {
		return nil, errors.New("batch runner requires a lock path")
	}
	return &Runner{
		resolver: fileResolver,
		lockPath: lockPath,
		logger:   logging.NewComponentLogger(logger, "batch"),
	}, nil
}

// Run resolves every file in order and returns the outcome tally. A file
// that fails never stops the run; cancellation between files does, and the
// tally reflects the files processed before the stop. Per-file failures do
// not make Run return an error; the caller inspects Tally.Failed.
func (r *Runner) Run(ctx context.Context, files []scan.File) (Tally, error) {
	var tally Tally
	if len(files) == 0 {
		return tally, nil
	}

	if err := os.MkdirAll(filepath.Dir(r.lockPath), 0o755); err != nil {
		return tally, fmt.Errorf("prepare lock directory: %w", err)
	}
	lock := flock.New(r.lockPath)
	ok, err := lock.TryLock()
	if err != nil {
		return tally, fmt.Errorf("acquire run lock: %w", err)
	}
	if !ok {
		return tally, ErrAlreadyRunning
	}
	defer func() {
		if unlockErr := lock.Unlock(); unlockErr != nil {
			r.logger.Warn("failed to release run lock", logging.Error(unlockErr))
		}
	}()

	runID := uuid.NewString()
	ctx = logging.WithRunID(ctx, runID)
	log := logging.WithContext(ctx, r.logger)
	log.Info("batch run started", logging.Int("files", len(files)))

	for _, file := range files {
		if err := ctx.Err(); err != nil {
			log.Warn("batch run interrupted",
				logging.Int("processed", tally.Total()),
				logging.Int("remaining", len(files)-tally.Total()),
			)
			return tally, err
		}

		outcome := r.resolver.Resolve(ctx, file.Path)
		tally.record(file.Path, outcome)

		fileLog := log.With(logging.String(logging.FieldFile, file.Path))
		switch outcome.Status {
		case resolver.StatusEmbedded:
			fileLog.Info("cover art embedded",
				logging.String(logging.FieldOutcome, outcome.Status.String()),
				logging.String(logging.FieldRelease, outcome.ReleaseID),
			)
		case resolver.StatusAlreadyPresent:
			fileLog.Info("cover art already present",
				logging.String(logging.FieldOutcome, outcome.Status.String()),
			)
		default:
			fileLog.Error("cover art resolution failed",
				logging.String(logging.FieldOutcome, outcome.Status.String()),
				logging.Error(outcome.Err),
			)
		}
	}

	log.Info("batch run finished",
		logging.Int("embedded", tally.Embedded),
		logging.Int("already_present", tally.AlreadyPresent),
		logging.Int("failed", tally.Failed),
	)
	return tally, nil
}
