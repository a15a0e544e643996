package resolver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"coverscout/internal/acoustid"
	"coverscout/internal/coverart"
	"coverscout/internal/fingerprint"
	"coverscout/internal/logging"
	"coverscout/internal/lookupcache"
)

// Status is the ternary per-file outcome the batch driver tallies.
type Status int

const (
	// StatusEmbedded means a cover was fetched and written into the file.
	StatusEmbedded Status = iota
	// StatusAlreadyPresent means the file already had embedded art.
	StatusAlreadyPresent
	// StatusFailed means resolution stopped at some stage; Outcome.Err says why.
	StatusFailed
)

// String implements fmt.Stringer for log output.
func (s Status) String() string {
	switch s {
	case StatusEmbedded:
		return "embedded"
	case StatusAlreadyPresent:
		return "already-present"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Outcome is the typed result of resolving one file.
type Outcome struct {
	Status    Status
	ReleaseID string // set when Status is StatusEmbedded
	Err       error  // set when Status is StatusFailed
}

// ArtDetector reports whether a file already has embedded artwork.
type ArtDetector interface {
	HasEmbeddedArt(ctx context.Context, path string) (bool, error)
}

// Fingerprinter computes the acoustic fingerprint of a file.
type Fingerprinter interface {
	Compute(ctx context.Context, path string) (fingerprint.Fingerprint, error)
}

// ArtFetcher retrieves a front cover for one of the candidate releases.
type ArtFetcher interface {
	FrontImage(ctx context.Context, releaseIDs []string) ([]byte, string, error)
}

// EmbedFunc writes an image into a file's tag container.
type EmbedFunc func(path string, image []byte) error

// LookupCache persists fingerprint lookups between runs.
type LookupCache interface {
	Get(ctx context.Context, fingerprint string) (lookupcache.Entry, bool, error)
	Put(ctx context.Context, fingerprint string, releaseIDs []string, bestScore float64) error
}

// Deps wires the resolver's collaborators.
type Deps struct {
	Detector      ArtDetector
	Fingerprinter Fingerprinter
	Lookup        acoustid.Lookuper
	Fetcher       ArtFetcher
	Embed         EmbedFunc
	Cache         LookupCache // optional
}

// Options carries resolution thresholds.
type Options struct {
	// MinScore is the minimum AcoustID match confidence (0..1).
	MinScore float64
}

// Resolver resolves cover art for individual audio files.
type Resolver struct {
	deps     Deps
	minScore float64
	logger   *slog.Logger
}

// New builds a Resolver. All Deps fields except Cache are required.
func New(deps Deps, opts Options, logger *slog.Logger) (*Resolver, error) {
	if deps.Detector == nil || deps.Fingerprinter == nil || deps.Lookup == nil || deps.Fetcher == nil || deps.Embed == nil {
		return nil, errors.New("resolver requires detector, fingerprinter, lookup, fetcher, and embed")
	}
	if opts.MinScore < 0 || opts.MinScore > 1 {
		return nil, errors.New("min score must be between 0 and 1")
	}
	return &Resolver{
		deps:     deps,
		minScore: opts.MinScore,
		logger:   logging.NewComponentLogger(logger, "resolver"),
	}, nil
}

// Resolve runs the pipeline for one file and returns its typed outcome.
// Failures never panic or propagate as plain errors; they are folded into
// a StatusFailed outcome so one bad file cannot abort a batch.
func (r *Resolver) Resolve(ctx context.Context, path string) Outcome {
	log := logging.WithContext(logging.WithFile(ctx, path), r.logger)

	if err := ctx.Err(); err != nil {
		return failed(err)
	}

	hasArt, err := r.deps.Detector.HasEmbeddedArt(ctx, path)
	if err != nil {
		return failed(fmt.Errorf("detect artwork: %w", err))
	}
	if hasArt {
		log.Debug("file already has embedded art")
		return Outcome{Status: StatusAlreadyPresent}
	}

	fp, err := r.deps.Fingerprinter.Compute(ctx, path)
	if err != nil {
		return failed(fmt.Errorf("fingerprint: %w", err))
	}
	log.Debug("fingerprint computed", logging.Int("duration_seconds", fp.Duration))

	releaseIDs, err := r.releaseCandidates(ctx, fp, log)
	if err != nil {
		return failed(err)
	}
	if len(releaseIDs) == 0 {
		return failed(errors.New("no release matched above the confidence threshold"))
	}

	image, releaseID, err := r.deps.Fetcher.FrontImage(ctx, releaseIDs)
	if err != nil {
		return failed(fmt.Errorf("fetch cover art: %w", err))
	}
	log.Debug("cover art downloaded",
		logging.String(logging.FieldRelease, releaseID),
		logging.Int("bytes", len(image)),
	)

	if err := r.deps.Embed(path, image); err != nil {
		return failed(fmt.Errorf("embed cover art: %w", err))
	}

	return Outcome{Status: StatusEmbedded, ReleaseID: releaseID}
}

func (r *Resolver) releaseCandidates(ctx context.Context, fp fingerprint.Fingerprint, log *slog.Logger) ([]string, error) {
	if r.deps.Cache != nil {
		entry, ok, err := r.deps.Cache.Get(ctx, fp.Value)
		if err != nil {
			log.Warn("lookup cache read failed", logging.Error(err))
		} else if ok {
			log.Debug("lookup served from cache", logging.Int("candidates", len(entry.ReleaseIDs)))
			return entry.ReleaseIDs, nil
		}
	}

	resp, err := r.deps.Lookup.Lookup(ctx, fp.Value, fp.Duration)
	if err != nil {
		return nil, fmt.Errorf("acoustid lookup: %w", err)
	}

	candidates := acoustid.ReleaseCandidates(resp.Results, r.minScore)
	releaseIDs := make([]string, 0, len(candidates))
	bestScore := 0.0
	for _, candidate := range candidates {
		releaseIDs = append(releaseIDs, candidate.ReleaseID)
		if candidate.Score > bestScore {
			bestScore = candidate.Score
		}
	}
	log.Debug("acoustid lookup complete",
		logging.Int("results", len(resp.Results)),
		logging.Int("candidates", len(releaseIDs)),
	)

	if r.deps.Cache != nil {
		if err := r.deps.Cache.Put(ctx, fp.Value, releaseIDs, bestScore); err != nil {
			log.Warn("lookup cache write failed", logging.Error(err))
		}
	}
	return releaseIDs, nil
}

func failed(err error) Outcome {
	return Outcome{Status: StatusFailed, Err: err}
}

// Compile-time checks that the concrete collaborators satisfy the seams.
var (
	_ ArtFetcher  = (*coverart.Fetcher)(nil)
	_ LookupCache = (*lookupcache.Cache)(nil)
)
