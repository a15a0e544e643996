package resolver

import (
	"context"
	"errors"
	"testing"

	"coverscout/internal/acoustid"
	"coverscout/internal/fingerprint"
	"coverscout/internal/logging"
	"coverscout/internal/lookupcache"
)

type fakeDetector struct {
	hasArt bool
	err    error
	calls  int
}

func (d *fakeDetector) HasEmbeddedArt(_ context.Context, _ string) (bool, error) {
	d.calls++
	return d.hasArt, d.err
}

type fakeFingerprinter struct {
	fp    fingerprint.Fingerprint
	err   error
	calls int
}

func (f *fakeFingerprinter) Compute(_ context.Context, _ string) (fingerprint.Fingerprint, error) {
	f.calls++
	return f.fp, f.err
}

type fakeLookup struct {
	resp  *acoustid.Response
	err   error
	calls int
}

func (l *fakeLookup) Lookup(_ context.Context, _ string, _ int) (*acoustid.Response, error) {
	l.calls++
	return l.resp, l.err
}

type fakeFetcher struct {
	image     []byte
	releaseID string
	err       error
	gotIDs    []string
}

func (f *fakeFetcher) FrontImage(_ context.Context, releaseIDs []string) ([]byte, string, error) {
	f.gotIDs = releaseIDs
	return f.image, f.releaseID, f.err
}

type fakeCache struct {
	entries map[string]lookupcache.Entry
	getErr  error
	putErr  error
	puts    int
}

func (c *fakeCache) Get(_ context.Context, fp string) (lookupcache.Entry, bool, error) {
	if c.getErr != nil {
		return lookupcache.Entry{}, false, c.getErr
	}
	entry, ok := c.entries[fp]
	return entry, ok, nil
}

func (c *fakeCache) Put(_ context.Context, fp string, releaseIDs []string, bestScore float64) error {
	c.puts++
	if c.putErr != nil {
		return c.putErr
	}
	if c.entries == nil {
		c.entries = make(map[string]lookupcache.Entry)
	}
	c.entries[fp] = lookupcache.Entry{ReleaseIDs: releaseIDs, BestScore: bestScore}
	return nil
}

func matchResponse(score float64, releaseIDs ...string) *acoustid.Response {
	releases := make([]acoustid.Release, 0, len(releaseIDs))
	for _, id := range releaseIDs {
		releases = append(releases, acoustid.Release{ID: id})
	}
	return &acoustid.Response{
		Status: "ok",
		Results: []acoustid.Result{
			{
				ID:    "result-1",
				Score: score,
				Recordings: []acoustid.Recording{
					{ID: "recording-1", Releases: releases},
				},
			},
		},
	}
}

type deps struct {
	detector *fakeDetector
	printer  *fakeFingerprinter
	lookup   *fakeLookup
	fetcher  *fakeFetcher
	embedded map[string][]byte
	embedErr error
}

func newTestResolver(t *testing.T, d *deps, cache LookupCache) *Resolver {
	t.Helper()
	d.embedded = make(map[string][]byte)
	resolver, err := New(Deps{
		Detector:      d.detector,
		Fingerprinter: d.printer,
		Lookup:        d.lookup,
		Fetcher:       d.fetcher,
		Embed: func(path string, image []byte) error {
			if d.embedErr != nil {
				return d.embedErr
			}
			d.embedded[path] = image
			return nil
		},
		Cache: cache,
	}, Options{MinScore: 0.5}, logging.NewNop())
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	return resolver
}

func defaultDeps() *deps {
	return &deps{
		detector: &fakeDetector{},
		printer:  &fakeFingerprinter{fp: fingerprint.Fingerprint{Value: "FP", Duration: 180}},
		lookup:   &fakeLookup{resp: matchResponse(0.92, "release-a", "release-b")},
		fetcher:  &fakeFetcher{image: []byte{0xFF, 0xD8, 0xFF}, releaseID: "release-a"},
	}
}

func TestResolveEmbedsCover(t *testing.T) {
	d := defaultDeps()
	resolver := newTestResolver(t, d, nil)

	outcome := resolver.Resolve(context.Background(), "/music/track.mp3")
	if outcome.Status != StatusEmbedded {
		t.Fatalf("status = %v, want %v (err: %v)", outcome.Status, StatusEmbedded, outcome.Err)
	}
	if outcome.ReleaseID != "release-a" {
		t.Errorf("release ID = %q, want release-a", outcome.ReleaseID)
	}
	if len(d.embedded["/music/track.mp3"]) == 0 {
		t.Error("image was not embedded")
	}
	if len(d.fetcher.gotIDs) != 2 {
		t.Errorf("fetcher saw %d candidates, want 2", len(d.fetcher.gotIDs))
	}
}

func TestResolveSkipsFilesWithArt(t *testing.T) {
	d := defaultDeps()
	d.detector.hasArt = true
	resolver := newTestResolver(t, d, nil)

	outcome := resolver.Resolve(context.Background(), "/music/track.mp3")
	if outcome.Status != StatusAlreadyPresent {
		t.Fatalf("status = %v, want %v", outcome.Status, StatusAlreadyPresent)
	}
	if d.printer.calls != 0 {
		t.Error("fingerprinter should not run for files that already have art")
	}
	if d.lookup.calls != 0 {
		t.Error("lookup should not run for files that already have art")
	}
}

func TestResolveBelowThresholdFails(t *testing.T) {
	d := defaultDeps()
	d.lookup.resp = matchResponse(0.2, "release-a")
	resolver := newTestResolver(t, d, nil)

	outcome := resolver.Resolve(context.Background(), "/music/track.mp3")
	if outcome.Status != StatusFailed {
		t.Fatalf("status = %v, want %v", outcome.Status, StatusFailed)
	}
	if outcome.Err == nil {
		t.Fatal("failed outcome must carry an error")
	}
}

func TestResolveFingerprintErrorFails(t *testing.T) {
	d := defaultDeps()
	d.printer.err = errors.New("fpcalc exploded")
	resolver := newTestResolver(t, d, nil)

	outcome := resolver.Resolve(context.Background(), "/music/track.mp3")
	if outcome.Status != StatusFailed {
		t.Fatalf("status = %v, want %v", outcome.Status, StatusFailed)
	}
	if d.lookup.calls != 0 {
		t.Error("lookup should not run after a fingerprint failure")
	}
}

func TestResolveFetchErrorFails(t *testing.T) {
	d := defaultDeps()
	d.fetcher.err = errors.New("archive unavailable")
	resolver := newTestResolver(t, d, nil)

	outcome := resolver.Resolve(context.Background(), "/music/track.mp3")
	if outcome.Status != StatusFailed {
		t.Fatalf("status = %v, want %v", outcome.Status, StatusFailed)
	}
	if len(d.embedded) != 0 {
		t.Error("nothing should be embedded after a fetch failure")
	}
}

func TestResolveEmbedErrorFails(t *testing.T) {
	d := defaultDeps()
	d.embedErr = errors.New("unsupported container")
	resolver := newTestResolver(t, d, nil)

	outcome := resolver.Resolve(context.Background(), "/music/track.wav")
	if outcome.Status != StatusFailed {
		t.Fatalf("status = %v, want %v", outcome.Status, StatusFailed)
	}
}

func TestResolveUsesLookupCache(t *testing.T) {
	d := defaultDeps()
	cache := &fakeCache{entries: map[string]lookupcache.Entry{
		"FP": {ReleaseIDs: []string{"cached-release"}, BestScore: 0.9},
	}}
	resolver := newTestResolver(t, d, cache)

	outcome := resolver.Resolve(context.Background(), "/music/track.mp3")
	if outcome.Status != StatusEmbedded {
		t.Fatalf("status = %v, want %v (err: %v)", outcome.Status, StatusEmbedded, outcome.Err)
	}
	if d.lookup.calls != 0 {
		t.Error("cache hit should bypass the lookup service")
	}
	if len(d.fetcher.gotIDs) != 1 || d.fetcher.gotIDs[0] != "cached-release" {
		t.Errorf("fetcher candidates = %v, want cached-release", d.fetcher.gotIDs)
	}
}

func TestResolveWritesLookupCache(t *testing.T) {
	d := defaultDeps()
	cache := &fakeCache{}
	resolver := newTestResolver(t, d, cache)

	if outcome := resolver.Resolve(context.Background(), "/music/track.mp3"); outcome.Status != StatusEmbedded {
		t.Fatalf("status = %v, want %v (err: %v)", outcome.Status, StatusEmbedded, outcome.Err)
	}
	entry, ok := cache.entries["FP"]
	if !ok {
		t.Fatal("lookup result was not cached")
	}
	if len(entry.ReleaseIDs) != 2 {
		t.Errorf("cached %d release IDs, want 2", len(entry.ReleaseIDs))
	}
	if entry.BestScore != 0.92 {
		t.Errorf("cached best score = %v, want 0.92", entry.BestScore)
	}
}

func TestResolveToleratesCacheErrors(t *testing.T) {
	d := defaultDeps()
	cache := &fakeCache{getErr: errors.New("disk full"), putErr: errors.New("disk full")}
	resolver := newTestResolver(t, d, cache)

	outcome := resolver.Resolve(context.Background(), "/music/track.mp3")
	if outcome.Status != StatusEmbedded {
		t.Fatalf("status = %v, want %v (err: %v)", outcome.Status, StatusEmbedded, outcome.Err)
	}
	if d.lookup.calls != 1 {
		t.Errorf("lookup calls = %d, want 1", d.lookup.calls)
	}
}

func TestResolveCancelledContext(t *testing.T) {
	d := defaultDeps()
	resolver := newTestResolver(t, d, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	outcome := resolver.Resolve(ctx, "/music/track.mp3")
	if outcome.Status != StatusFailed {
		t.Fatalf("status = %v, want %v", outcome.Status, StatusFailed)
	}
	if !errors.Is(outcome.Err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", outcome.Err)
	}
	if d.detector.calls != 0 {
		t.Error("detector should not run once the context is cancelled")
	}
}

func TestNewValidatesDeps(t *testing.T) {
	_, err := New(Deps{}, Options{MinScore: 0.5}, logging.NewNop())
	if err == nil {
		t.Fatal("expected error for missing deps")
	}
}

func TestStatusString(t *testing.T) {
	cases := map[Status]string{
		StatusEmbedded:       "embedded",
		StatusAlreadyPresent: "already-present",
		StatusFailed:         "failed",
		Status(99):           "unknown",
	}
	for status, want := range cases {
		if got := status.String(); got != want {
			t.Errorf("Status(%d).String() = %q, want %q", status, got, want)
		}
	}
}
