package lookupcache

import (
	"context"
	"path/filepath"
	"testing"
)

func openTestCache(t *testing.T) *Cache {
	t.Helper()
	cache, err := Open(filepath.Join(t.TempDir(), "nested", "lookups.db"))
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	t.Cleanup(func() { _ = cache.Close() })
	return cache
}

func TestPutAndGet(t *testing.T) {
	cache := openTestCache(t)
	ctx := context.Background()

	if err := cache.Put(ctx, "AQAD-fingerprint", []string{"rel-1", "rel-2"}, 0.93); err != nil {
		t.Fatalf("Put returned error: %v", err)
	}

	entry, ok, err := cache.Get(ctx, "AQAD-fingerprint")
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if !ok {
		t.Fatal("expected cache hit")
	}
	if len(entry.ReleaseIDs) != 2 || entry.ReleaseIDs[0] != "rel-1" {
		t.Fatalf("unexpected releases: %#v", entry.ReleaseIDs)
	}
	if entry.BestScore != 0.93 {
		t.Fatalf("unexpected score: %v", entry.BestScore)
	}
	if entry.CachedAt.IsZero() {
		t.Fatal("expected cached_at to be recorded")
	}
}

func TestGetMiss(t *testing.T) {
	cache := openTestCache(t)
	_, ok, err := cache.Get(context.Background(), "unknown")
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if ok {
		t.Fatal("expected cache miss")
	}
}

func TestPutReplacesEntry(t *testing.T) {
	cache := openTestCache(t)
	ctx := context.Background()

	if err := cache.Put(ctx, "fp", []string{"old"}, 0.5); err != nil {
		t.Fatalf("Put returned error: %v", err)
	}
	if err := cache.Put(ctx, "fp", []string{"new"}, 0.8); err != nil {
		t.Fatalf("second Put returned error: %v", err)
	}

	entry, ok, err := cache.Get(ctx, "fp")
	if err != nil || !ok {
		t.Fatalf("Get failed: ok=%v err=%v", ok, err)
	}
	if len(entry.ReleaseIDs) != 1 || entry.ReleaseIDs[0] != "new" {
		t.Fatalf("expected replacement, got %#v", entry.ReleaseIDs)
	}
}

func TestEmptyReleaseListRoundTrip(t *testing.T) {
	cache := openTestCache(t)
	ctx := context.Background()

	// A negative lookup result is still worth caching.
	if err := cache.Put(ctx, "fp", nil, 0); err != nil {
		t.Fatalf("Put returned error: %v", err)
	}
	entry, ok, err := cache.Get(ctx, "fp")
	if err != nil || !ok {
		t.Fatalf("Get failed: ok=%v err=%v", ok, err)
	}
	if len(entry.ReleaseIDs) != 0 {
		t.Fatalf("expected empty list, got %#v", entry.ReleaseIDs)
	}
}
