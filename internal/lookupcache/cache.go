// Package lookupcache persists AcoustID release lookups in SQLite so
// repeated scans over the same library avoid redundant network calls.
package lookupcache

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Entry is a cached lookup result for one fingerprint.
type Entry struct {
	ReleaseIDs []string
	BestScore  float64
	CachedAt   time.Time
}

// Cache manages lookup persistence backed by SQLite.
type Cache struct {
	db   *sql.DB
	path string
}

const schema = `
CREATE TABLE IF NOT EXISTS lookups (
    fingerprint_digest TEXT PRIMARY KEY,
    release_ids        TEXT NOT NULL,
    best_score         REAL NOT NULL,
    cached_at          TEXT NOT NULL
);
`

// Open initializes or connects to the cache database.
func Open(path string) (*Cache, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create cache directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &Cache{db: db, path: path}, nil
}

// Close closes the underlying database connection.
func (c *Cache) Close() error {
	if c == nil || c.db == nil {
		return nil
	}
	return c.db.Close()
}

// Path returns the database file location.
func (c *Cache) Path() string {
	return c.path
}

// Get returns the cached entry for a fingerprint, or ok=false when absent.
func (c *Cache) Get(ctx context.Context, fingerprint string) (Entry, bool, error) {
	var (
		releasesJSON string
		bestScore    float64
		cachedAt     string
	)
	row := c.db.QueryRowContext(
		ctx,
		`SELECT release_ids, best_score, cached_at FROM lookups WHERE fingerprint_digest = ?`,
		digest(fingerprint),
	)
	if err := row.Scan(&releasesJSON, &bestScore, &cachedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Entry{}, false, nil
		}
		return Entry{}, false, fmt.Errorf("read cache entry: %w", err)
	}

	var releaseIDs []string
	if err := json.Unmarshal([]byte(releasesJSON), &releaseIDs); err != nil {
		return Entry{}, false, fmt.Errorf("decode cached releases: %w", err)
	}
	parsedAt, err := time.Parse(time.RFC3339Nano, cachedAt)
	if err != nil {
		parsedAt = time.Time{}
	}
	return Entry{ReleaseIDs: releaseIDs, BestScore: bestScore, CachedAt: parsedAt}, true, nil
}

// Put stores or replaces the cached entry for a fingerprint.
func (c *Cache) Put(ctx context.Context, fingerprint string, releaseIDs []string, bestScore float64) error {
	releasesJSON, err := json.Marshal(releaseIDs)
	if err != nil {
		return fmt.Errorf("encode releases: %w", err)
	}
	_, err = c.db.ExecContext(
		ctx,
		`INSERT INTO lookups (fingerprint_digest, release_ids, best_score, cached_at)
         VALUES (?, ?, ?, ?)
         ON CONFLICT(fingerprint_digest) DO UPDATE SET
             release_ids = excluded.release_ids,
             best_score = excluded.best_score,
             cached_at = excluded.cached_at`,
		digest(fingerprint),
		string(releasesJSON),
		bestScore,
		time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("write cache entry: %w", err)
	}
	return nil
}

// Fingerprints are long; key rows by a fixed-size digest instead.
func digest(fingerprint string) string {
	sum := sha256.Sum256([]byte(fingerprint))
	return hex.EncodeToString(sum[:])
}
