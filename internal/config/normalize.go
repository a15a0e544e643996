package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	if err := c.normalizeAcoustID(); err != nil {
		return err
	}
	c.normalizeCoverArt()
	c.normalizeScan()
	if err := c.normalizeLookupCache(); err != nil {
		return err
	}
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.CacheDir) == "" {
		c.Paths.CacheDir = defaultCacheDir
	}
	if c.Paths.CacheDir, err = expandPath(c.Paths.CacheDir); err != nil {
		return fmt.Errorf("paths.cache_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeAcoustID() error {
	c.AcoustID.APIKey = strings.TrimSpace(c.AcoustID.APIKey)
	if c.AcoustID.APIKey == "" {
		if value, ok := os.LookupEnv("ACOUSTID_API_KEY"); ok {
			c.AcoustID.APIKey = strings.TrimSpace(value)
		}
	}
	c.AcoustID.BaseURL = strings.TrimSpace(c.AcoustID.BaseURL)
	if c.AcoustID.BaseURL == "" {
		c.AcoustID.BaseURL = defaultAcoustIDBaseURL
	}
	if c.AcoustID.MinScore == 0 {
		c.AcoustID.MinScore = defaultAcoustIDMinScore
	}
	if c.AcoustID.FingerprintLength <= 0 {
		c.AcoustID.FingerprintLength = defaultFingerprintLength
	}
	if c.AcoustID.RequestTimeout <= 0 {
		c.AcoustID.RequestTimeout = defaultAcoustIDRequestTimeout
	}
	return nil
}

func (c *Config) normalizeCoverArt() {
	c.CoverArt.UserAgent = strings.TrimSpace(c.CoverArt.UserAgent)
	if c.CoverArt.UserAgent == "" {
		c.CoverArt.UserAgent = defaultCoverArtUserAgent
	}
}

func (c *Config) normalizeScan() {
	if len(c.Scan.Extensions) == 0 {
		c.Scan.Extensions = append([]string(nil), DefaultExtensions...)
		return
	}
	exts := make([]string, 0, len(c.Scan.Extensions))
	seen := make(map[string]struct{}, len(c.Scan.Extensions))
	for _, ext := range c.Scan.Extensions {
		normalized := strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
		if normalized == "" {
			continue
		}
		if _, exists := seen[normalized]; exists {
			continue
		}
		seen[normalized] = struct{}{}
		exts = append(exts, normalized)
	}
	if len(exts) == 0 {
		exts = append([]string(nil), DefaultExtensions...)
	}
	c.Scan.Extensions = exts
}

func (c *Config) normalizeLookupCache() error {
	var err error
	if strings.TrimSpace(c.LookupCache.Path) == "" {
		c.LookupCache.Path = filepath.Join(c.Paths.CacheDir, defaultLookupCacheFile)
	}
	if c.LookupCache.Path, err = expandPath(c.LookupCache.Path); err != nil {
		return fmt.Errorf("lookup_cache.path: %w", err)
	}
	return nil
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
