package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateAcoustID(); err != nil {
		return err
	}
	if err := c.validateCoverArt(); err != nil {
		return err
	}
	if err := c.validateScan(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateAcoustID() error {
	if c.AcoustID.MinScore < 0 || c.AcoustID.MinScore > 1 {
		return errors.New("acoustid.min_score must be between 0 and 1")
	}
	if c.AcoustID.FingerprintLength <= 0 {
		return errors.New("acoustid.fingerprint_length must be positive (seconds)")
	}
	if c.AcoustID.RequestTimeout <= 0 {
		return errors.New("acoustid.request_timeout must be positive (seconds)")
	}
	return nil
}

func (c *Config) validateCoverArt() error {
	if c.CoverArt.UserAgent == "" {
		return errors.New("coverart.user_agent must be set")
	}
	return nil
}

func (c *Config) validateScan() error {
	if len(c.Scan.Extensions) == 0 {
		return errors.New("scan.extensions must include at least one extension")
	}
	return nil
}

// RequireAPIKey reports a usable error when no AcoustID key is configured.
// The key is only needed for commands that perform lookups, so config load
// does not enforce it.
func (c *Config) RequireAPIKey() error {
	if c.AcoustID.APIKey != "" {
		return nil
	}
	defaultPath, err := DefaultConfigPath()
	if err != nil {
		defaultPath = "~/.config/coverscout/config.toml"
	}
	return fmt.Errorf("acoustid.api_key is required. Set ACOUSTID_API_KEY env var or edit %s (create with 'coverscout config init')", defaultPath)
}
