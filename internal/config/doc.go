// Package config loads, normalizes, and validates coverscout configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// ACOUSTID_API_KEY. The Config type centralizes every knob the CLI needs,
// so cache directories and external service credentials are discovered in
// one pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
