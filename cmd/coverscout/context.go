package main

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"coverscout/internal/acoustid"
	"coverscout/internal/artwork"
	"coverscout/internal/batch"
	"coverscout/internal/config"
	"coverscout/internal/coverart"
	"coverscout/internal/fingerprint"
	"coverscout/internal/logging"
	"coverscout/internal/lookupcache"
	"coverscout/internal/resolver"
)

type commandContext struct {
	configFlag    *string
	logLevelFlag  *string
	logFormatFlag *string

	configOnce   sync.Once
	config       *config.Config
	configPath   string
	configExists bool
	configErr    error
}

func newCommandContext(configFlag, logLevelFlag, logFormatFlag *string) *commandContext {
	return &commandContext{
		configFlag:    configFlag,
		logLevelFlag:  logLevelFlag,
		logFormatFlag: logFormatFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, resolvedPath, exists, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
		c.configPath = resolvedPath
		c.configExists = exists
	})
	return c.config, c.configErr
}

func (c *commandContext) resolvedLogLevel(cfg *config.Config) string {
	if c.logLevelFlag != nil && strings.TrimSpace(*c.logLevelFlag) != "" {
		return strings.TrimSpace(*c.logLevelFlag)
	}
	return cfg.Logging.Level
}

func (c *commandContext) resolvedLogFormat(cfg *config.Config) string {
	if c.logFormatFlag != nil && strings.TrimSpace(*c.logFormatFlag) != "" {
		return strings.TrimSpace(*c.logFormatFlag)
	}
	return cfg.Logging.Format
}

func (c *commandContext) buildLogger(cfg *config.Config) (*slog.Logger, error) {
	logPath := filepath.Join(cfg.Paths.LogDir, "coverscout.log")
	logger, err := logging.New(logging.Options{
		Level:       c.resolvedLogLevel(cfg),
		Format:      c.resolvedLogFormat(cfg),
		OutputPaths: []string{"stderr", logPath},
	})
	if err != nil {
		return nil, fmt.Errorf("setup logging: %w", err)
	}
	return logger, nil
}

// buildResolver wires the resolution pipeline. The returned cleanup
// closes the lookup cache when one is open and must always be called.
func (c *commandContext) buildResolver(cfg *config.Config, logger *slog.Logger) (*resolver.Resolver, func(), error) {
	cleanup := func() {}

	lookup, err := acoustid.New(
		cfg.AcoustID.APIKey,
		cfg.AcoustID.BaseURL,
		acoustid.WithTimeout(time.Duration(cfg.AcoustID.RequestTimeout)*time.Second),
	)
	if err != nil {
		return nil, cleanup, fmt.Errorf("create acoustid client: %w", err)
	}

	deps := resolver.Deps{
		Detector: artwork.Detector{FFprobeBinary: cfg.FFprobeBinary()},
		Fingerprinter: fingerprint.Computer{
			Binary:    cfg.FpcalcBinary(),
			MaxLength: cfg.AcoustID.FingerprintLength,
		},
		Lookup:  lookup,
		Fetcher: coverart.New(cfg.CoverArt.UserAgent),
		Embed:   artwork.Embed,
	}

	if cfg.LookupCache.Enabled {
		cache, err := lookupcache.Open(cfg.LookupCache.Path)
		if err != nil {
			logger.Warn("lookup cache unavailable, continuing without it", logging.Error(err))
		} else {
			deps.Cache = cache
			cleanup = func() {
				if closeErr := cache.Close(); closeErr != nil {
					logger.Warn("failed to close lookup cache", logging.Error(closeErr))
				}
			}
		}
	}

	res, err := resolver.New(deps, resolver.Options{MinScore: cfg.AcoustID.MinScore}, logger)
	if err != nil {
		cleanup()
		return nil, func() {}, fmt.Errorf("create resolver: %w", err)
	}
	return res, cleanup, nil
}

func (c *commandContext) buildRunner(cfg *config.Config, logger *slog.Logger) (*batch.Runner, func(), error) {
	res, cleanup, err := c.buildResolver(cfg, logger)
	if err != nil {
		return nil, cleanup, err
	}
	lockPath := filepath.Join(cfg.Paths.LogDir, "coverscout.lock")
	runner, err := batch.New(res, lockPath, logger)
	if err != nil {
		cleanup()
		return nil, func() {}, fmt.Errorf("create batch runner: %w", err)
	}
	return runner, cleanup, nil
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
