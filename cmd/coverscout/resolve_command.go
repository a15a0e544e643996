package main

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"coverscout/internal/resolver"
	"coverscout/internal/scan"
)

func newResolveCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resolve <file>",
		Short: "Resolve cover art for a single audio file",
		Long: `Run the full resolution pipeline against one file: detect existing
artwork, fingerprint with fpcalc, identify the recording via AcoustID,
fetch a front cover from the Cover Art Archive, and embed it.

Useful for troubleshooting a file the scan command reported as failed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return fmt.Errorf("load configuration: %w", err)
			}
			if err := cfg.RequireAPIKey(); err != nil {
				return err
			}
			if err := checkRequiredBinaries(cfg.FpcalcBinary(), cfg.FFprobeBinary()); err != nil {
				return err
			}

			path := strings.TrimSpace(args[0])
			info, err := os.Stat(path)
			if err != nil {
				return fmt.Errorf("stat %s: %w", path, err)
			}
			if info.IsDir() {
				return fmt.Errorf("%s is a directory; use 'coverscout scan'", path)
			}

			logger, err := ctx.buildLogger(cfg)
			if err != nil {
				return err
			}
			res, cleanup, err := ctx.buildResolver(cfg, logger)
			if err != nil {
				cleanup()
				return err
			}
			defer cleanup()

			runCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			outcome := res.Resolve(runCtx, path)
			out := cmd.OutOrStdout()
			title := scan.DeriveTitle(path)
			switch outcome.Status {
			case resolver.StatusEmbedded:
				fmt.Fprintf(out, "Embedded cover art into %s (release %s)\n", title, outcome.ReleaseID)
				return nil
			case resolver.StatusAlreadyPresent:
				fmt.Fprintf(out, "%s already has embedded cover art\n", title)
				return nil
			default:
				return fmt.Errorf("resolve %s: %w", path, outcome.Err)
			}
		},
	}
	return cmd
}
