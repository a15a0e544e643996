package main

import (
	"bufio"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"coverscout/internal/batch"
	"coverscout/internal/deps"
	"coverscout/internal/scan"
)

func newScanCommand(ctx *commandContext) *cobra.Command {
	var assumeYes bool

	cmd := &cobra.Command{
		Use:   "scan <directory>",
		Short: "Resolve cover art for every audio file under a directory",
		Long: `Scan a directory tree for audio files, then fingerprint, identify, and
embed cover art into each file that has none. Files are processed in a
stable order and one failing file never stops the run.

A summary table is printed at the end. The command exits non-zero only
when at least one file failed or the run could not start.`,
		Example: `  coverscout scan ~/Music
  coverscout scan --yes /srv/library`,
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

			root := strings.TrimSpace(args[0])
			files, err := scan.Discover(root, scan.Options{
				Extensions:     cfg.Scan.Extensions,
				FollowSymlinks: cfg.Scan.FollowSymlinks,
			})
			if err != nil {
				return fmt.Errorf("scan %s: %w", root, err)
			}

			out := cmd.OutOrStdout()
			if len(files) == 0 {
				fmt.Fprintf(out, "No audio files found under %s\n", root)
				return nil
			}

			fmt.Fprintf(out, "Found %d audio file(s) under %s\n", len(files), root)
			for _, file := range files {
				fmt.Fprintf(out, "  %s\n", file.Path)
			}

			if !assumeYes {
				confirmed, err := confirmRun(cmd, len(files))
				if err != nil {
					return err
				}
				if !confirmed {
					fmt.Fprintln(out, "Aborted.")
					return nil
				}
			}

			logger, err := ctx.buildLogger(cfg)
			if err != nil {
				return err
			}
			runner, cleanup, err := ctx.buildRunner(cfg, logger)
			if err != nil {
				cleanup()
				return err
			}
			defer cleanup()

			runCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			tally, runErr := runner.Run(runCtx, files)
			printTally(cmd, tally)
			if runErr != nil {
				return runErr
			}
			if tally.Failed > 0 {
				return fmt.Errorf("%d of %d file(s) failed", tally.Failed, tally.Total())
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "Process files without asking for confirmation")
	return cmd
}

func confirmRun(cmd *cobra.Command, count int) (bool, error) {
	in := cmd.InOrStdin()
	if file, ok := in.(*os.File); ok && !isInteractive(file) {
		fmt.Fprintln(cmd.OutOrStdout(), "Standard input is not a terminal; pass --yes to proceed.")
		return false, nil
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Process %d file(s)? [y/N]: ", count)
	reader := bufio.NewReader(in)
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return false, nil
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes", nil
}

func checkRequiredBinaries(fpcalc, ffprobe string) error {
	requirements := deps.Required()
	for i := range requirements {
		switch requirements[i].Command {
		case "fpcalc":
			requirements[i].Command = fpcalc
		case "ffprobe":
			requirements[i].Command = ffprobe
		}
	}
	missing := deps.MissingRequired(deps.CheckBinaries(requirements))
	if len(missing) > 0 {
		return fmt.Errorf("missing required tool(s): %s (run 'coverscout deps' for details)", strings.Join(missing, ", "))
	}
	return nil
}

func printTally(cmd *cobra.Command, tally batch.Tally) {
	out := cmd.OutOrStdout()
	rows := [][]string{
		{"Embedded", strconv.Itoa(tally.Embedded)},
		{"Already present", strconv.Itoa(tally.AlreadyPresent)},
		{"Failed", strconv.Itoa(tally.Failed)},
		{"Total", strconv.Itoa(tally.Total())},
	}
	fmt.Fprintln(out, renderTable(
		[]string{"Outcome", "Files"},
		rows,
		[]columnAlignment{alignLeft, alignRight},
	))
	if len(tally.FailedPaths) > 0 {
		fmt.Fprintln(out, "Failed files:")
		for _, path := range tally.FailedPaths {
			fmt.Fprintf(out, "  %s\n", path)
		}
	}
}
