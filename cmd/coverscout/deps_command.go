package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"coverscout/internal/deps"
)

func newDepsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "deps",
		Short: "Check availability of required external tools",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return fmt.Errorf("load configuration: %w", err)
			}

			requirements := deps.Required()
			for i := range requirements {
				switch requirements[i].Command {
				case "fpcalc":
					requirements[i].Command = cfg.FpcalcBinary()
				case "ffprobe":
					requirements[i].Command = cfg.FFprobeBinary()
				}
			}
			statuses := deps.CheckBinaries(requirements)

			rows := make([][]string, 0, len(statuses))
			for _, status := range statuses {
				detail := status.Detail
				if status.Available {
					detail = "found"
				}
				rows = append(rows, []string{
					status.Name,
					status.Command,
					yesNo(status.Available),
					detail,
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Tool", "Command", "Available", "Detail"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft},
			))

			if missing := deps.MissingRequired(statuses); len(missing) > 0 {
				return fmt.Errorf("missing required tool(s): %s", strings.Join(missing, ", "))
			}
			return nil
		},
	}
}
