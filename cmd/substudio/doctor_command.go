package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"substudio/internal/deps"
	"substudio/internal/preflight"
	"substudio/internal/services"
)

func newDoctorCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check external tools and studio directories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			statuses := preflight.CheckSystemDeps(cfg)
			rows := make([][]string, 0, len(statuses))
			for _, status := range statuses {
				detail := status.Detail
				if status.Available {
					detail = status.Path
					if !status.Optional {
						if version, err := deps.VersionLine(cmd.Context(), status.Path); err == nil && version != "" {
							detail = version
						}
					}
				}
				rows = append(rows, []string{status.Name, yesNo(status.Available), yesNo(!status.Optional), detail})
			}
			fmt.Fprintln(out, renderTable([]string{"Tool", "Found", "Required", "Detail"}, rows, nil))

			results := preflight.RunAll(cmd.Context(), cfg)
			rows = rows[:0]
			for _, result := range results {
				state := "OK"
				if !result.Passed {
					state = "FAIL"
				}
				rows = append(rows, []string{result.Name, state, result.Detail})
			}
			fmt.Fprintln(out, renderTable([]string{"Check", "Status", "Detail"}, rows, nil))

			missing := deps.Missing(statuses)
			failed := preflight.Failed(results)
			if len(missing) == 0 && len(failed) == 0 {
				fmt.Fprintln(out, "All checks passed")
				return nil
			}
			if len(missing) > 0 {
				return services.Wrap(services.ErrNotFound, "doctor", "check tools",
					fmt.Sprintf("%d required tool(s) missing", len(missing)), nil)
			}
			return fmt.Errorf("%d check(s) failed", len(failed))
		},
	}
}
