package main

import (
	"github.com/spf13/cobra"

	"github.com/musher-dev/scriptrun/internal/doctor"
	clierrors "github.com/musher-dev/scriptrun/internal/errors"
	"github.com/musher-dev/scriptrun/internal/output"
)

func newDoctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Diagnose common issues",
		Long: `Run diagnostic checks on the shell scripts are run with, the config file,
and the structured log file. Exits with 1 when any check fails.`,
		Example: `  scriptrun doctor
  scriptrun doctor --json`,
		Args: noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := output.FromContext(cmd.Context())

			results := doctor.New().Run(cmd.Context())
			passed, failed, warnings := doctor.Summary(results)

			if out.JSON {
				if err := out.PrintJSON(results); err != nil {
					return err
				}
			} else {
				renderDoctor(out, results, passed, failed, warnings)
			}

			if failed > 0 {
				return clierrors.ExitStatus(clierrors.ExitGeneral)
			}

			return nil
		},
	}
}

func renderDoctor(out *output.Writer, results []doctor.Result, passed, failed, warnings int) {
	out.Println("scriptrun doctor")
	out.Println("================")
	out.Println()

	doctor.RenderResults(results, out.Print, out.Success, out.Warning, out.Failure, out.Muted)

	out.Println()
	out.Print("%d passed", passed)

	if failed > 0 {
		out.Print(", %d failed", failed)
	}

	if warnings > 0 {
		out.Print(", %d warning(s)", warnings)
	}

	out.Println()
}
