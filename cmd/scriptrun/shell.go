package main

import (
	"github.com/spf13/cobra"

	"github.com/musher-dev/scriptrun/internal/output"
	"github.com/musher-dev/scriptrun/internal/shell"
)

func newShellCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Show the shell used to run scripts",
		Long:  `Display the shell executable and flag that scripts are passed to on this platform.`,
		Example: `  scriptrun shell
  scriptrun shell --json`,
		Args: noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := output.FromContext(cmd.Context())
			spec := shell.Resolve()

			if out.JSON {
				return out.PrintJSON(spec)
			}

			out.Print("%s\n", spec)

			return nil
		},
	}
}
