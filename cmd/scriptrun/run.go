package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/musher-dev/scriptrun/internal/bridge"
	clierrors "github.com/musher-dev/scriptrun/internal/errors"
	"github.com/musher-dev/scriptrun/internal/output"
)

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <script>...",
		Short: "Run a script through the platform shell",
		Long: `Run a command string through the platform shell and exit with its exit code.

Arguments are joined with single spaces into one script, which the shell
receives unescaped as a single argument. The script is echoed, dimmed,
before it starts. Ctrl-C kills the script and exits with 69.`,
		Example: `  scriptrun run 'make test'
  scriptrun run echo hello world
  scriptrun run -- ls -la`,
		Args: scriptArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := output.FromContext(cmd.Context())

			code := bridge.Run(cmd.Context(), out, strings.Join(args, " "))
			if code != clierrors.ExitSuccess {
				return clierrors.ExitStatus(code)
			}

			return nil
		},
	}

	// Flags after the first script word belong to the script.
	cmd.Flags().SetInterspersed(false)

	return cmd
}

func scriptArgs(_ *cobra.Command, args []string) error {
	if strings.TrimSpace(strings.Join(args, " ")) == "" {
		return clierrors.ScriptRequired()
	}

	return nil
}
