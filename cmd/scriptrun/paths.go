package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/musher-dev/scriptrun/internal/output"
	"github.com/musher-dev/scriptrun/internal/paths"
)

// PathsInfo holds all resolved paths for JSON output.
type PathsInfo struct {
	ConfigRoot string `json:"config_root"`
	StateRoot  string `json:"state_root"`
	ConfigFile string `json:"config_file"`
	LogsDir    string `json:"logs_dir"`
	LogFile    string `json:"log_file"`
}

func newPathsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "paths",
		Short: "Show where scriptrun stores files",
		Long: `Display the configuration and log paths used by scriptrun and by
programs that load the libscriptrun library.`,
		Example: `  scriptrun paths
  scriptrun paths --json`,
		Args: noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := output.FromContext(cmd.Context())

			info := resolvePathsInfo()

			if out.JSON {
				return out.PrintJSON(info)
			}

			out.Print("Config root:  %s\n", info.ConfigRoot)
			out.Print("State root:   %s\n", info.StateRoot)
			out.Print("\n")
			out.Print("Config file:  %s\n", info.ConfigFile)
			out.Print("Logs dir:     %s\n", info.LogsDir)
			out.Print("Log file:     %s\n", info.LogFile)

			return nil
		},
	}
}

func resolvePathsInfo() PathsInfo {
	return PathsInfo{
		ConfigRoot: resolveOrError(paths.ConfigRoot),
		StateRoot:  resolveOrError(paths.StateRoot),
		ConfigFile: resolveOrError(paths.ConfigFile),
		LogsDir:    resolveOrError(paths.LogsDir),
		LogFile:    resolveOrError(paths.DefaultLogFile),
	}
}

func resolveOrError(fn func() (string, error)) string {
	val, err := fn()
	if err != nil {
		return fmt.Sprintf("<error: %v>", err)
	}

	return val
}
