// Package bridge is the entry point shared by the scriptrun CLI and the
// run_script C export.
package bridge

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/musher-dev/scriptrun/internal/buildinfo"
	"github.com/musher-dev/scriptrun/internal/config"
	"github.com/musher-dev/scriptrun/internal/observability"
	"github.com/musher-dev/scriptrun/internal/output"
	"github.com/musher-dev/scriptrun/internal/runner"
)

// CommandPath identifies library calls in log records.
const CommandPath = "run_script"

const telemetryShutdownTimeout = 5 * time.Second

// RunScript runs script through the platform shell and returns its exit
// code. The caller's terminal belongs to the script, so structured logs go
// to the configured log file rather than stderr unless log.stderr is "on".
//
// An interrupt while the script runs ends the whole process with code 69.
func RunScript(script string) int {
	ctx := context.Background()

	cfg := config.Load()

	out := output.Default()
	if !cfg.ColorEnabled() {
		out.SetNoColor(true)
	}

	logger, cleanup, err := observability.NewLogger(&observability.Config{
		Level:          cfg.LogLevel(),
		Format:         cfg.LogFormat(),
		LogFile:        cfg.LogFile(),
		StderrMode:     cfg.LogStderr(),
		InteractiveTTY: true,
		SessionID:      uuid.NewString(),
		CommandPath:    CommandPath,
		Version:        buildinfo.Version,
		Commit:         buildinfo.Commit,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: logging disabled: %v\n", err)

		logger = slog.New(slog.DiscardHandler)
		cleanup = func() error { return nil }
	}

	defer func() { _ = cleanup() }()

	ctx = observability.WithLogger(ctx, logger)

	shutdown, err := observability.SetupTelemetry(ctx, observability.TelemetryConfigFromEnv(buildinfo.Version, buildinfo.Commit))
	if err != nil {
		logger.Warn("telemetry initialization failed", slog.String("error", err.Error()))
	}

	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), telemetryShutdownTimeout)
		defer cancel()

		if err := shutdown(shutdownCtx); err != nil {
			logger.Warn("telemetry shutdown failed", slog.String("error", err.Error()))
		}
	}()

	return Run(ctx, out, script)
}

// Run executes script with a logger and writer the caller has already set
// up, and returns the resolved exit code.
func Run(ctx context.Context, out *output.Writer, script string, opts ...runner.Option) int {
	opts = append([]runner.Option{runner.WithOutput(out)}, opts...)

	return runner.New(opts...).Run(ctx, script).Code
}
