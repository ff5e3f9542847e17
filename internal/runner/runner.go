// Package runner executes script commands through the platform shell and
// resolves each run to a single exit code.
//
// A run ends in exactly one way. Either the waiting goroutine reaps the
// child and maps its status to a code, or an interrupt kills the child and
// terminates the whole process with code 69. The two race for the child
// through a take-once slot; whichever takes it decides the outcome. An
// interrupt that takes the slot only after the waiter reaped the child
// finds nothing to kill and leaves the natural exit in place.
package runner

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/musher-dev/scriptrun/internal/ansi"
	clierrors "github.com/musher-dev/scriptrun/internal/errors"
	"github.com/musher-dev/scriptrun/internal/observability"
	"github.com/musher-dev/scriptrun/internal/output"
	"github.com/musher-dev/scriptrun/internal/shell"
)

const previewWidth = 120

// State records how a run ended.
type State string

const (
	ReapedNatural     State = "reaped_natural"
	KilledByInterrupt State = "killed_by_interrupt"
	AlreadyReaped     State = "already_reaped"
	SpawnFailed       State = "spawn_failed"
	WaitFailed        State = "wait_failed"
)

// Result is the outcome of one run. Err is set for SpawnFailed and
// WaitFailed and has already been reported on the output writer.
type Result struct {
	Code  int
	State State
	Err   error
}

// Runner runs scripts. The zero value is not usable; use New.
type Runner struct {
	shell      shell.Spec
	out        *output.Writer
	stdin      io.Reader
	spawn      Spawner
	interrupts Interrupts
	exit       func(int)
}

// Option configures a Runner.
type Option func(*Runner)

// WithShell overrides the resolved platform shell.
func WithShell(spec shell.Spec) Option {
	return func(r *Runner) { r.shell = spec }
}

// WithOutput sets the writer used for the command echo, diagnostics, and
// the child's stdout and stderr.
func WithOutput(out *output.Writer) Option {
	return func(r *Runner) { r.out = out }
}

// WithStdin sets the child's stdin. Defaults to os.Stdin.
func WithStdin(in io.Reader) Option {
	return func(r *Runner) { r.stdin = in }
}

// WithSpawner replaces Launch.
func WithSpawner(spawn Spawner) Option {
	return func(r *Runner) { r.spawn = spawn }
}

// WithInterrupts replaces the process-wide interrupt hub.
func WithInterrupts(interrupts Interrupts) Option {
	return func(r *Runner) { r.interrupts = interrupts }
}

// WithExit replaces os.Exit for the interrupt path. A replacement that
// returns lets Run return a KilledByInterrupt result.
func WithExit(exit func(int)) Option {
	return func(r *Runner) { r.exit = exit }
}

// New creates a Runner for the platform shell writing to the process
// stdout and stderr.
func New(opts ...Option) *Runner {
	r := &Runner{
		shell: shell.Resolve(),
		stdin: os.Stdin,
		spawn: Launch,
		exit:  os.Exit,
	}

	for _, opt := range opts {
		opt(r)
	}

	if r.out == nil {
		r.out = output.Default()
	}

	if r.interrupts == nil {
		r.interrupts = ProcessInterrupts()
	}

	return r
}

// Run echoes the script, runs it to completion, and returns its outcome.
// If an interrupt arrives while the script runs, the child is killed and
// the process exits with 69; Run does not return in that case.
func (r *Runner) Run(ctx context.Context, script string) Result {
	logger := observability.FromContext(ctx).With(
		slog.String("component", "runner"),
		slog.String("shell", r.shell.String()),
		slog.String("script", ansi.Preview(script, previewWidth)),
	)

	_, span := observability.Tracer().Start(ctx, "script.run", trace.WithAttributes(
		attribute.String("script.shell", r.shell.String()),
		attribute.String("script.preview", ansi.Preview(script, previewWidth)),
	))
	defer span.End()

	r.out.Command(script)

	slot := newChildSlot()
	outcome := make(chan bool, 1)

	// Armed before spawn: an interrupt during process creation is pending,
	// not idle.
	disarm := r.interrupts.Arm(func() {
		child := slot.claim()
		if child == nil {
			return
		}

		outcome <- r.interrupt(child, logger, span)
	})
	defer disarm()

	startedAt := time.Now()

	child, err := r.spawn(Command{
		Shell:  r.shell,
		Script: script,
		Stdin:  r.stdin,
		Stdout: r.out.Out,
		Stderr: r.out.Err,
	})
	if err != nil {
		cliErr := clierrors.SpawnFailed(r.shell.String(), err)
		r.report(cliErr)
		logger.Error("script spawn failed", slog.String("error", err.Error()))

		if slot.fill(nil) {
			r.terminate(logger, span)
			return Result{Code: clierrors.ExitInterrupted, State: KilledByInterrupt, Err: cliErr}
		}

		return finish(span, Result{Code: clierrors.ExitGeneral, State: SpawnFailed, Err: cliErr})
	}

	pid := child.Pid()
	logger = logger.With(slog.Int("pid", pid))
	logger.Debug("script started")
	span.SetAttributes(attribute.Int("script.pid", pid))

	if slot.fill(child) {
		r.interrupt(child, logger, span)
		_, _ = child.Wait()

		return Result{Code: clierrors.ExitInterrupted, State: KilledByInterrupt}
	}

	state, waitErr := child.Wait()

	if slot.take() == nil && <-outcome {
		return Result{Code: clierrors.ExitInterrupted, State: KilledByInterrupt}
	}

	res := r.resolve(state, waitErr)

	logger.Info("script finished",
		slog.Int("exit_code", res.Code),
		slog.String("state", string(res.State)),
		slog.Duration("duration", time.Since(startedAt)),
	)

	return finish(span, res)
}

// interrupt kills child and terminates the process. It reports false
// without side effects when the child was already reaped, which happens
// when the waiter's Wait returned just before the interrupt claimed the
// slot; the waiter then resolves the natural exit.
func (r *Runner) interrupt(child Child, logger *slog.Logger, span trace.Span) bool {
	if err := child.Kill(); err != nil {
		if errors.Is(err, os.ErrProcessDone) {
			logger.Debug("interrupt arrived after script was reaped")
			return false
		}

		r.report(clierrors.InterruptKillFailed(child.Pid(), err))
		logger.Error("kill after interrupt failed", slog.String("error", err.Error()))
	}

	r.terminate(logger, span)

	return true
}

// terminate ends the process with the interrupt code.
func (r *Runner) terminate(logger *slog.Logger, span trace.Span) {
	r.out.Newline()

	logger.Warn("script interrupted", slog.Int("exit_code", clierrors.ExitInterrupted))
	finish(span, Result{Code: clierrors.ExitInterrupted, State: KilledByInterrupt})
	span.End()

	r.exit(clierrors.ExitInterrupted)
}

// resolve maps the waiter's view of the child to a Result.
func (r *Runner) resolve(state *os.ProcessState, err error) Result {
	switch {
	case err == nil:
		return Result{Code: exitCode(state), State: ReapedNatural}
	case isNoChild(err) || errors.Is(err, os.ErrProcessDone):
		return Result{Code: clierrors.ExitSuccess, State: AlreadyReaped}
	default:
		cliErr := clierrors.WaitFailed(err)
		r.report(cliErr)

		return Result{Code: clierrors.ExitGeneral, State: WaitFailed, Err: cliErr}
	}
}

func (r *Runner) report(err *clierrors.CLIError) {
	r.out.Failure("%s", err.Message)

	if err.Hint != "" {
		r.out.Hint("%s", err.Hint)
	}
}

// exitCode returns the child's exit code, or 1 when it has none, e.g. when
// it was ended by a signal.
func exitCode(state *os.ProcessState) int {
	if state == nil {
		return clierrors.ExitGeneral
	}

	if code := state.ExitCode(); code >= 0 {
		return code
	}

	return clierrors.ExitGeneral
}

func finish(span trace.Span, res Result) Result {
	span.SetAttributes(
		attribute.Int("script.exit_code", res.Code),
		attribute.String("script.state", string(res.State)),
	)

	if res.Err != nil {
		span.RecordError(res.Err)
		span.SetStatus(codes.Error, string(res.State))
	}

	return res
}
