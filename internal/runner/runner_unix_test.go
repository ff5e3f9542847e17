//go:build unix

package runner

import (
	"errors"
	"strings"
	"testing"
	"time"

	"golang.org/x/sys/unix"

	clierrors "github.com/musher-dev/scriptrun/internal/errors"
	"github.com/musher-dev/scriptrun/internal/testutil"
)

func TestRun_SignalKilledChildReturnsOne(t *testing.T) {
	testutil.RequireShell(t, "bash")

	out := newTestOutput()
	r := New(
		WithOutput(out.writer),
		WithStdin(strings.NewReader("")),
		WithInterrupts(newFakeInterrupts()),
	)

	res := r.Run(t.Context(), "kill -9 $$")

	if res.Code != 1 || res.State != ReapedNatural {
		t.Fatalf("Run() = {%d %q}, want {1 %q}", res.Code, res.State, ReapedNatural)
	}
}

func TestRun_InterruptKillsRunningChild(t *testing.T) {
	testutil.RequireShell(t, "bash")

	out := newTestOutput()
	ints := newFakeInterrupts()
	exits := &exitRecorder{}

	var pid int

	started := make(chan struct{})

	r := New(
		WithOutput(out.writer),
		WithStdin(strings.NewReader("")),
		WithInterrupts(ints),
		WithExit(exits.exit),
		WithSpawner(func(c Command) (Child, error) {
			child, err := Launch(c)
			if err == nil {
				pid = child.Pid()
			}

			close(started)

			return child, err
		}),
	)

	done := make(chan Result, 1)
	startedAt := time.Now()

	go func() { done <- r.Run(t.Context(), "exec sleep 10") }()

	handler := <-ints.armed
	<-started
	handler()

	var res Result

	select {
	case res = <-done:
	case <-time.After(8 * time.Second):
		t.Fatal("Run did not return after the interrupt")
	}

	if elapsed := time.Since(startedAt); elapsed > 5*time.Second {
		t.Fatalf("interrupted run took %s", elapsed)
	}

	if res.Code != clierrors.ExitInterrupted || res.State != KilledByInterrupt {
		t.Fatalf("Run() = {%d %q}, want {69 %q}", res.Code, res.State, KilledByInterrupt)
	}

	if got := exits.calls(); len(got) != 1 || got[0] != clierrors.ExitInterrupted {
		t.Fatalf("exit calls = %v, want [69]", got)
	}

	if got, want := out.stdout.String(), "$ exec sleep 10\n\n\n"; got != want {
		t.Fatalf("stdout = %q, want %q", got, want)
	}

	if err := unix.Kill(pid, 0); !errors.Is(err, unix.ESRCH) {
		t.Fatalf("kill(%d, 0) = %v, want ESRCH", pid, err)
	}
}

func TestRun_InterruptAfterRealReapKeepsExitCode(t *testing.T) {
	testutil.RequireShell(t, "bash")

	out := newTestOutput()
	ints := newFakeInterrupts()
	exits := &exitRecorder{}

	r := New(
		WithOutput(out.writer),
		WithStdin(strings.NewReader("")),
		WithInterrupts(ints),
		WithExit(exits.exit),
		WithSpawner(func(c Command) (Child, error) {
			child, err := Launch(c)
			if err != nil {
				return nil, err
			}

			// Fire the interrupt once cmd.Wait has reaped the shell.
			return &reapHook{Child: child, onReap: func() { (<-ints.armed)() }}, nil
		}),
	)

	res := r.Run(t.Context(), "exit 7")

	if res.Code != 7 || res.State != ReapedNatural {
		t.Fatalf("Run() = {%d %q}, want {7 %q}", res.Code, res.State, ReapedNatural)
	}

	if got := exits.calls(); len(got) != 0 {
		t.Fatalf("exit calls = %v, want none", got)
	}

	if strings.Contains(out.stderr.String(), "Failed to kill") {
		t.Fatalf("stderr = %q, want no kill diagnostic", out.stderr.String())
	}

	if got, want := out.stdout.String(), "$ exit 7\n\n"; got != want {
		t.Fatalf("stdout = %q, want %q", got, want)
	}
}
