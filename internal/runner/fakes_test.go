package runner

import (
	"bytes"
	"os"
	"os/exec"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/musher-dev/scriptrun/internal/output"
	"github.com/musher-dev/scriptrun/internal/terminal"
	"github.com/musher-dev/scriptrun/internal/testutil"
)

type fakeChild struct {
	pid     int
	state   *os.ProcessState
	waitErr error
	killErr error

	release chan struct{}
	once    sync.Once
	kills   atomic.Int32
}

// newFakeChild returns a child whose Wait blocks until finish or Kill.
func newFakeChild(pid int, state *os.ProcessState, waitErr error) *fakeChild {
	return &fakeChild{
		pid:     pid,
		state:   state,
		waitErr: waitErr,
		release: make(chan struct{}),
	}
}

// newExitedChild returns a child whose Wait returns immediately.
func newExitedChild(state *os.ProcessState, waitErr error) *fakeChild {
	c := newFakeChild(4242, state, waitErr)
	c.finish()

	return c
}

func (c *fakeChild) Pid() int { return c.pid }

func (c *fakeChild) Wait() (*os.ProcessState, error) {
	<-c.release
	return c.state, c.waitErr
}

func (c *fakeChild) Kill() error {
	c.kills.Add(1)
	c.finish()

	return c.killErr
}

func (c *fakeChild) finish() {
	c.once.Do(func() { close(c.release) })
}

// reapHook runs onReap after the wrapped child's Wait has returned and
// before the runner sees the result.
type reapHook struct {
	Child
	onReap func()
}

func (c *reapHook) Wait() (*os.ProcessState, error) {
	state, err := c.Child.Wait()
	c.onReap()

	return state, err
}

type fakeInterrupts struct {
	armed   chan func()
	disarms atomic.Int32
}

func newFakeInterrupts() *fakeInterrupts {
	return &fakeInterrupts{armed: make(chan func(), 1)}
}

func (f *fakeInterrupts) Arm(handler func()) func() {
	f.armed <- handler
	return func() { f.disarms.Add(1) }
}

type exitRecorder struct {
	mu    sync.Mutex
	codes []int
}

func (e *exitRecorder) exit(code int) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.codes = append(e.codes, code)
}

func (e *exitRecorder) calls() []int {
	e.mu.Lock()
	defer e.mu.Unlock()

	return append([]int(nil), e.codes...)
}

type testOutput struct {
	stdout bytes.Buffer
	stderr bytes.Buffer
	writer *output.Writer
}

func newTestOutput() *testOutput {
	o := &testOutput{}
	o.writer = output.NewWriter(&o.stdout, &o.stderr, &terminal.Info{})

	return o
}

func spawnerFor(child Child) Spawner {
	return func(Command) (Child, error) { return child, nil }
}

// exitedState produces a real ProcessState for a process that exited with code.
func exitedState(t *testing.T, code int) *os.ProcessState {
	t.Helper()
	testutil.RequireShell(t, "bash")

	cmd := exec.Command("bash", "-c", "exit "+strconv.Itoa(code))
	_ = cmd.Run()

	if cmd.ProcessState == nil || cmd.ProcessState.ExitCode() != code {
		t.Fatalf("could not produce exit state %d", code)
	}

	return cmd.ProcessState
}
