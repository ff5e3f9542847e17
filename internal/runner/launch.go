package runner

import (
	"errors"
	"io"
	"os"
	"os/exec"
	"time"

	"github.com/musher-dev/scriptrun/internal/shell"
)

// waitDelay bounds how long Wait keeps copying output after the shell exits
// while a grandchild still holds its pipes open.
const waitDelay = 2 * time.Second

// Child is a spawned script process. Wait reaps it; Kill signals only the
// direct shell child, never its descendants, and returns os.ErrProcessDone
// once Wait has reaped it.
type Child interface {
	Pid() int
	Wait() (*os.ProcessState, error)
	Kill() error
}

// Command describes one script launch.
type Command struct {
	Shell  shell.Spec
	Script string
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// Spawner starts a Command. Launch is the production implementation.
type Spawner func(cmd Command) (Child, error)

// Launch starts the script through the shell as "<Executable> <Flag> <script>",
// passing the script as a single argument. The child inherits the
// environment and working directory of the calling process.
func Launch(c Command) (Child, error) {
	cmd := exec.Command(c.Shell.Executable, c.Shell.Args(c.Script)...) //nolint:gosec // G204: running caller-supplied scripts is the purpose of this package
	cmd.Stdin = c.Stdin
	cmd.Stdout = c.Stdout
	cmd.Stderr = c.Stderr
	cmd.WaitDelay = waitDelay

	if err := cmd.Start(); err != nil {
		return nil, err
	}

	return &shellChild{cmd: cmd}, nil
}

type shellChild struct {
	cmd *exec.Cmd
}

func (c *shellChild) Pid() int {
	return c.cmd.Process.Pid
}

// Wait reaps the child. A non-zero exit is reported through the returned
// state, not as an error.
func (c *shellChild) Wait() (*os.ProcessState, error) {
	err := c.cmd.Wait()

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) || errors.Is(err, exec.ErrWaitDelay) {
		err = nil
	}

	return c.cmd.ProcessState, err
}

func (c *shellChild) Kill() error {
	return c.cmd.Process.Kill()
}
