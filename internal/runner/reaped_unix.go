//go:build unix

package runner

import (
	"errors"

	"golang.org/x/sys/unix"
)

func isNoChild(err error) bool {
	return errors.Is(err, unix.ECHILD)
}
