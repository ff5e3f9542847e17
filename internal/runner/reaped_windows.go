//go:build windows

package runner

import (
	"errors"
	"syscall"
)

func isNoChild(err error) bool {
	return errors.Is(err, syscall.ECHILD)
}
