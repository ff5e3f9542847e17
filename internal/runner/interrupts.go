package runner

import (
	"os"
	"os/signal"
	"sync"

	clierrors "github.com/musher-dev/scriptrun/internal/errors"
)

// Interrupts dispatches process interrupts to the currently armed run.
type Interrupts interface {
	// Arm installs handler as the target of the next interrupt. The returned
	// func removes it again unless a later Arm has replaced it.
	Arm(handler func()) (disarm func())
}

var (
	processHubOnce sync.Once
	processHub     *interruptHub
)

// ProcessInterrupts returns the process-wide interrupt hub. The OS signal
// subscription is made on first Arm and lives for the rest of the process.
func ProcessInterrupts() Interrupts {
	processHubOnce.Do(func() {
		processHub = newInterruptHub(os.Exit, func(ch chan<- os.Signal) {
			signal.Notify(ch, os.Interrupt)
		})
	})

	return processHub
}

type interruptHub struct {
	install sync.Once
	notify  func(chan<- os.Signal)
	exit    func(int)

	mu      sync.Mutex
	handler func()
	armed   uint64
}

func newInterruptHub(exit func(int), notify func(chan<- os.Signal)) *interruptHub {
	return &interruptHub{exit: exit, notify: notify}
}

func (h *interruptHub) Arm(handler func()) func() {
	h.install.Do(func() {
		signals := make(chan os.Signal, 1)
		h.notify(signals)

		go h.loop(signals)
	})

	h.mu.Lock()
	h.armed++
	token := h.armed
	h.handler = handler
	h.mu.Unlock()

	return func() {
		h.mu.Lock()
		defer h.mu.Unlock()

		if h.armed == token {
			h.handler = nil
		}
	}
}

func (h *interruptHub) loop(signals <-chan os.Signal) {
	for range signals {
		h.dispatch()
	}
}

// dispatch runs the armed handler, or ends the process when no run is in
// flight.
func (h *interruptHub) dispatch() {
	h.mu.Lock()
	handler := h.handler
	h.mu.Unlock()

	if handler == nil {
		h.exit(clierrors.ExitInterrupted)
		return
	}

	handler()
}
