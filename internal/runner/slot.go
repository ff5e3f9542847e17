package runner

import "sync"

// childSlot holds the child of one run until either the waiter or the
// interrupt handler takes it. Only one of them ever receives it.
//
// The slot is armed before the child exists. An interrupt that claims the
// slot before fill is recorded as pending and handed back to the runner by
// fill.
type childSlot struct {
	mu      sync.Mutex
	child   Child
	filled  bool
	pending bool
}

func newChildSlot() *childSlot {
	return &childSlot{}
}

// fill stores child in the slot. It reports true, leaving the slot empty,
// when an interrupt claimed the slot first; the caller then owns the child
// and the interrupt. child may be nil when spawning failed.
func (s *childSlot) fill(child Child) (pending bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.filled = true
	if s.pending {
		return true
	}

	s.child = child

	return false
}

// claim is take for the interrupt handler. Before fill it records the
// interrupt as pending and returns nil.
func (s *childSlot) claim() Child {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.filled {
		s.pending = true
		return nil
	}

	child := s.child
	s.child = nil

	return child
}

// take returns the child and empties the slot. Every call after the first
// returns nil.
func (s *childSlot) take() Child {
	s.mu.Lock()
	defer s.mu.Unlock()

	child := s.child
	s.child = nil

	return child
}
