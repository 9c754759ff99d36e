package display

import (
	"sync"
	"unicode/utf8"
)

// LineCapacity is the maximum length in bytes of each status line
const LineCapacity = 31

// Snapshot is a copy of the status shown on screen. The three text lines are
// only meaningful when HasSignal is true.
type Snapshot struct {
	Protocol  string
	Address   string
	Command   string
	HasSignal bool
	Connected bool
}

// State is the status record shared between the consumer loop, which is
// the only writer, and any number of renderers.
type State struct {
	mu   sync.Mutex
	snap Snapshot
	subs []chan struct{}
}

// NewState creates an empty status record
func NewState() *State {
	return &State{}
}

// Snapshot returns a copy of the current status
func (s *State) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap
}

// SetLines replaces the three status lines and marks the status as holding
// a signal. Lines longer than LineCapacity are truncated.
func (s *State) SetLines(protocol, address, command string) {
	protocol = Truncate(protocol)
	address = Truncate(address)
	command = Truncate(command)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap.Protocol = protocol
	s.snap.Address = address
	s.snap.Command = command
	s.snap.HasSignal = true
}

// ClearLines drops the status lines so renderers show the waiting screen
// again
func (s *State) ClearLines() {
	s.mu.Lock()
	defer s.mu.Unlock()
	connected := s.snap.Connected
	s.snap = Snapshot{Connected: connected}
}

// SetConnected records the HID host connection status. It reports whether
// the value changed.
func (s *State) SetConnected(connected bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.snap.Connected == connected {
		return false
	}
	s.snap.Connected = connected
	return true
}

// Subscribe returns a channel that receives a value after each Notify.
// Notifications that arrive before the previous one was received collapse
// into one.
func (s *State) Subscribe() <-chan struct{} {
	ch := make(chan struct{}, 1)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs = append(s.subs, ch)
	return ch
}

// Notify asks renderers to redraw. It never blocks.
func (s *State) Notify() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ch := range s.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// Truncate shortens text to at most LineCapacity bytes without splitting a
// UTF-8 sequence.
func Truncate(text string) string {
	if len(text) <= LineCapacity {
		return text
	}
	cut := LineCapacity
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	return text[:cut]
}
