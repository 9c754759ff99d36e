package hid

import "log/slog"

// Transport emits keyboard key actions to a host
type Transport interface {
	// Connected reports whether a host is currently attached and listening.
	// It must not block: transports track the connection in the background.
	Connected() bool
	Press(code uint8) error
	Release(code uint8) error
	Close() error
}

// Dispatcher turns a matched HID code into a key tap
type Dispatcher struct {
	transport Transport
	logger    *slog.Logger
}

// NewDispatcher creates a dispatcher that emits through t
func NewDispatcher(t Transport, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{transport: t, logger: logger}
}

// Dispatch presses and immediately releases code. When no host is
// connected nothing is emitted and Dispatch returns false. Emission errors
// are logged and otherwise ignored.
func (d *Dispatcher) Dispatch(code uint8) bool {
	if !d.transport.Connected() {
		return false
	}
	if err := d.transport.Press(code); err != nil {
		d.logger.Debug("hid press failed", "code", code, "err", err)
	}
	if err := d.transport.Release(code); err != nil {
		d.logger.Debug("hid release failed", "code", code, "err", err)
	}
	return true
}

// Connected reports whether the transport has a host attached
func (d *Dispatcher) Connected() bool {
	return d.transport.Connected()
}

// Close releases the transport
func (d *Dispatcher) Close() error {
	return d.transport.Close()
}

// None is a transport that is never connected
type None struct{}

func (None) Connected() bool { return false }
func (None) Press(uint8) error { return nil }
func (None) Release(uint8) error { return nil }
func (None) Close() error { return nil }
