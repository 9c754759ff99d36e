package display

import (
	"context"
	"log/slog"
	"time"

	"github.com/pleimann/ir2hid/internal/hid"
)

// FrameSender is the interface for sending frames to a device
type FrameSender interface {
	SendFrame(frame *hid.DisplayFrame) error
}

// Mirror draws the status onto a device display whenever it changes. Redraws
// are coalesced to at most one per interval and only changed row bands are
// sent.
type Mirror struct {
	state    *State
	device   FrameSender
	screen   *Screen
	interval time.Duration
	logger   *slog.Logger

	// last is the frame buffer the device is known to show
	last []byte

	cancel context.CancelFunc
	done   chan struct{}
}

// NewMirror creates a mirror of state onto device
func NewMirror(state *State, device FrameSender, width, height int, interval time.Duration, logger *slog.Logger) *Mirror {
	return &Mirror{
		state:    state,
		device:   device,
		screen:   NewScreen(width, height),
		interval: interval,
		logger:   logger,
	}
}

// Start starts the update loop
func (m *Mirror) Start(ctx context.Context) {
	ctx, m.cancel = context.WithCancel(ctx)
	m.done = make(chan struct{})
	changed := m.state.Subscribe()

	go func() {
		defer close(m.done)

		ticker := time.NewTicker(m.interval)
		defer ticker.Stop()

		dirty := true
		for {
			select {
			case <-ctx.Done():
				return
			case <-changed:
				dirty = true
			case <-ticker.C:
				if dirty {
					dirty = !m.update()
				}
			}
		}
	}()
}

// Stop stops the update loop and clears the device display
func (m *Mirror) Stop() {
	if m.cancel == nil {
		return
	}
	m.cancel()
	<-m.done

	m.last = nil
	if err := m.device.SendFrame(m.screen.enc.Clear()); err != nil {
		m.logger.Debug("failed to clear display", "err", err)
	}
}

// update reports whether the device now shows the current state
func (m *Mirror) update() bool {
	m.screen.Draw(m.state.Snapshot())
	pixels := m.screen.Pixels()

	for _, frame := range m.screen.enc.Diff(m.last, pixels) {
		if err := m.device.SendFrame(frame); err != nil {
			m.logger.Debug("failed to send display frame", "y", frame.Y, "err", err)
			// resend everything next time
			m.last = nil
			return false
		}
	}
	m.last = pixels
	return true
}
