//go:build linux

package hid

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sys/unix"
)

// DefaultUDCRoot is where the kernel lists USB device controllers
const DefaultUDCRoot = "/sys/class/udc"

// Gadget is a Linux USB gadget keyboard function (f_hid). Reports are
// written to its character device, e.g. /dev/hidg0.
//
// Host presence is sampled by Watch; Connected only reads the last sample.
type Gadget struct {
	path      string
	statePath string

	mu     sync.Mutex
	f      *os.File
	closed bool

	hostUp atomic.Bool
	isOpen atomic.Bool
}

// NewGadget opens the gadget device at path. statePath is the UDC state
// file used to detect an attached host; when empty the first controller
// under DefaultUDCRoot is used.
func NewGadget(path, statePath string) (*Gadget, error) {
	if statePath == "" {
		matches, _ := filepath.Glob(filepath.Join(DefaultUDCRoot, "*", "state"))
		if len(matches) == 0 {
			return nil, fmt.Errorf("no USB device controller found under %s", DefaultUDCRoot)
		}
		statePath = matches[0]
	}

	g := &Gadget{path: path, statePath: statePath}
	if err := g.open(); err != nil {
		return nil, err
	}
	g.Poll()
	return g, nil
}

func (g *Gadget) open() error {
	// Non-blocking: a host that stops polling must not stall the writer.
	f, err := os.OpenFile(g.path, os.O_WRONLY|unix.O_NONBLOCK, 0)
	if err != nil {
		return fmt.Errorf("failed to open gadget %s: %w", g.path, err)
	}
	g.f = f
	g.isOpen.Store(true)
	return nil
}

// Connected reports whether a host had configured the UDC at the last Poll
// and the device is open
func (g *Gadget) Connected() bool {
	return g.hostUp.Load() && g.isOpen.Load()
}

// Poll samples the UDC state and reopens the device if a write error closed
// it
func (g *Gadget) Poll() {
	data, err := os.ReadFile(g.statePath)
	g.hostUp.Store(err == nil && strings.TrimSpace(string(data)) == "configured")

	g.mu.Lock()
	defer g.mu.Unlock()
	if g.f == nil && !g.closed {
		_ = g.open()
	}
}

// Watch polls every interval until ctx is done
func (g *Gadget) Watch(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			g.Poll()
		}
	}
}

// Press sends a report with code held down
func (g *Gadget) Press(code uint8) error {
	return g.write(BootKeyboardReport(code))
}

// Release sends an empty report
func (g *Gadget) Release(code uint8) error {
	return g.write(BootKeyboardReport(0))
}

func (g *Gadget) write(report [BootReportSize]byte) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.f == nil {
		return ErrDeviceClosed
	}
	_, err := g.f.Write(report[:])
	if errors.Is(err, unix.ESHUTDOWN) || errors.Is(err, unix.ENODEV) {
		g.release()
	}
	return err
}

func (g *Gadget) release() error {
	g.isOpen.Store(false)
	if g.f == nil {
		return nil
	}
	err := g.f.Close()
	g.f = nil
	return err
}

// Close closes the gadget device. A closed gadget is not reopened.
func (g *Gadget) Close() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.closed = true
	return g.release()
}
