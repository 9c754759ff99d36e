package hid

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/karalabe/hid"

	"github.com/pleimann/ir2hid/internal/utils"
)

// ErrDeviceClosed is returned when the bridge device is not open
var ErrDeviceClosed = errors.New("device closed")

// DefaultReconnectInterval spaces attempts to reopen a lost bridge board
const DefaultReconnectInterval = time.Second

// conn is an open HID interface
type conn interface {
	Read(b []byte) (int, error)
	Write(b []byte) (int, error)
	Close() error
}

// Bridge is a USB HID bridge board that types keys on the host it is
// plugged into. It also reports its own buttons and can show frames on its
// display.
//
// A lost board is reopened by ReadEvents, never by the key path.
type Bridge struct {
	vendorID  uint16
	productID uint16
	open      func() (conn, error)
	retry     time.Duration

	mu     sync.Mutex
	device conn
	closed bool

	online atomic.Bool
}

// NewBridge opens a connection to a bridge board with the specified vendor and product IDs
func NewBridge(vendorID, productID uint16) (*Bridge, error) {
	devices := hid.Enumerate(vendorID, productID)
	if len(devices) == 0 {
		// List available devices to help user find the right one
		allDevices := hid.Enumerate(0, 0)
		if len(allDevices) == 0 {
			return nil, fmt.Errorf("no HID devices found on system - check USB connection")
		}
		return nil, fmt.Errorf("no device found with VendorID=0x%04X, ProductID=0x%04X\n"+
			"  Run '"+utils.ExecutableName()+" list-devices' to see available devices\n"+
			"  Run '"+utils.ExecutableName()+" set-device' to configure the correct device",
			vendorID, productID)
	}

	dev, err := openFirst(devices)
	if err != nil {
		return nil, fmt.Errorf("failed to open device 0x%04X:0x%04X: %w\n"+
			"  This may be a permissions issue. On Linux, add a udev rule granting\n"+
			"  your user access to /dev/hidraw* for this device",
			vendorID, productID, err)
	}

	b := newBridge(dev, func() (conn, error) {
		devices := hid.Enumerate(vendorID, productID)
		if len(devices) == 0 {
			return nil, fmt.Errorf("device 0x%04X:0x%04X not found", vendorID, productID)
		}
		return openFirst(devices)
	})
	b.vendorID, b.productID = vendorID, productID
	return b, nil
}

func newBridge(dev conn, open func() (conn, error)) *Bridge {
	b := &Bridge{open: open, retry: DefaultReconnectInterval, device: dev}
	b.online.Store(dev != nil)
	return b
}

// openFirst tries each matching interface until one opens.
// Some devices have multiple interfaces, not all of which can be opened.
func openFirst(devices []hid.DeviceInfo) (conn, error) {
	var lastErr error
	for _, devInfo := range devices {
		dev, err := devInfo.Open()
		if err == nil {
			return dev, nil
		}
		lastErr = err
	}
	return nil, lastErr
}

// Close closes the HID device connection
func (b *Bridge) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil
	}
	b.closed = true
	b.online.Store(false)

	if b.device != nil {
		err := b.device.Close()
		b.device = nil
		return err
	}
	return nil
}

// Connected reports whether the bridge board is open
func (b *Bridge) Connected() bool {
	return b.online.Load()
}

// Press presses code on the bridge's host
func (b *Bridge) Press(code uint8) error {
	return b.Write(EncodeKeyReport(KeyActionPress, code))
}

// Release releases code on the bridge's host
func (b *Bridge) Release(code uint8) error {
	return b.Write(EncodeKeyReport(KeyActionRelease, code))
}

// ReadEvents continuously reads button events from the board and sends
// them to the channel. While the board is disconnected it polls every
// pollInterval and tries to reopen it at most once per reconnect interval.
func (b *Bridge) ReadEvents(ctx context.Context, events chan<- Event, pollInterval time.Duration) error {
	buf := make([]byte, 64)
	var nextTry time.Time

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		b.mu.Lock()
		if b.closed {
			b.mu.Unlock()
			return ErrDeviceClosed
		}
		dev := b.device
		b.mu.Unlock()

		if dev == nil {
			if now := time.Now(); !now.Before(nextTry) {
				nextTry = now.Add(b.retry)
				if b.Reconnect() == nil {
					continue
				}
			}
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(pollInterval):
			}
			continue
		}

		n, err := dev.Read(buf)
		if err != nil {
			b.drop(dev)
			continue
		}

		if n == 0 {
			continue
		}

		event, err := ParseEvent(buf[:n])
		if err != nil {
			// Other report types share the endpoint
			continue
		}

		select {
		case events <- *event:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Write sends data to the HID device. A failed write marks the connection
// as lost.
func (b *Bridge) Write(data []byte) error {
	b.mu.Lock()
	if b.closed || b.device == nil {
		b.mu.Unlock()
		return ErrDeviceClosed
	}
	dev := b.device
	b.mu.Unlock()

	if _, err := dev.Write(data); err != nil {
		b.drop(dev)
		return err
	}
	return nil
}

// SendFrame sends a display frame to the device
func (b *Bridge) SendFrame(frame *DisplayFrame) error {
	return b.Write(frame.Encode())
}

// drop forgets dev if it is still the current device
func (b *Bridge) drop(dev conn) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.device == dev {
		b.device.Close()
		b.device = nil
		b.online.Store(false)
	}
}

// Reconnect reopens the board. Enumeration runs without holding the lock so
// writers fail fast instead of waiting on USB.
func (b *Bridge) Reconnect() error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return ErrDeviceClosed
	}
	if b.device != nil {
		b.device.Close()
		b.device = nil
		b.online.Store(false)
	}
	b.mu.Unlock()

	dev, err := b.open()
	if err != nil {
		return fmt.Errorf("failed to open device: %w", err)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		dev.Close()
		return ErrDeviceClosed
	}
	if b.device != nil {
		// lost a race with another Reconnect
		dev.Close()
		return nil
	}
	b.device = dev
	b.online.Store(true)
	return nil
}
