// Package irsource delivers decoded infrared signals from a receiver.
package irsource

import (
	"context"
	"encoding/binary"
	"errors"

	"github.com/pleimann/ir2hid/internal/event"
	"github.com/pleimann/ir2hid/internal/irproto"
)

// ErrUnsupported is returned by sources that are not available on this platform
var ErrUnsupported = errors.New("infrared source not supported on this platform")

// Handler receives each decoded signal. It is called from the source's
// goroutine and must not block.
type Handler func(event.Signal)

// Source produces decoded signals until ctx is cancelled or the receiver fails
type Source interface {
	Run(ctx context.Context, handle Handler) error
}

// struct lirc_scancode from <linux/lirc.h>
const (
	recordSize = 24

	scancodeFlagToggle = 1
	scancodeFlagRepeat = 2
)

// decodeRecord converts one lirc_scancode record into a signal.
//
//	Byte 0-7:   timestamp (ns)
//	Byte 8-9:   flags
//	Byte 10-11: rc_proto
//	Byte 12-15: keycode
//	Byte 16-23: scancode
func decodeRecord(b []byte) event.Signal {
	flags := binary.NativeEndian.Uint16(b[8:10])
	proto := irproto.KernelProto(binary.NativeEndian.Uint16(b[10:12]))
	scancode := binary.NativeEndian.Uint64(b[16:24])

	p, addr, cmd := irproto.FromKernel(proto, scancode)
	return event.Signal{
		Signature: irproto.Signature{Protocol: p, Address: addr, Command: cmd},
		Repeat:    flags&scancodeFlagRepeat != 0,
	}
}
