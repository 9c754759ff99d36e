//go:build linux

package irsource

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sys/unix"
)

// DefaultLIRCDevice is the first kernel infrared receiver
const DefaultLIRCDevice = "/dev/lirc0"

// ioctls and modes from <linux/lirc.h>
const (
	lircGetFeatures    = 0x80046900
	lircSetRecMode     = 0x40046912
	lircModeScancode   = 0x00000008
	lircCanRecScancode = lircModeScancode << 16
)

const pollTimeoutMs = 100

// LIRC reads decoded scancodes from a kernel rc-core receiver
type LIRC struct {
	path   string
	logger *slog.Logger
}

// NewLIRC creates a source reading from the lirc character device at path
func NewLIRC(path string, logger *slog.Logger) *LIRC {
	if path == "" {
		path = DefaultLIRCDevice
	}
	return &LIRC{path: path, logger: logger}
}

// Run opens the device in scancode mode and delivers signals until ctx is done
func (l *LIRC) Run(ctx context.Context, handle Handler) error {
	fd, err := unix.Open(l.path, unix.O_RDONLY|unix.O_NONBLOCK|unix.O_CLOEXEC, 0)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", l.path, err)
	}
	defer unix.Close(fd)

	features, err := unix.IoctlGetUint32(fd, lircGetFeatures)
	if err != nil {
		return fmt.Errorf("failed to query %s: %w", l.path, err)
	}
	if features&lircCanRecScancode == 0 {
		return fmt.Errorf("%s cannot receive decoded scancodes; load a protocol decoder with ir-keytable", l.path)
	}
	if err := unix.IoctlSetPointerInt(fd, lircSetRecMode, lircModeScancode); err != nil {
		return fmt.Errorf("failed to set scancode mode on %s: %w", l.path, err)
	}

	l.logger.Info("infrared receiver opened", "device", l.path)

	buf := make([]byte, recordSize*16)
	fds := []unix.PollFd{{Fd: int32(fd), Events: unix.POLLIN}}
	for {
		if ctx.Err() != nil {
			return nil
		}

		n, err := unix.Poll(fds, pollTimeoutMs)
		if err != nil {
			if errors.Is(err, unix.EINTR) {
				continue
			}
			return fmt.Errorf("poll %s: %w", l.path, err)
		}
		if n == 0 {
			continue
		}
		if fds[0].Revents&(unix.POLLERR|unix.POLLHUP) != 0 {
			return fmt.Errorf("%s was removed", l.path)
		}

		n, err = unix.Read(fd, buf)
		if err != nil {
			if errors.Is(err, unix.EAGAIN) || errors.Is(err, unix.EINTR) {
				continue
			}
			return fmt.Errorf("read %s: %w", l.path, err)
		}
		if n%recordSize != 0 {
			l.logger.Warn("short scancode read", "bytes", n)
		}

		for off := 0; off+recordSize <= n; off += recordSize {
			handle(decodeRecord(buf[off : off+recordSize]))
		}
	}
}
